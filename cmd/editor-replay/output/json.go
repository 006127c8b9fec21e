// json.go - JSON output formatter.
// One JSON object per step, newline separated.
package output

import (
	"encoding/json"
)

// JSONFormatter produces JSON output.
type JSONFormatter struct{}

// Format writes a JSON representation of the result.
func (f *JSONFormatter) Format(w Writer, result *Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
