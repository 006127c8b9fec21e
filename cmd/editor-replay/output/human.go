// human.go - Human-readable output formatter.
package output

import (
	"fmt"
	"sort"
	"strings"
)

// HumanFormatter produces human-readable output.
type HumanFormatter struct{}

// Format writes a human-readable representation of the result.
func (h *HumanFormatter) Format(w Writer, result *Result) error {
	var sb strings.Builder

	if result.Success {
		sb.WriteString(fmt.Sprintf("[OK] %d %s\n", result.Step, result.Action))
	} else {
		sb.WriteString(fmt.Sprintf("[Error] %d %s\n", result.Step, result.Action))
		if result.Error != "" {
			sb.WriteString(fmt.Sprintf("   Error: %s\n", result.Error))
		}
	}

	for _, k := range sortedKeys(result.Data) {
		sb.WriteString(fmt.Sprintf("   %s: %v\n", k, result.Data[k]))
	}

	for _, ev := range result.Events {
		sb.WriteString(fmt.Sprintf("   > [%s] %s", ev.Level, ev.Message))
		for _, k := range sortedKeys(ev.Fields) {
			sb.WriteString(fmt.Sprintf(" %s=%q", k, fmt.Sprint(ev.Fields[k])))
		}
		sb.WriteString("\n")
	}

	_, err := w.Write([]byte(sb.String()))
	return err
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
