// types.go - Shared types for output formatting.
package output

// Result is the outcome of one replayed script step.
type Result struct {
	Success bool           `json:"success"`
	Step    int            `json:"step"`
	Action  string         `json:"action"`
	Data    map[string]any `json:"data,omitempty"`
	Events  []Event        `json:"events,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Event is one diagnostic trace entry the editor emitted during a step.
type Event struct {
	Level   string         `json:"level"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// Formatter is the interface for all output formatters.
type Formatter interface {
	Format(w Writer, result *Result) error
}

// MultiFormatter formats a whole run at once (CSV needs a shared header).
type MultiFormatter interface {
	Formatter
	FormatMultiple(w Writer, results []*Result) error
}

// Writer is a minimal write interface (matches io.Writer).
type Writer interface {
	Write(p []byte) (n int, err error)
}

// GetFormatter returns the appropriate formatter for the given format string.
func GetFormatter(format string) Formatter {
	switch format {
	case "json":
		return &JSONFormatter{}
	case "csv":
		return &CSVFormatter{}
	case "human":
		return &HumanFormatter{}
	default:
		return &HumanFormatter{} // fallback
	}
}
