// output_test.go - Tests for output formatters.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
)

func TestHumanFormatterSuccess(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	f := &HumanFormatter{}
	result := &Result{
		Success: true,
		Step:    2,
		Action:  "click",
		Data:    map[string]any{"target": "#greeting"},
		Events: []Event{
			{Level: "info", Message: "text edited", Fields: map[string]any{"tag": "P", "inserted": int64(7)}},
		},
	}

	if err := f.Format(&buf, result); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "[OK] 2 click\n") {
		t.Errorf("expected [OK] header, got: %s", out)
	}
	if !strings.Contains(out, "target: #greeting") {
		t.Errorf("expected data line, got: %s", out)
	}
	if !strings.Contains(out, `> [info] text edited inserted="7" tag="P"`) {
		t.Errorf("expected event line with sorted fields, got: %s", out)
	}
}

func TestHumanFormatterError(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	f := &HumanFormatter{}
	result := &Result{
		Success: false,
		Step:    4,
		Action:  "choose_file",
		Error:   "no pending file chooser",
	}

	if err := f.Format(&buf, result); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "[Error] 4 choose_file") {
		t.Errorf("expected [Error] header, got: %s", out)
	}
	if !strings.Contains(out, "Error: no pending file chooser") {
		t.Errorf("expected error message, got: %s", out)
	}
}

func TestJSONFormatter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	f := &JSONFormatter{}
	result := &Result{
		Success: true,
		Step:    1,
		Action:  "activate",
		Data:    map[string]any{"active": true},
		Events:  []Event{{Level: "info", Message: "editor mode activated"}},
	}

	if err := f.Format(&buf, result); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if parsed["success"] != true {
		t.Errorf("expected success=true, got %v", parsed["success"])
	}
	if parsed["action"] != "activate" {
		t.Errorf("expected action=activate, got %v", parsed["action"])
	}
	if _, ok := parsed["error"]; ok {
		t.Error("error should be omitted on success")
	}
	events, ok := parsed["events"].([]any)
	if !ok || len(events) != 1 {
		t.Fatalf("expected one event, got %v", parsed["events"])
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("expected newline-terminated object")
	}
}

func TestJSONFormatterOneObjectPerLine(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	f := &JSONFormatter{}
	for i := 1; i <= 3; i++ {
		if err := f.Format(&buf, &Result{Success: true, Step: i, Action: "wait"}); err != nil {
			t.Fatalf("Format failed: %v", err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for _, line := range lines {
		if !json.Valid([]byte(line)) {
			t.Errorf("invalid JSON line: %s", line)
		}
	}
}

func TestCSVFormatterMultiple(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	f := &CSVFormatter{}
	results := []*Result{
		{Success: true, Step: 1, Action: "activate", Data: map[string]any{"active": true}},
		{
			Success: true, Step: 2, Action: "blur",
			Events: []Event{{Message: "text edited"}, {Message: "extra, with comma"}},
		},
		{Success: false, Step: 3, Action: "click", Error: "element not found", Data: map[string]any{"target": "#missing"}},
	}

	if err := f.FormatMultiple(&buf, results); err != nil {
		t.Fatalf("FormatMultiple failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header + 3 rows, got %d", len(records))
	}

	header := strings.Join(records[0], ",")
	if header != "success,step,action,error,events,active,target" {
		t.Errorf("unexpected header: %s", header)
	}
	if records[2][4] != "text edited; extra, with comma" {
		t.Errorf("unexpected events column: %q", records[2][4])
	}
	if records[3][0] != "false" || records[3][3] != "element not found" || records[3][6] != "#missing" {
		t.Errorf("unexpected error row: %v", records[3])
	}
	if records[1][5] != "true" || records[1][6] != "" {
		t.Errorf("unexpected data columns: %v", records[1])
	}
}

func TestCSVFormatterEmpty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := (&CSVFormatter{}).FormatMultiple(&buf, nil); err != nil {
		t.Fatalf("FormatMultiple failed: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestGetFormatter(t *testing.T) {
	t.Parallel()
	tests := []struct {
		format string
		want   string
	}{
		{"human", "*output.HumanFormatter"},
		{"json", "*output.JSONFormatter"},
		{"csv", "*output.CSVFormatter"},
		{"unknown", "*output.HumanFormatter"},
		{"", "*output.HumanFormatter"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			f := GetFormatter(tt.format)
			got := typeName(f)
			if got != tt.want {
				t.Errorf("GetFormatter(%q) = %s, want %s", tt.format, got, tt.want)
			}
		})
	}

	if _, ok := GetFormatter("csv").(MultiFormatter); !ok {
		t.Error("csv formatter should implement MultiFormatter")
	}
}

func typeName(f Formatter) string {
	switch f.(type) {
	case *HumanFormatter:
		return "*output.HumanFormatter"
	case *JSONFormatter:
		return "*output.JSONFormatter"
	case *CSVFormatter:
		return "*output.CSVFormatter"
	default:
		return "unknown"
	}
}
