// script.go - Replay script format and loading.
// A script names a page and a list of user steps to perform against it.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Step actions.
const (
	ActionActivate   = "activate"
	ActionDeactivate = "deactivate"
	ActionToggle     = "toggle"
	ActionClick      = "click"
	ActionType       = "type"
	ActionBlur       = "blur"
	ActionChooseFile = "choose_file"
	ActionCancelFile = "cancel_file"
	ActionWait       = "wait"
)

// Script is a parsed replay script.
type Script struct {
	Page  string `yaml:"page"`
	Steps []Step `yaml:"steps"`

	// Dir is the directory relative paths resolve against.
	Dir string `yaml:"-"`
}

// Step is one user action.
type Step struct {
	Action   string `yaml:"action"`
	Target   string `yaml:"target,omitempty"`
	Text     string `yaml:"text,omitempty"`
	Replace  bool   `yaml:"replace,omitempty"`
	File     string `yaml:"file,omitempty"`
	Duration string `yaml:"duration,omitempty"`
}

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	// #nosec G304 -- path is the script the operator asked to replay
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Dir = filepath.Dir(path)
	return s, nil
}

// Parse decodes and validates a script. Unknown keys are rejected.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks every step carries the fields its action needs.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return errors.New("script has no steps")
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st Step) validate() error {
	switch st.Action {
	case ActionActivate, ActionDeactivate, ActionToggle, ActionBlur, ActionCancelFile:
		return nil
	case ActionClick:
		if st.Target == "" {
			return errors.New("click requires target")
		}
	case ActionType:
		if st.Text == "" && !st.Replace {
			return errors.New("type requires text")
		}
	case ActionChooseFile:
		if st.File == "" {
			return errors.New("choose_file requires file")
		}
	case ActionWait:
		d, err := time.ParseDuration(st.Duration)
		if err != nil {
			return fmt.Errorf("wait: invalid duration %q: %w", st.Duration, err)
		}
		if d < 0 {
			return fmt.Errorf("wait: negative duration %s", d)
		}
	case "":
		return errors.New("missing action")
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// Resolve joins a relative path onto the script's directory.
func (s *Script) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || s.Dir == "" {
		return p
	}
	return filepath.Join(s.Dir, p)
}
