// redaction.go - Scrubs secrets from edited text before it reaches a trace.
// Edited text is logged verbatim by the editor; anything that looks like a
// credential is replaced with a [REDACTED:<rule>] marker first.
// Uses RE2 regex (Go's regexp package) for guaranteed linear-time matching.
package redaction

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Pattern is a single user-defined rule.
type Pattern struct {
	Name        string `yaml:"name"`
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement,omitempty"`
}

// File is the YAML rules file structure.
type File struct {
	Patterns []Pattern `yaml:"patterns"`
}

type rule struct {
	name        string
	regex       *regexp.Regexp
	replacement string
	validate    func(match string) bool // optional post-match check (Luhn)
}

// Engine applies compiled rules to text. Safe for concurrent use.
type Engine struct {
	rules []rule
}

var builtins = []struct {
	name     string
	pattern  string
	validate func(string) bool
}{
	{name: "aws-key", pattern: `AKIA[0-9A-Z]{16}`},
	{name: "bearer-token", pattern: `Bearer [A-Za-z0-9\-._~+/]+=*`},
	{name: "jwt", pattern: `eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+`},
	{name: "github-pat", pattern: `(ghp_[A-Za-z0-9]{36,}|github_pat_[A-Za-z0-9_]{36,})`},
	{name: "credit-card", pattern: `\b([0-9]{4}[- ]?[0-9]{4}[- ]?[0-9]{4}[- ]?[0-9]{4})\b`, validate: luhnValid},
	{name: "ssn", pattern: `\b[0-9]{3}-[0-9]{2}-[0-9]{4}\b`},
	{name: "api-key", pattern: `(?i)(api[_-]?key|apikey|secret[_-]?key)\s*[:=]\s*\S+`},
}

// New returns an engine with the built-in rules plus any rules in the YAML
// file at path. An empty path means built-ins only.
func New(path string) (*Engine, error) {
	e := &Engine{}
	for _, b := range builtins {
		e.rules = append(e.rules, rule{
			name:        b.name,
			regex:       regexp.MustCompile(b.pattern),
			replacement: marker(b.name),
			validate:    b.validate,
		})
	}
	if path == "" {
		return e, nil
	}

	// #nosec G304 -- path comes from the operator's configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("redaction rules: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("redaction rules %s: %w", path, err)
	}
	for _, p := range f.Patterns {
		if err := e.add(p); err != nil {
			return nil, fmt.Errorf("redaction rules %s: %w", path, err)
		}
	}
	return e, nil
}

// Builtin returns an engine with only the built-in rules.
func Builtin() *Engine {
	e, _ := New("")
	return e
}

func (e *Engine) add(p Pattern) error {
	if p.Name == "" {
		return fmt.Errorf("rule %q has no name", p.Pattern)
	}
	re, err := regexp.Compile(p.Pattern)
	if err != nil {
		return fmt.Errorf("rule %s: %w", p.Name, err)
	}
	replacement := p.Replacement
	if replacement == "" {
		replacement = marker(p.Name)
	}
	e.rules = append(e.rules, rule{name: p.Name, regex: re, replacement: replacement})
	return nil
}

// Rules lists rule names in application order.
func (e *Engine) Rules() []string {
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.name
	}
	return names
}

// Redact applies every rule to s.
func (e *Engine) Redact(s string) string {
	if s == "" {
		return ""
	}
	for _, r := range e.rules {
		if r.validate == nil {
			s = r.regex.ReplaceAllString(s, r.replacement)
			continue
		}
		s = r.regex.ReplaceAllStringFunc(s, func(match string) string {
			if r.validate(match) {
				return r.replacement
			}
			return match
		})
	}
	return s
}

func marker(name string) string { return "[REDACTED:" + name + "]" }

// luhnValid checks if a numeric string passes the Luhn algorithm.
func luhnValid(number string) bool {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)

	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	sum := 0
	alt := false
	for i := len(digits) - 1; i >= 0; i-- {
		n := int(digits[i] - '0')
		if alt {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		alt = !alt
	}
	return sum%10 == 0
}
