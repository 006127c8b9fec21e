// loader.go - Configuration loading with priority cascade.
// Priority: defaults < global config < project config < env vars < flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dev-console/inline-editor/internal/editor"
	"github.com/dev-console/inline-editor/internal/redaction"
)

// Config holds all resolved configuration values.
type Config struct {
	Format          string        `yaml:"format"`
	StabilizeLayout bool          `yaml:"stabilize_layout"`
	DetachDelay     time.Duration `yaml:"detach_delay"`
	Strict          bool          `yaml:"strict"`
	Redact          bool          `yaml:"redact"`
	RedactionRules  string        `yaml:"redaction_rules"`
}

// FlagOverrides holds values explicitly set via command-line flags.
// Nil pointer means the flag was not set (so lower-priority values are kept).
type FlagOverrides struct {
	Format          *string
	StabilizeLayout *bool
	DetachDelay     *time.Duration
	Strict          *bool
	Redact          *bool
	RedactionRules  *string
}

// Defaults returns the base configuration.
func Defaults() Config {
	return Config{
		Format:          "human",
		StabilizeLayout: true,
		DetachDelay:     editor.DefaultDetachDelay,
		Strict:          false,
		Redact:          true,
	}
}

// EditorOptions maps the configuration onto the editor's options.
func (c Config) EditorOptions() editor.Options {
	return editor.Options{
		DisableLayoutStabilization: !c.StabilizeLayout,
		DetachDelay:                c.DetachDelay,
	}
}

// Redactor builds the trace redaction engine, or returns nil when redaction is
// off.
func (c Config) Redactor() (*redaction.Engine, error) {
	if !c.Redact {
		return nil, nil
	}
	return redaction.New(c.RedactionRules)
}

// Load builds the final configuration by applying the priority cascade:
// defaults < global (~/.inline-editor/config.yaml) < project (.inline-editor.yaml) < env vars < flags.
func Load(projectDir string, flags *FlagOverrides) (Config, error) {
	cfg := Defaults()

	home, err := os.UserHomeDir()
	if err == nil {
		if err := loadYAMLFile(&cfg, filepath.Join(home, ".inline-editor", "config.yaml")); err != nil {
			return cfg, fmt.Errorf("global config: %w", err)
		}
	}

	if err := loadYAMLFile(&cfg, filepath.Join(projectDir, ".inline-editor.yaml")); err != nil {
		return cfg, fmt.Errorf("project config: %w", err)
	}

	if err := loadEnvVars(&cfg); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	if flags != nil {
		applyFlags(&cfg, flags)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// fileConfig uses pointers to distinguish "not set" from zero values.
type fileConfig struct {
	Format          *string `yaml:"format"`
	StabilizeLayout *bool   `yaml:"stabilize_layout"`
	DetachDelay     *string `yaml:"detach_delay"`
	Strict          *bool   `yaml:"strict"`
	Redact          *bool   `yaml:"redact"`
	RedactionRules  *string `yaml:"redaction_rules"`
}

// loadYAMLFile reads a YAML config file and merges the fields it sets into cfg.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // Missing config file is fine
		}
		return err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	if fc.Format != nil {
		cfg.Format = *fc.Format
	}
	if fc.StabilizeLayout != nil {
		cfg.StabilizeLayout = *fc.StabilizeLayout
	}
	if fc.DetachDelay != nil {
		d, err := time.ParseDuration(*fc.DetachDelay)
		if err != nil {
			return fmt.Errorf("parse %s: detach_delay: %w", path, err)
		}
		cfg.DetachDelay = d
	}
	if fc.Strict != nil {
		cfg.Strict = *fc.Strict
	}
	if fc.Redact != nil {
		cfg.Redact = *fc.Redact
	}
	if fc.RedactionRules != nil {
		// relative to the file that names it
		rules := *fc.RedactionRules
		if rules != "" && !filepath.IsAbs(rules) {
			rules = filepath.Join(filepath.Dir(path), rules)
		}
		cfg.RedactionRules = rules
	}
	return nil
}

// loadEnvVars applies environment variable overrides.
func loadEnvVars(cfg *Config) error {
	if v := os.Getenv("INLINE_EDITOR_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("INLINE_EDITOR_DETACH_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("INLINE_EDITOR_DETACH_DELAY: %w", err)
		}
		cfg.DetachDelay = d
	}
	if os.Getenv("INLINE_EDITOR_NO_STABILIZE") == "1" {
		cfg.StabilizeLayout = false
	}
	if os.Getenv("INLINE_EDITOR_STRICT") == "1" {
		cfg.Strict = true
	}
	if os.Getenv("INLINE_EDITOR_NO_REDACT") == "1" {
		cfg.Redact = false
	}
	if v := os.Getenv("INLINE_EDITOR_REDACTION_RULES"); v != "" {
		cfg.RedactionRules = v
	}
	return nil
}

// applyFlags applies command-line flag overrides (highest priority).
func applyFlags(cfg *Config, flags *FlagOverrides) {
	if flags.Format != nil {
		cfg.Format = *flags.Format
	}
	if flags.StabilizeLayout != nil {
		cfg.StabilizeLayout = *flags.StabilizeLayout
	}
	if flags.DetachDelay != nil {
		cfg.DetachDelay = *flags.DetachDelay
	}
	if flags.Strict != nil {
		cfg.Strict = *flags.Strict
	}
	if flags.Redact != nil {
		cfg.Redact = *flags.Redact
	}
	if flags.RedactionRules != nil {
		cfg.RedactionRules = *flags.RedactionRules
	}
}

// Validate checks that configuration values are within acceptable ranges.
func (c Config) Validate() error {
	validFormats := map[string]bool{"human": true, "json": true, "csv": true}
	if !validFormats[c.Format] {
		return fmt.Errorf("format must be human, json, or csv, got %q", c.Format)
	}
	if c.DetachDelay <= 0 {
		return fmt.Errorf("detach_delay must be positive, got %s", c.DetachDelay)
	}
	return nil
}
