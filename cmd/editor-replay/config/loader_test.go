// loader_test.go - Tests for configuration loading cascade.
// Tests priority: defaults < global < .inline-editor.yaml < env vars < flags.
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{"INLINE_EDITOR_FORMAT", "INLINE_EDITOR_DETACH_DELAY", "INLINE_EDITOR_NO_STABILIZE", "INLINE_EDITOR_STRICT", "INLINE_EDITOR_NO_REDACT", "INLINE_EDITOR_REDACTION_RULES"} {
		t.Setenv(k, "")
	}
	return home
}

func TestDefaults(t *testing.T) {
	t.Parallel()
	cfg := Defaults()

	if cfg.Format != "human" {
		t.Errorf("expected default format 'human', got %q", cfg.Format)
	}
	if !cfg.StabilizeLayout {
		t.Error("expected layout stabilization on by default")
	}
	if cfg.DetachDelay != time.Second {
		t.Errorf("expected default detach delay 1s, got %s", cfg.DetachDelay)
	}
	if cfg.Strict {
		t.Error("expected strict to be false by default")
	}
	if !cfg.Redact || cfg.RedactionRules != "" {
		t.Error("expected built-in redaction on by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestEditorOptions(t *testing.T) {
	t.Parallel()
	cfg := Config{Format: "json", StabilizeLayout: false, DetachDelay: 2 * time.Second}

	opts := cfg.EditorOptions()
	if !opts.DisableLayoutStabilization {
		t.Error("expected stabilization disabled")
	}
	if opts.DetachDelay != 2*time.Second {
		t.Errorf("expected detach delay 2s, got %s", opts.DetachDelay)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, ".inline-editor.yaml")
	writeFile(t, path, "format: json\nstabilize_layout: false\ndetach_delay: 1500ms\nstrict: true\n")

	cfg := Defaults()
	if err := loadYAMLFile(&cfg, path); err != nil {
		t.Fatalf("loadYAMLFile failed: %v", err)
	}

	if cfg.Format != "json" {
		t.Errorf("expected format 'json', got %q", cfg.Format)
	}
	if cfg.StabilizeLayout {
		t.Error("expected stabilize_layout false")
	}
	if cfg.DetachDelay != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %s", cfg.DetachDelay)
	}
	if !cfg.Strict {
		t.Error("expected strict true")
	}
}

func TestLoadYAMLFilePartial(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, ".inline-editor.yaml")
	writeFile(t, path, "format: csv\n")

	cfg := Defaults()
	if err := loadYAMLFile(&cfg, path); err != nil {
		t.Fatalf("loadYAMLFile failed: %v", err)
	}
	if cfg.Format != "csv" {
		t.Errorf("expected format 'csv', got %q", cfg.Format)
	}
	if !cfg.StabilizeLayout || cfg.DetachDelay != time.Second {
		t.Errorf("unset fields should keep defaults, got %+v", cfg)
	}
}

func TestLoadYAMLFileMissing(t *testing.T) {
	t.Parallel()
	cfg := Defaults()
	if err := loadYAMLFile(&cfg, filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Fatalf("missing config should not error, got: %v", err)
	}
	if cfg != Defaults() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadYAMLFileInvalid(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "format: [unclosed\n")
	cfg := Defaults()
	if err := loadYAMLFile(&cfg, bad); err == nil {
		t.Fatal("expected error for invalid YAML")
	}

	badDelay := filepath.Join(dir, "delay.yaml")
	writeFile(t, badDelay, "detach_delay: soon\n")
	if err := loadYAMLFile(&cfg, badDelay); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoadEnvVars(t *testing.T) {
	// Cannot be parallel due to env manipulation
	t.Setenv("INLINE_EDITOR_FORMAT", "csv")
	t.Setenv("INLINE_EDITOR_DETACH_DELAY", "250ms")
	t.Setenv("INLINE_EDITOR_NO_STABILIZE", "1")
	t.Setenv("INLINE_EDITOR_STRICT", "1")
	t.Setenv("INLINE_EDITOR_NO_REDACT", "1")
	t.Setenv("INLINE_EDITOR_REDACTION_RULES", "/etc/rules.yaml")

	cfg := Defaults()
	if err := loadEnvVars(&cfg); err != nil {
		t.Fatalf("loadEnvVars failed: %v", err)
	}

	if cfg.Format != "csv" {
		t.Errorf("expected format 'csv', got %q", cfg.Format)
	}
	if cfg.DetachDelay != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", cfg.DetachDelay)
	}
	if cfg.StabilizeLayout {
		t.Error("expected stabilization off")
	}
	if !cfg.Strict {
		t.Error("expected strict on")
	}
	if cfg.Redact || cfg.RedactionRules != "/etc/rules.yaml" {
		t.Errorf("unexpected redaction settings: %+v", cfg)
	}
}

func TestLoadEnvVarsInvalidDelay(t *testing.T) {
	t.Setenv("INLINE_EDITOR_DETACH_DELAY", "later")

	cfg := Defaults()
	if err := loadEnvVars(&cfg); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestConfigPriorityOrder(t *testing.T) {
	// Cannot be parallel due to env manipulation
	home := isolateHome(t)
	dir := t.TempDir()

	writeFile(t, filepath.Join(home, ".inline-editor", "config.yaml"), "format: json\ndetach_delay: 5s\nstrict: true\n")
	writeFile(t, filepath.Join(dir, ".inline-editor.yaml"), "format: csv\ndetach_delay: 3s\n")
	t.Setenv("INLINE_EDITOR_DETACH_DELAY", "2s")

	human := "human"
	cfg, err := Load(dir, &FlagOverrides{Format: &human})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Format != "human" {
		t.Errorf("flag should win for format, got %q", cfg.Format)
	}
	if cfg.DetachDelay != 2*time.Second {
		t.Errorf("env should win for detach delay, got %s", cfg.DetachDelay)
	}
	if !cfg.Strict {
		t.Error("global config strict should survive")
	}
}

func TestLoadValidationError(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".inline-editor.yaml"), "format: xml\n")

	if _, err := Load(dir, nil); err == nil {
		t.Fatal("expected validation error for unknown format")
	}

	zero := time.Duration(0)
	writeFile(t, filepath.Join(dir, ".inline-editor.yaml"), "format: json\n")
	if _, err := Load(dir, &FlagOverrides{DetachDelay: &zero}); err == nil {
		t.Fatal("expected validation error for zero detach delay")
	}
}

func TestLoadYAMLFileRedactionRulesRelative(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, ".inline-editor.yaml")
	writeFile(t, path, "redact: true\nredaction_rules: rules/secrets.yaml\n")

	cfg := Defaults()
	if err := loadYAMLFile(&cfg, path); err != nil {
		t.Fatalf("loadYAMLFile failed: %v", err)
	}
	if want := filepath.Join(dir, "rules", "secrets.yaml"); cfg.RedactionRules != want {
		t.Errorf("expected %q, got %q", want, cfg.RedactionRules)
	}
}

func TestRedactor(t *testing.T) {
	t.Parallel()

	off := Defaults()
	off.Redact = false
	engine, err := off.Redactor()
	if err != nil || engine != nil {
		t.Fatalf("expected no engine when redaction is off, got %v, %v", engine, err)
	}

	engine, err = Defaults().Redactor()
	if err != nil || engine == nil {
		t.Fatalf("expected built-in engine, got %v, %v", engine, err)
	}
	if got := engine.Redact("Bearer abc"); got != "[REDACTED:bearer-token]" {
		t.Errorf("unexpected redaction: %q", got)
	}

	missing := Defaults()
	missing.RedactionRules = filepath.Join(t.TempDir(), "absent.yaml")
	if _, err := missing.Redactor(); err == nil {
		t.Error("expected error for missing rules file")
	}
}
