// main.go - Entry point for the editor-replay CLI binary.
// Replays scripted user steps against an HTML file with the inline editor
// attached, and reports what the editor did at each step.
//
// Usage: editor-replay run <script.yaml> [--flags]
//
// Formats: --format human (default), --format json, --format csv
//
// Exit codes:
//
//	0 = every step succeeded
//	1 = a step failed, or the page/script could not be read
//	2 = usage error (missing args, invalid flags, bad configuration)
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dev-console/inline-editor/cmd/editor-replay/config"
	"github.com/dev-console/inline-editor/cmd/editor-replay/output"
	"github.com/dev-console/inline-editor/cmd/editor-replay/script"
)

// version is set at build time via -ldflags.
var version = "dev"

const (
	rootUse   = "editor-replay"
	rootShort = "Replay inline editor sessions against static HTML"
	rootLong  = `editor-replay loads an HTML page, attaches the inline editor, and performs
the steps of a YAML script: toggling editor mode, clicking elements, typing,
blurring, and answering file choosers. Each step is reported with the editor's
diagnostic trace. Edits are never written back to disk.`
	runUse     = "run <script.yaml>"
	runShort   = "Replay a script"
	runExample = `  # Replay with the page named in the script
  editor-replay run session.yaml

  # Override the page and emit JSON, one object per step
  editor-replay run session.yaml --page landing.html --format json

  # Stop at the first failed step
  editor-replay run session.yaml --strict`
)

// usageError marks failures caused by how the command was invoked.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// stepsFailed reports a replay that ran but had failing steps.
type stepsFailed struct{ n int }

func (e stepsFailed) Error() string { return fmt.Sprintf("%d step(s) failed", e.n) }

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the main entry point, separated for testability.
// Returns the exit code.
func run(args []string) int {
	return runWith(args, os.Stdout, os.Stderr)
}

func runWith(args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var failed stepsFailed
	if errors.As(err, &failed) {
		return 1
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	var usage usageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           rootUse,
		Short:         rootShort,
		Long:          rootLong,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageError{fmt.Errorf("unknown command %q", args[0])}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return usageError{errors.New("missing command")}
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	root.AddCommand(newRunCommand(), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "editor-replay %s\n", version)
		},
	}
}

// runFlags are the raw flag values of the run command.
type runFlags struct {
	page        string
	format      string
	detachDelay time.Duration
	noStabilize bool
	strict      bool
	noRedact    bool
	rules       string
	verbose     bool
}

func newRunCommand() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:     runUse,
		Short:   runShort,
		Example: runExample,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return replay(cmd, args[0], f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.page, "page", "", "HTML file to load (overrides the script's page)")
	fl.StringVar(&f.format, "format", "", "output format: human, json or csv")
	fl.DurationVar(&f.detachDelay, "detach-delay", 0, "how long the hidden file input stays attached")
	fl.BoolVar(&f.noStabilize, "no-stabilize", false, "edit text without pinning layout first")
	fl.BoolVar(&f.strict, "strict", false, "stop at the first failed step")
	fl.BoolVar(&f.noRedact, "no-redact", false, "show edited text without scrubbing secrets")
	fl.StringVar(&f.rules, "redaction-rules", "", "YAML file with extra redaction patterns")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log the editor trace to stderr")
	return cmd
}

// overrides turns explicitly set flags into config overrides.
func overrides(cmd *cobra.Command, f runFlags) *config.FlagOverrides {
	var o config.FlagOverrides
	fl := cmd.Flags()
	if fl.Changed("format") {
		o.Format = &f.format
	}
	if fl.Changed("detach-delay") {
		o.DetachDelay = &f.detachDelay
	}
	if fl.Changed("no-stabilize") {
		stabilize := !f.noStabilize
		o.StabilizeLayout = &stabilize
	}
	if fl.Changed("strict") {
		o.Strict = &f.strict
	}
	if fl.Changed("no-redact") {
		redact := !f.noRedact
		o.Redact = &redact
	}
	if fl.Changed("redaction-rules") {
		o.RedactionRules = &f.rules
	}
	return &o
}

func replay(cmd *cobra.Command, scriptPath string, f runFlags) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("cannot determine working directory: %w", err)
	}
	cfg, err := config.Load(cwd, overrides(cmd, f))
	if err != nil {
		return usageError{fmt.Errorf("configuration: %w", err)}
	}

	s, err := script.Load(scriptPath)
	if err != nil {
		return err
	}
	pagePath := f.page
	if pagePath == "" {
		if s.Page == "" {
			return usageError{errors.New("script names no page; pass --page")}
		}
		pagePath = s.Resolve(s.Page)
	}
	page, err := script.LoadPage(pagePath)
	if err != nil {
		return err
	}

	red, err := cfg.Redactor()
	if err != nil {
		return usageError{err}
	}

	opts := cfg.EditorOptions()
	if f.verbose {
		opts.Logger = newLogger(cmd.ErrOrStderr())
		defer func() { _ = opts.Logger.Sync() }()
	}

	stdout := cmd.OutOrStdout()
	formatter := output.GetFormatter(cfg.Format)
	multi, batch := formatter.(output.MultiFormatter)

	var (
		results   []*output.Result
		formatErr error
	)
	emit := func(res *output.Result) {
		if batch {
			results = append(results, res)
			return
		}
		if err := formatter.Format(stdout, res); err != nil && formatErr == nil {
			formatErr = err
		}
	}

	failed, err := script.NewRunner(s, page, opts, red).Run(cmd.Context(), cfg.Strict, emit)
	if err != nil {
		return err
	}
	if batch {
		formatErr = multi.FormatMultiple(stdout, results)
	}
	if formatErr != nil {
		return fmt.Errorf("format output: %w", formatErr)
	}
	if failed > 0 {
		return stepsFailed{failed}
	}
	return nil
}

// newLogger writes the editor's trace as console lines.
func newLogger(w io.Writer) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core)
}
