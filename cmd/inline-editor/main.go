//go:build js && wasm

// main.go - WASM entry point injected into the target page.
// Build: GOOS=js GOARCH=wasm go build -o inline-editor.wasm ./cmd/inline-editor
//
// Exports on globalThis:
//
//	toggleEditor(shouldActivate) -> bool   drive the editor to the given state,
//	                                       returns the resulting state
//
// Optional globalThis.inlineEditorOptions, read once at startup:
//
//	{stabilizeLayout: bool, detachDelayMs: number, accept: string, redact: bool}
//
// If globalThis.inlineEditorReady is a function it is called once the export
// is installed.
package main

import (
	"os"
	"syscall/js"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dev-console/inline-editor/internal/dom"
	"github.com/dev-console/inline-editor/internal/dom/jsdom"
	"github.com/dev-console/inline-editor/internal/editor"
	"github.com/dev-console/inline-editor/internal/redaction"
)

func main() {
	raw := js.Global().Get("inlineEditorOptions")
	log := newConsoleLogger(redactTrace(raw))
	defer log.Sync() //nolint:errcheck // console sink

	host := jsdom.NewHost()
	opts := readOptions(raw)
	opts.Logger = log
	ctl := editor.New(host, opts)

	toggle := js.FuncOf(func(_ js.Value, args []js.Value) any {
		want := len(args) > 0 && args[0].Truthy()
		return ctl.Set(want)
	})
	js.Global().Set("toggleEditor", toggle)

	// document teardown ends interception
	host.Window().AddEventListener("pagehide", dom.NewHandler(func(dom.Event) {
		ctl.Deactivate()
	}), false)

	if ready := js.Global().Get("inlineEditorReady"); ready.Type() == js.TypeFunction {
		ready.Invoke()
	}

	select {}
}

// newConsoleLogger writes console-encoded entries to stdout, which the Go WASM
// runtime forwards to the browser console.
func newConsoleLogger(red *redaction.Engine) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stdout), zap.InfoLevel)
	return zap.New(redaction.Core(core, red))
}

// redactTrace returns the built-in engine unless the page opted out with
// redact: false.
func redactTrace(v js.Value) *redaction.Engine {
	if v.Type() == js.TypeObject {
		if r := v.Get("redact"); r.Type() == js.TypeBoolean && !r.Bool() {
			return nil
		}
	}
	return redaction.Builtin()
}

func readOptions(v js.Value) editor.Options {
	var opts editor.Options
	if v.Type() != js.TypeObject {
		return opts
	}
	if s := v.Get("stabilizeLayout"); s.Type() == js.TypeBoolean {
		opts.DisableLayoutStabilization = !s.Bool()
	}
	if d := v.Get("detachDelayMs"); d.Type() == js.TypeNumber && d.Int() > 0 {
		opts.DetachDelay = time.Duration(d.Int()) * time.Millisecond
	}
	if a := v.Get("accept"); a.Type() == js.TypeString {
		opts.Accept = a.String()
	}
	return opts
}
