// runner.go - Replays a script against an in-memory page with the editor attached.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dev-console/inline-editor/cmd/editor-replay/output"
	"github.com/dev-console/inline-editor/internal/dataurl"
	"github.com/dev-console/inline-editor/internal/dom/htmldom"
	"github.com/dev-console/inline-editor/internal/editor"
	"github.com/dev-console/inline-editor/internal/redaction"
)

// srcPreview bounds how much of a data URL is echoed back in step data.
const srcPreview = 48

var (
	ErrNoChooser = errors.New("no pending file chooser")
	ErrRejected  = errors.New("file rejected by accept filter")
)

// Runner owns one page, one editor, and the trace recorder between them.
type Runner struct {
	script *Script
	page   *htmldom.Page
	ctl    *editor.Controller
	logs   *traceLog
	red    *redaction.Engine

	// lastClicked is the element the most recent click step targeted.
	lastClicked *htmldom.Element
}

// LoadPage parses the HTML file at path.
func LoadPage(path string) (*htmldom.Page, error) {
	// #nosec G304 -- path comes from the script or the --page flag
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer f.Close()
	return htmldom.Parse(f)
}

// NewRunner attaches an inactive editor to page. Every entry the editor logs is
// recorded for the step that produced it; opts.Logger, when set, still receives
// everything. A non-nil red scrubs both sinks.
func NewRunner(s *Script, page *htmldom.Page, opts editor.Options, red *redaction.Engine) *Runner {
	trace, logs := newTraceCore(zapcore.DebugLevel)
	var core zapcore.Core = trace
	if opts.Logger != nil {
		core = zapcore.NewTee(opts.Logger.Core(), trace)
	}
	opts.Logger = zap.New(redaction.Core(core, red))

	return &Runner{
		script: s,
		page:   page,
		ctl:    editor.New(page, opts),
		logs:   logs,
		red:    red,
	}
}

// Page is the page being edited.
func (r *Runner) Page() *htmldom.Page { return r.page }

// Controller is the editor under replay.
func (r *Runner) Controller() *editor.Controller { return r.ctl }

// Run replays every step, passing each result to emit as soon as it is known.
// With strict set the replay stops after the first failed step. It returns the
// number of failed steps.
func (r *Runner) Run(ctx context.Context, strict bool, emit func(*output.Result)) (int, error) {
	failed := 0
	for i, st := range r.script.Steps {
		if err := ctx.Err(); err != nil {
			return failed, err
		}
		res := r.Step(i+1, st)
		if emit != nil {
			emit(res)
		}
		if !res.Success {
			failed++
			if strict {
				break
			}
		}
	}
	return failed, nil
}

// Step performs one step, drains the task queue, and reports what happened.
func (r *Runner) Step(n int, st Step) *output.Result {
	res := &output.Result{Step: n, Action: st.Action}

	data, err := r.perform(st)
	r.page.RunTasks()

	if data == nil {
		data = map[string]any{}
	}
	data["active"] = r.ctl.Active()
	if st.Action == ActionChooseFile && err == nil {
		if src := r.lastImageSrc(); src != "" {
			data["src"] = src
		}
	}

	if r.red != nil {
		for k, v := range data {
			if str, ok := v.(string); ok {
				data[k] = r.red.Redact(str)
			}
		}
	}
	res.Data = data
	res.Events = r.drainEvents()
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	return res
}

func (r *Runner) perform(st Step) (map[string]any, error) {
	switch st.Action {
	case ActionActivate:
		r.ctl.Activate()
		return nil, nil

	case ActionDeactivate:
		r.ctl.Deactivate()
		return nil, nil

	case ActionToggle:
		r.ctl.Set(!r.ctl.Active())
		return nil, nil

	case ActionClick:
		el, err := r.page.Query(st.Target)
		if err != nil {
			return map[string]any{"target": st.Target}, err
		}
		r.lastClicked = el
		cr := r.page.Click(el)
		data := map[string]any{
			"target":            st.Target,
			"default_prevented": cr.DefaultPrevented,
		}
		if cr.Navigated != "" {
			data["navigated"] = cr.Navigated
		}
		if cr.OpenedChooser != nil || r.page.PendingChooser() != nil {
			data["opened_chooser"] = true
		}
		if el.IsContentEditable() {
			data["editable"] = true
		}
		return data, nil

	case ActionType:
		if err := r.page.Type(st.Text, st.Replace); err != nil {
			return nil, err
		}
		return map[string]any{"text": r.page.ActiveElement().InnerText()}, nil

	case ActionBlur:
		r.page.Blur()
		return nil, nil

	case ActionChooseFile:
		fc := r.page.PendingChooser()
		if fc == nil {
			return nil, ErrNoChooser
		}
		f, err := htmldom.OpenFile(r.script.Resolve(st.File))
		if err != nil {
			return nil, err
		}
		data := map[string]any{"file": f.Name(), "mime": f.Type()}
		if !fc.Accepts(f) {
			return data, fmt.Errorf("%w: %s (%s) vs %q", ErrRejected, f.Name(), f.Type(), fc.Accept)
		}
		return data, fc.Choose(f)

	case ActionCancelFile:
		fc := r.page.PendingChooser()
		if fc == nil {
			return nil, ErrNoChooser
		}
		return nil, fc.Cancel()

	case ActionWait:
		d, err := time.ParseDuration(st.Duration)
		if err != nil {
			return nil, err
		}
		r.page.Advance(d)
		return map[string]any{"now": r.page.Now().String()}, nil
	}
	return nil, fmt.Errorf("unknown action %q", st.Action)
}

func (r *Runner) lastImageSrc() string {
	if r.lastClicked == nil || !strings.EqualFold(r.lastClicked.TagName(), "img") {
		return ""
	}
	src := r.lastClicked.Attribute("src")
	if !dataurl.HasPrefix(src) || len(src) <= srcPreview {
		return src
	}
	return src[:srcPreview] + "..."
}

func (r *Runner) drainEvents() []output.Event {
	entries := r.logs.take()
	if len(entries) == 0 {
		return nil
	}
	events := make([]output.Event, 0, len(entries))
	for _, e := range entries {
		ev := output.Event{Level: e.Level.String(), Message: e.Message}
		if fields := e.Fields(); len(fields) > 0 {
			ev.Fields = fields
		}
		events = append(events, ev)
	}
	return events
}
