// router_test.go - Router failure handling with stub events and elements.
package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dev-console/inline-editor/internal/dom"
	"github.com/dev-console/inline-editor/internal/dom/htmldom"
)

type stubEvent struct {
	target    dom.Element
	stopped   bool
	prevented bool
}

func (e *stubEvent) Type() string           { return dom.EventClick }
func (e *stubEvent) Target() dom.Element    { return e.target }
func (e *stubEvent) StopPropagation()       { e.stopped = true }
func (e *stubEvent) PreventDefault()        { e.prevented = true }
func (e *stubEvent) DefaultPrevented() bool { return e.prevented }

// explodingElement panics as soon as the text editor inspects it.
type explodingElement struct {
	dom.Element
}

func (explodingElement) TagName() string                             { return "P" }
func (explodingElement) Attribute(string) string                     { return "" }
func (explodingElement) IsContentEditable() bool                     { panic("element went away") }
func (explodingElement) AddEventListener(string, *dom.Handler, bool) {}

func newTestRouter(t *testing.T) (*router, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	return &router{
		log:    log,
		text:   newTextEditor(log, true),
		images: newImageReplacer(noDocHost{}, log, DefaultAccept, DefaultDetachDelay),
	}, logs
}

func TestRouterRecoversFromPanic(t *testing.T) {
	t.Parallel()
	r, logs := newTestRouter(t)
	ev := &stubEvent{target: explodingElement{}}

	assert.NotPanics(t, func() { r.handle(ev) })
	assert.True(t, ev.stopped)
	assert.True(t, ev.prevented)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRouterLogsDispatchErrors(t *testing.T) {
	t.Parallel()
	r, logs := newTestRouter(t)
	p, err := htmldom.ParseString(`<img id="x" src="a.png">`)
	if err != nil {
		t.Fatal(err)
	}

	r.handle(&stubEvent{target: p.MustQuery("//img")})

	entries := logs.FilterMessage("callback failed").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, ErrNoBody.Error(), entries[0].ContextMap()["error"])
	}
}

func TestRouterNilTarget(t *testing.T) {
	t.Parallel()
	r, logs := newTestRouter(t)
	ev := &stubEvent{}

	r.handle(ev)

	assert.True(t, ev.prevented)
	assert.Equal(t, 1, logs.FilterMessage("callback failed").Len())
}

func TestRouterLetsOwnChooserThrough(t *testing.T) {
	t.Parallel()
	p, err := htmldom.ParseString(`<body><img id="x" src="a.png"></body>`)
	if err != nil {
		t.Fatal(err)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)
	r := &router{
		log:    log,
		text:   newTextEditor(log, true),
		images: newImageReplacer(p, log, DefaultAccept, DefaultDetachDelay),
	}
	if err := r.images.Replace(p.MustQuery("//img")); err != nil {
		t.Fatal(err)
	}

	// a fresh lookup yields the same node through a separate query
	input := p.MustQuery("//input[@type='file']")
	ev := &stubEvent{target: input}
	r.handle(ev)
	assert.False(t, ev.stopped)
	assert.False(t, ev.prevented)
	assert.Equal(t, 0, logs.Len())

	p.Advance(DefaultDetachDelay)
	ev = &stubEvent{target: input}
	r.handle(ev)
	assert.True(t, ev.prevented, "a detached input is no longer exempt")
}

func TestRouterInterceptsElementsCarryingChooserMarker(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)
	p, err := htmldom.ParseString(`<body><input type="file" data-inline-editor="file-chooser"></body>`)
	if err != nil {
		t.Fatal(err)
	}
	ev := &stubEvent{target: p.MustQuery("//input")}

	r.handle(ev)

	assert.True(t, ev.stopped)
	assert.True(t, ev.prevented)
}

func TestPanicDoesNotUnregisterListener(t *testing.T) {
	t.Parallel()
	f := newFixture(t, Options{})
	f.ctl.Activate()

	// a failing click must leave interception in place
	handler := f.ctl.onClick
	handler.Handle(&stubEvent{target: explodingElement{}})

	assert.True(t, f.ctl.Active())
	assert.Equal(t, 1, f.page.ListenerCount(dom.EventClick))
	res := f.page.Click(f.el("link"))
	assert.True(t, res.DefaultPrevented)
	assert.Empty(t, f.page.Navigations())
}
