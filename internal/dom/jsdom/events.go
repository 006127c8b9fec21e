//go:build js && wasm

// events.go - Listener registry mapping *dom.Handler to one js.Func each.
// removeEventListener only matches the exact function object that was added, so a
// handler keeps a single js.Func for as long as any registration uses it.
package jsdom

import (
	"syscall/js"

	"github.com/dev-console/inline-editor/internal/dom"
)

type registration struct {
	target  js.Value
	typ     string
	capture bool
}

type binding struct {
	fn   js.Func
	regs []registration
}

// Callbacks arrive on the single JS event loop goroutine; no locking needed.
var bindings = map[*dom.Handler]*binding{}

func addListener(target js.Value, typ string, h *dom.Handler, capture bool) {
	if h == nil {
		return
	}
	b, ok := bindings[h]
	if !ok {
		b = &binding{fn: js.FuncOf(func(_ js.Value, args []js.Value) any {
			if len(args) > 0 {
				h.Handle(&Event{v: args[0]})
			}
			return nil
		})}
		bindings[h] = b
	}
	if b.index(target, typ, capture) >= 0 {
		return
	}
	b.regs = append(b.regs, registration{target: target, typ: typ, capture: capture})
	target.Call("addEventListener", typ, b.fn, capture)
}

func removeListener(target js.Value, typ string, h *dom.Handler, capture bool) {
	b, ok := bindings[h]
	if !ok {
		return
	}
	i := b.index(target, typ, capture)
	if i < 0 {
		return
	}
	target.Call("removeEventListener", typ, b.fn, capture)
	b.regs = append(b.regs[:i], b.regs[i+1:]...)
	if len(b.regs) == 0 {
		b.fn.Release()
		delete(bindings, h)
	}
}

func (b *binding) index(target js.Value, typ string, capture bool) int {
	for i, r := range b.regs {
		if r.typ == typ && r.capture == capture && r.target.Equal(target) {
			return i
		}
	}
	return -1
}

// Event wraps a browser Event.
type Event struct {
	v js.Value
}

var _ dom.Event = (*Event)(nil)

func (e *Event) Type() string           { return e.v.Get("type").String() }
func (e *Event) StopPropagation()       { e.v.Call("stopPropagation") }
func (e *Event) PreventDefault()        { e.v.Call("preventDefault") }
func (e *Event) DefaultPrevented() bool { return e.v.Get("defaultPrevented").Bool() }

// Target returns the element the event was dispatched to. Text node targets
// resolve to their parent element.
func (e *Event) Target() dom.Element {
	t := e.v.Get("target")
	if !truthy(t) {
		return nil
	}
	if t.Get("nodeType").Int() != nodeElement {
		t = t.Get("parentElement")
		if !truthy(t) {
			return nil
		}
	}
	return wrapElement(t)
}
