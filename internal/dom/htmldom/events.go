// events.go - Listener registry and capture/target/bubble dispatch.
package htmldom

import (
	"golang.org/x/net/html"

	"github.com/dev-console/inline-editor/internal/dom"
)

type listener struct {
	typ     string
	h       *dom.Handler
	capture bool
}

// listeners keeps registration order; duplicates are ignored as in the DOM.
type listeners []listener

func (ls *listeners) add(typ string, h *dom.Handler, capture bool) {
	if h == nil || ls.has(typ, h, capture) {
		return
	}
	*ls = append(*ls, listener{typ: typ, h: h, capture: capture})
}

func (ls *listeners) remove(typ string, h *dom.Handler, capture bool) {
	for i, l := range *ls {
		if l.typ == typ && l.h == h && l.capture == capture {
			*ls = append((*ls)[:i:i], (*ls)[i+1:]...)
			return
		}
	}
}

func (ls listeners) has(typ string, h *dom.Handler, capture bool) bool {
	for _, l := range ls {
		if l.typ == typ && l.h == h && l.capture == capture {
			return true
		}
	}
	return false
}

func (ls listeners) count(typ string) int {
	n := 0
	for _, l := range ls {
		if l.typ == typ {
			n++
		}
	}
	return n
}

// Event is a dispatched event.
type Event struct {
	typ              string
	target           *Element
	bubbles          bool
	stopped          bool
	defaultPrevented bool
}

var _ dom.Event = (*Event)(nil)

func newEvent(typ string, target *Element, bubbles bool) *Event {
	return &Event{typ: typ, target: target, bubbles: bubbles}
}

func (e *Event) Type() string           { return e.typ }
func (e *Event) StopPropagation()       { e.stopped = true }
func (e *Event) PreventDefault()        { e.defaultPrevented = true }
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Target returns the element the event was dispatched to.
func (e *Event) Target() dom.Element {
	if e.target == nil {
		return nil
	}
	return e.target
}

// phase invokes the listeners of one target registered for the given phase.
// The list is snapshotted first; a listener removed mid-dispatch is skipped.
func (e *Event) phase(ls *listeners, capture bool) {
	snapshot := append(listeners(nil), *ls...)
	for _, l := range snapshot {
		if l.typ != e.typ || l.capture != capture {
			continue
		}
		if !ls.has(l.typ, l.h, l.capture) {
			continue
		}
		l.h.Handle(e)
	}
}

// dispatch runs the event through document and ancestor capture listeners,
// the target's own listeners, then ancestor and document bubble listeners.
// Propagation stops after the current target once StopPropagation is called;
// the target's own listeners all run.
func (p *Page) dispatch(e *Event) {
	var path []*Element
	connected := false
	for n := e.target.node.Parent; n != nil; n = n.Parent {
		if n.Type == html.ElementNode {
			path = append(path, p.wrap(n))
		}
		if n == p.root {
			connected = true
		}
	}

	// capture: document, then outermost ancestor inwards
	if connected {
		e.phase(&p.docL, true)
		if e.stopped {
			return
		}
	}
	for i := len(path) - 1; i >= 0; i-- {
		e.phase(&path[i].ls, true)
		if e.stopped {
			return
		}
	}

	e.phase(&e.target.ls, true)
	e.phase(&e.target.ls, false)
	if e.stopped || !e.bubbles {
		return
	}

	for _, el := range path {
		e.phase(&el.ls, false)
		if e.stopped {
			return
		}
	}
	if connected {
		e.phase(&p.docL, false)
	}
}
