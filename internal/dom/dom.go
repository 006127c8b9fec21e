// dom.go - Minimal DOM contract the inline editor runs against.
// Implemented by the browser binding (jsdom) and the in-memory page (htmldom).
package dom

import "time"

// Event types the editor listens for or dispatches.
const (
	EventClick  = "click"
	EventBlur   = "blur"
	EventFocus  = "focus"
	EventChange = "change"
	EventInput  = "input"
	EventCancel = "cancel"
)

// Handler is an event listener. Listener identity is pointer identity: removing a
// listener requires the same *Handler that was registered, never a copy.
type Handler struct {
	fn func(Event)
}

// NewHandler wraps fn as a listener.
func NewHandler(fn func(Event)) *Handler {
	return &Handler{fn: fn}
}

// Handle invokes the listener. A nil handler is a no-op.
func (h *Handler) Handle(ev Event) {
	if h == nil || h.fn == nil {
		return
	}
	h.fn(ev)
}

// EventTarget is anything listeners can be attached to.
// Adding an already registered (type, handler, capture) triple is a no-op, and so is
// removing one that was never registered.
type EventTarget interface {
	AddEventListener(typ string, h *Handler, capture bool)
	RemoveEventListener(typ string, h *Handler, capture bool)
}

// Event is a dispatched DOM event.
type Event interface {
	Type() string
	Target() Element
	StopPropagation()
	PreventDefault()
	DefaultPrevented() bool
}

// Element is the subset of HTMLElement the editor touches.
type Element interface {
	EventTarget

	// TagName follows the DOM convention (upper case for HTML elements).
	TagName() string

	Attribute(name string) string
	SetAttribute(name, value string)

	// Style reads an inline style property by its CSS name ("min-width").
	Style(prop string) string
	// SetStyle writes an inline style property. An empty value removes it.
	SetStyle(prop, value string)

	// IsContentEditable reports the effective editable state, including inheritance.
	IsContentEditable() bool
	SetContentEditable(editable bool)

	OffsetWidth() int
	InnerText() string

	Focus()
	Click()

	// IsSameNode reports whether other wraps the same DOM node. Backends may hand
	// out more than one wrapper per node, so wrappers are not compared with ==.
	IsSameNode(other Element) bool

	AppendChild(child Element)
	// Remove detaches the element from its parent. Detached elements are left alone.
	Remove()
	IsConnected() bool

	// Files lists the files selected in a file input; empty for anything else.
	Files() []File
}

// Document is the hosting document.
type Document interface {
	EventTarget

	CreateElement(tag string) Element
	// Body returns nil while the document has no body.
	Body() Element
}

// File is a user-selected file.
type File interface {
	Name() string
	Type() string
	Size() int64
}

// Host is the execution context: the document plus the platform primitives the
// editor needs beyond the DOM tree.
type Host interface {
	Document() Document
	// SetTimeout runs fn once after d on the host's event loop.
	SetTimeout(d time.Duration, fn func())
	// ReadAsDataURL reads f asynchronously and calls done on the event loop with the
	// file's contents encoded as a data URL.
	ReadAsDataURL(f File, done func(dataURL string, err error))
}
