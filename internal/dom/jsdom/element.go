//go:build js && wasm

// element.go - dom.Element and dom.File over browser objects.
package jsdom

import (
	"strconv"
	"syscall/js"

	"github.com/dev-console/inline-editor/internal/dom"
)

const nodeElement = 1

// Element wraps an HTMLElement.
type Element struct {
	v js.Value
}

var _ dom.Element = (*Element)(nil)

func wrapElement(v js.Value) *Element { return &Element{v: v} }

func (e *Element) TagName() string { return e.v.Get("tagName").String() }

func (e *Element) AddEventListener(typ string, h *dom.Handler, capture bool) {
	addListener(e.v, typ, h, capture)
}

func (e *Element) RemoveEventListener(typ string, h *dom.Handler, capture bool) {
	removeListener(e.v, typ, h, capture)
}

func (e *Element) Attribute(name string) string {
	v := e.v.Call("getAttribute", name)
	if !truthy(v) {
		return ""
	}
	return v.String()
}

func (e *Element) SetAttribute(name, value string) {
	e.v.Call("setAttribute", name, value)
}

func (e *Element) Style(prop string) string {
	return e.v.Get("style").Call("getPropertyValue", prop).String()
}

func (e *Element) SetStyle(prop, value string) {
	st := e.v.Get("style")
	if value == "" {
		st.Call("removeProperty", prop)
		return
	}
	st.Call("setProperty", prop, value)
}

func (e *Element) IsContentEditable() bool {
	return e.v.Get("isContentEditable").Bool()
}

func (e *Element) SetContentEditable(editable bool) {
	e.v.Set("contentEditable", strconv.FormatBool(editable))
}

func (e *Element) OffsetWidth() int {
	w := e.v.Get("offsetWidth")
	if w.Type() != js.TypeNumber {
		return 0
	}
	return w.Int()
}

func (e *Element) InnerText() string {
	t := e.v.Get("innerText")
	if t.Type() != js.TypeString {
		return e.v.Get("textContent").String()
	}
	return t.String()
}

func (e *Element) Focus() { e.v.Call("focus") }
func (e *Element) Click() { e.v.Call("click") }

// IsSameNode compares the JS objects; event targets get a fresh wrapper each time.
func (e *Element) IsSameNode(other dom.Element) bool {
	o, ok := other.(*Element)
	return ok && o != nil && e.v.Equal(o.v)
}

func (e *Element) AppendChild(child dom.Element) {
	c, ok := child.(*Element)
	if !ok || c == nil {
		return
	}
	e.v.Call("appendChild", c.v)
}

// Remove uses Element.remove(), which ignores detached elements.
func (e *Element) Remove() { e.v.Call("remove") }

func (e *Element) IsConnected() bool { return e.v.Get("isConnected").Bool() }

func (e *Element) Files() []dom.File {
	list := e.v.Get("files")
	if !truthy(list) {
		return nil
	}
	n := list.Get("length").Int()
	files := make([]dom.File, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, &File{v: list.Call("item", i)})
	}
	return files
}

// File wraps a browser File.
type File struct {
	v js.Value
}

var _ dom.File = (*File)(nil)

func (f *File) Name() string { return f.v.Get("name").String() }
func (f *File) Type() string { return f.v.Get("type").String() }
func (f *File) Size() int64  { return int64(f.v.Get("size").Float()) }
