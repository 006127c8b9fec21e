//go:build js && wasm

// host.go - dom.Host and dom.Document backed by the browser via syscall/js.
package jsdom

import (
	"errors"
	"fmt"
	"syscall/js"
	"time"

	"github.com/dev-console/inline-editor/internal/dom"
)

// Host is the page the WASM module was loaded into.
type Host struct {
	global js.Value
	doc    *Document
}

var _ dom.Host = (*Host)(nil)

// NewHost binds to globalThis. The document is nil outside a window context
// (for example in a worker).
func NewHost() *Host {
	g := js.Global()
	h := &Host{global: g}
	if d := g.Get("document"); truthy(d) {
		h.doc = &Document{v: d}
	}
	return h
}

func (h *Host) Document() dom.Document {
	if h.doc == nil {
		return nil
	}
	return h.doc
}

// SetTimeout schedules fn with window.setTimeout. The callback is released after it
// has run.
func (h *Host) SetTimeout(d time.Duration, fn func()) {
	var cb js.Func
	cb = js.FuncOf(func(js.Value, []js.Value) any {
		defer cb.Release()
		fn()
		return nil
	})
	h.global.Call("setTimeout", cb, d.Milliseconds())
}

// ReadAsDataURL reads f with a FileReader.
func (h *Host) ReadAsDataURL(f dom.File, done func(string, error)) {
	file, ok := f.(*File)
	if !ok {
		done("", fmt.Errorf("read %T: not a browser file", f))
		return
	}
	reader := h.global.Get("FileReader").New()

	var onLoad, onError js.Func
	release := func() {
		onLoad.Release()
		onError.Release()
	}
	onLoad = js.FuncOf(func(js.Value, []js.Value) any {
		defer release()
		done(reader.Get("result").String(), nil)
		return nil
	})
	onError = js.FuncOf(func(js.Value, []js.Value) any {
		defer release()
		msg := "file read failed"
		if e := reader.Get("error"); truthy(e) {
			msg = e.Get("message").String()
		}
		done("", errors.New(msg))
		return nil
	})
	reader.Set("onload", onLoad)
	reader.Set("onerror", onError)
	reader.Call("readAsDataURL", file.v)
}

// Window exposes listener registration on window, e.g. for pagehide.
func (h *Host) Window() dom.EventTarget {
	return &target{v: h.global}
}

// Document wraps the page's document.
type Document struct {
	v js.Value
}

var _ dom.Document = (*Document)(nil)

func (d *Document) CreateElement(tag string) dom.Element {
	return wrapElement(d.v.Call("createElement", tag))
}

func (d *Document) Body() dom.Element {
	b := d.v.Get("body")
	if !truthy(b) {
		return nil
	}
	return wrapElement(b)
}

func (d *Document) AddEventListener(typ string, h *dom.Handler, capture bool) {
	addListener(d.v, typ, h, capture)
}

func (d *Document) RemoveEventListener(typ string, h *dom.Handler, capture bool) {
	removeListener(d.v, typ, h, capture)
}

type target struct {
	v js.Value
}

func (t *target) AddEventListener(typ string, h *dom.Handler, capture bool) {
	addListener(t.v, typ, h, capture)
}

func (t *target) RemoveEventListener(typ string, h *dom.Handler, capture bool) {
	removeListener(t.v, typ, h, capture)
}

func truthy(v js.Value) bool {
	return !v.IsUndefined() && !v.IsNull()
}
