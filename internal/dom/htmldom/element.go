// element.go - dom.Element over an *html.Node.
package htmldom

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dev-console/inline-editor/internal/dom"
)

// Element wraps one element node. Each node has exactly one wrapper per page, so
// wrappers compare equal by pointer.
type Element struct {
	page  *Page
	node  *html.Node
	ls    listeners
	files []dom.File
}

var _ dom.Element = (*Element)(nil)

func (e *Element) TagName() string { return strings.ToUpper(e.node.Data) }

func (e *Element) AddEventListener(typ string, h *dom.Handler, capture bool) {
	e.ls.add(typ, h, capture)
}

func (e *Element) RemoveEventListener(typ string, h *dom.Handler, capture bool) {
	e.ls.remove(typ, h, capture)
}

// ListenerCount reports how many listeners of typ the element carries.
func (e *Element) ListenerCount(typ string) int { return e.ls.count(typ) }

// ============================================
// Attributes and style
// ============================================

func (e *Element) Attribute(name string) string {
	v, _ := attr(e.node, name)
	return v
}

// HasAttribute reports whether name is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := attr(e.node, name)
	return ok
}

func (e *Element) SetAttribute(name, value string) {
	name = strings.ToLower(name)
	for i := range e.node.Attr {
		if e.node.Attr[i].Namespace == "" && e.node.Attr[i].Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttribute deletes name if present.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	for i := range e.node.Attr {
		if e.node.Attr[i].Namespace == "" && e.node.Attr[i].Key == name {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

func (e *Element) Style(prop string) string {
	return parseStyle(e.Attribute("style")).get(prop)
}

func (e *Element) SetStyle(prop, value string) {
	st := parseStyle(e.Attribute("style"))
	st.set(prop, value)
	if len(st) == 0 {
		e.RemoveAttribute("style")
		return
	}
	e.SetAttribute("style", st.String())
}

// ============================================
// Editing and layout
// ============================================

// IsContentEditable resolves the contenteditable attribute through ancestors.
func (e *Element) IsContentEditable() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		v, ok := attr(n, "contenteditable")
		if !ok {
			continue
		}
		switch strings.ToLower(v) {
		case "", "true", "plaintext-only":
			return true
		case "false":
			return false
		}
	}
	return false
}

func (e *Element) SetContentEditable(editable bool) {
	e.SetAttribute("contenteditable", strconv.FormatBool(editable))
}

// OffsetWidth has no layout engine behind it: it reports an inline "width: Npx"
// style or a numeric width attribute, else 0.
func (e *Element) OffsetWidth() int {
	if w := strings.TrimSpace(e.Style("width")); strings.HasSuffix(w, "px") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(w, "px"), 64); err == nil {
			return int(f)
		}
	}
	if n, err := strconv.Atoi(e.Attribute("width")); err == nil {
		return n
	}
	return 0
}

// InnerText concatenates descendant text.
func (e *Element) InnerText() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				sb.WriteString(c.Data)
			case html.ElementNode:
				if c.Data == "br" {
					sb.WriteByte('\n')
					continue
				}
				walk(c)
			}
		}
	}
	walk(e.node)
	return sb.String()
}

// ============================================
// Focus, click, tree
// ============================================

func (e *Element) Focus() {
	if !e.IsConnected() {
		return
	}
	e.page.focus(e)
}

// Click is the scripted HTMLElement.click(): it dispatches a click and runs the
// activation behavior, without moving focus.
func (e *Element) Click() {
	e.page.click(e)
}

func (e *Element) IsSameNode(other dom.Element) bool {
	o, ok := other.(*Element)
	return ok && o != nil && o.node == e.node
}

func (e *Element) AppendChild(child dom.Element) {
	c, ok := child.(*Element)
	if !ok || c == nil {
		return
	}
	if c.node.Parent != nil {
		c.node.Parent.RemoveChild(c.node)
	}
	e.node.AppendChild(c.node)
}

func (e *Element) Remove() {
	if e.node.Parent == nil {
		return
	}
	if e.page.active != nil && e.contains(e.page.active) {
		e.page.active = nil
	}
	e.node.Parent.RemoveChild(e.node)
}

func (e *Element) IsConnected() bool {
	for n := e.node; n != nil; n = n.Parent {
		if n == e.page.root {
			return true
		}
	}
	return false
}

func (e *Element) Files() []dom.File {
	return append([]dom.File(nil), e.files...)
}

// contains reports whether other is e or a descendant of e.
func (e *Element) contains(other *Element) bool {
	if other == nil {
		return false
	}
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}
