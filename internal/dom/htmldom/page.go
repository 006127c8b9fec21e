// page.go - In-memory page built on golang.org/x/net/html.
// Page implements dom.Host and dom.Document with a deterministic event loop:
// timers advance only through Advance, and async work queued by ReadAsDataURL runs
// only through RunTasks. A Page is not safe for concurrent use; like a browser tab it
// is driven from a single goroutine.
package htmldom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dev-console/inline-editor/internal/dataurl"
	"github.com/dev-console/inline-editor/internal/dom"
)

// ErrNotFound is returned by Query when no element matches.
var ErrNotFound = errors.New("no element matches")

type timer struct {
	due time.Duration
	seq int
	fn  func()
}

// Page is a loaded document plus its event loop.
type Page struct {
	root     *html.Node
	elements map[*html.Node]*Element
	docL     listeners

	active *Element

	now     time.Duration
	timers  []timer
	seq     int
	tasks   []func()
	chooser []*FileChooser

	navigations []string
}

var (
	_ dom.Host     = (*Page)(nil)
	_ dom.Document = (*Page)(nil)
)

// Parse loads a page from HTML source.
func Parse(r io.Reader) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Page{root: root, elements: make(map[*html.Node]*Element)}, nil
}

// ParseString is Parse for inline fixtures.
func ParseString(src string) (*Page, error) {
	return Parse(strings.NewReader(src))
}

// ============================================
// Lookup
// ============================================

// Query returns the first element matching an XPath expression.
func (p *Page) Query(xpath string) (*Element, error) {
	n, err := htmlquery.Query(p.root, xpath)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %w", xpath, err)
	}
	if n == nil || n.Type != html.ElementNode {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, xpath)
	}
	return p.wrap(n), nil
}

// QueryAll returns every element matching an XPath expression.
func (p *Page) QueryAll(xpath string) ([]*Element, error) {
	nodes, err := htmlquery.QueryAll(p.root, xpath)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %w", xpath, err)
	}
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			out = append(out, p.wrap(n))
		}
	}
	return out, nil
}

// MustQuery is Query for fixtures known to contain the element.
func (p *Page) MustQuery(xpath string) *Element {
	el, err := p.Query(xpath)
	if err != nil {
		panic(err)
	}
	return el
}

// HTML renders the current document.
func (p *Page) HTML() string {
	var buf bytes.Buffer
	_ = html.Render(&buf, p.root)
	return buf.String()
}

func (p *Page) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	if el, ok := p.elements[n]; ok {
		return el
	}
	el := &Element{page: p, node: n}
	p.elements[n] = el
	return el
}

// ============================================
// dom.Document
// ============================================

// Document returns the page itself.
func (p *Page) Document() dom.Document { return p }

// CreateElement makes a detached element.
func (p *Page) CreateElement(tag string) dom.Element {
	tag = strings.ToLower(tag)
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	return p.wrap(n)
}

// Body returns the <body> element, or nil.
func (p *Page) Body() dom.Element {
	n := htmlquery.FindOne(p.root, "//body")
	if n == nil {
		return nil
	}
	return p.wrap(n)
}

// AddEventListener registers a document-level listener.
func (p *Page) AddEventListener(typ string, h *dom.Handler, capture bool) {
	p.docL.add(typ, h, capture)
}

// RemoveEventListener removes a document-level listener.
func (p *Page) RemoveEventListener(typ string, h *dom.Handler, capture bool) {
	p.docL.remove(typ, h, capture)
}

// ListenerCount reports how many document listeners of typ are registered.
func (p *Page) ListenerCount(typ string) int {
	return p.docL.count(typ)
}

// ============================================
// User interaction
// ============================================

// ClickResult describes what a user click did.
type ClickResult struct {
	DefaultPrevented bool
	Navigated        string
	OpenedChooser    *FileChooser
}

// Click performs a user click on el: focus moves away from any focused element
// that does not contain el (the mousedown default), then the click event is
// dispatched and, unless cancelled, the element's activation behavior runs.
func (p *Page) Click(el *Element) ClickResult {
	if p.active != nil && !p.active.contains(el) {
		p.blurActive()
	}
	return p.click(el)
}

func (p *Page) click(el *Element) ClickResult {
	ev := newEvent(dom.EventClick, el, true)
	p.dispatch(ev)
	if ev.defaultPrevented {
		return ClickResult{DefaultPrevented: true}
	}
	return p.activate(el)
}

// activate runs the default action of a click on el.
func (p *Page) activate(el *Element) ClickResult {
	var res ClickResult
	if el.node.DataAtom == atom.Input && strings.EqualFold(el.Attribute("type"), "file") {
		if el.IsConnected() {
			fc := &FileChooser{page: p, input: el, Accept: el.Attribute("accept")}
			p.chooser = append(p.chooser, fc)
			res.OpenedChooser = fc
		}
		return res
	}
	for n := el.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if href, ok := attr(n, "href"); ok {
				p.navigations = append(p.navigations, href)
				res.Navigated = href
			}
			break
		}
	}
	return res
}

// Type inserts text into the focused editable element. With replace set the
// element's content is replaced, as after select-all.
func (p *Page) Type(text string, replace bool) error {
	el := p.active
	if el == nil {
		return errors.New("no focused element")
	}
	if !el.IsContentEditable() {
		return fmt.Errorf("focused <%s> is not editable", el.node.Data)
	}
	if replace {
		for c := el.node.FirstChild; c != nil; {
			next := c.NextSibling
			el.node.RemoveChild(c)
			c = next
		}
	}
	if last := el.node.LastChild; last != nil && last.Type == html.TextNode {
		last.Data += text
	} else {
		el.node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	p.dispatch(newEvent(dom.EventInput, el, true))
	return nil
}

// Blur removes focus from the focused element, if any.
func (p *Page) Blur() {
	p.blurActive()
}

// ActiveElement returns the focused element, or nil.
func (p *Page) ActiveElement() *Element { return p.active }

// Navigations lists hrefs followed by unprevented link clicks.
func (p *Page) Navigations() []string {
	return append([]string(nil), p.navigations...)
}

func (p *Page) focus(el *Element) {
	if p.active == el {
		return
	}
	prev := p.active
	p.active = el
	if prev != nil {
		p.dispatch(newEvent(dom.EventBlur, prev, false))
	}
	p.dispatch(newEvent(dom.EventFocus, el, false))
}

func (p *Page) blurActive() {
	prev := p.active
	if prev == nil {
		return
	}
	p.active = nil
	p.dispatch(newEvent(dom.EventBlur, prev, false))
}

// ============================================
// File choosers
// ============================================

// FileChoosers lists choosers opened and not yet resolved, oldest first.
func (p *Page) FileChoosers() []*FileChooser {
	var open []*FileChooser
	for _, fc := range p.chooser {
		if !fc.done {
			open = append(open, fc)
		}
	}
	return open
}

// PendingChooser returns the most recently opened unresolved chooser, or nil.
func (p *Page) PendingChooser() *FileChooser {
	open := p.FileChoosers()
	if len(open) == 0 {
		return nil
	}
	return open[len(open)-1]
}

// ============================================
// Event loop: timers and tasks
// ============================================

// SetTimeout schedules fn after d of page time.
func (p *Page) SetTimeout(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	p.seq++
	p.timers = append(p.timers, timer{due: p.now + d, seq: p.seq, fn: fn})
}

// ReadAsDataURL queues an asynchronous read of f. Only files created with NewFile
// can be read.
func (p *Page) ReadAsDataURL(f dom.File, done func(string, error)) {
	file, ok := f.(*File)
	p.tasks = append(p.tasks, func() {
		if !ok || file == nil {
			done("", fmt.Errorf("read %T: unsupported file", f))
			return
		}
		if file.readErr != nil {
			done("", file.readErr)
			return
		}
		done(dataurl.Encode(file.mimeType, file.data), nil)
	})
}

// PendingTasks reports queued async completions.
func (p *Page) PendingTasks() int { return len(p.tasks) }

// RunTasks drains the task queue, including tasks queued while draining.
func (p *Page) RunTasks() int {
	ran := 0
	for len(p.tasks) > 0 {
		task := p.tasks[0]
		p.tasks = p.tasks[1:]
		task()
		ran++
	}
	return ran
}

// Now is the page clock.
func (p *Page) Now() time.Duration { return p.now }

// Advance moves the clock forward by d, firing due timers in order and draining
// tasks after each one.
func (p *Page) Advance(d time.Duration) {
	target := p.now + d
	for {
		p.RunTasks()
		idx := p.nextTimer(target)
		if idx < 0 {
			break
		}
		t := p.timers[idx]
		p.timers = append(p.timers[:idx], p.timers[idx+1:]...)
		p.now = t.due
		t.fn()
	}
	p.now = target
	p.RunTasks()
}

// PendingTimers reports scheduled, unfired timers.
func (p *Page) PendingTimers() int { return len(p.timers) }

func (p *Page) nextTimer(limit time.Duration) int {
	if len(p.timers) == 0 {
		return -1
	}
	sort.SliceStable(p.timers, func(i, j int) bool {
		if p.timers[i].due != p.timers[j].due {
			return p.timers[i].due < p.timers[j].due
		}
		return p.timers[i].seq < p.timers[j].seq
	})
	if p.timers[0].due > limit {
		return -1
	}
	return 0
}
