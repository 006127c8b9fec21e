// text.go - Edit-in-place for text elements.
package editor

import (
	"strconv"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
	"go.uber.org/zap"

	"github.com/dev-console/inline-editor/internal/dom"
)

// TextEditor switches clicked elements into native editable mode until blur.
type TextEditor struct {
	log       *zap.Logger
	stabilize bool
}

func newTextEditor(log *zap.Logger, stabilize bool) *TextEditor {
	return &TextEditor{log: log, stabilize: stabilize}
}

// textSession is the state one blur continuation needs to undo its edit mode.
type textSession struct {
	el       dom.Element
	original string

	stabilized   bool
	prevDisplay  string
	prevMinWidth string
}

// Edit makes el editable and focuses it. It returns false, doing nothing, when el
// is already editable.
func (t *TextEditor) Edit(el dom.Element) bool {
	if el.IsContentEditable() {
		return false
	}

	s := &textSession{el: el, original: el.InnerText()}
	if t.stabilize {
		// pin the current footprint so the switch to editable does not reflow
		s.stabilized = true
		s.prevDisplay = el.Style("display")
		s.prevMinWidth = el.Style("min-width")
		el.SetStyle("display", "inline-block")
		el.SetStyle("min-width", strconv.Itoa(el.OffsetWidth())+"px")
	}

	el.SetContentEditable(true)

	var onBlur *dom.Handler
	onBlur = dom.NewHandler(func(dom.Event) {
		el.RemoveEventListener(dom.EventBlur, onBlur, false)
		t.finish(s)
	})
	el.AddEventListener(dom.EventBlur, onBlur, false)
	el.Focus()
	return true
}

func (t *TextEditor) finish(s *textSession) {
	s.el.SetContentEditable(false)
	if s.stabilized {
		s.el.SetStyle("display", s.prevDisplay)
		s.el.SetStyle("min-width", s.prevMinWidth)
	}

	final := s.el.InnerText()
	inserted, deleted := diffStats(s.original, final)
	t.log.Info("text edited",
		zap.String("tag", s.el.TagName()),
		zap.String("text", final),
		zap.Int("inserted", inserted),
		zap.Int("deleted", deleted))
}

// diffStats counts inserted and deleted runes between two versions of a text.
func diffStats(before, after string) (inserted, deleted int) {
	if before == after {
		return 0, 0
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			inserted += utf8.RuneCountInString(d.Text)
		case diffmatchpatch.DiffDelete:
			deleted += utf8.RuneCountInString(d.Text)
		}
	}
	return inserted, deleted
}
