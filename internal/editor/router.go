// router.go - Capture-phase click interception and dispatch by tag.
package editor

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/dev-console/inline-editor/internal/dom"
	"github.com/dev-console/inline-editor/internal/util"
)

// Marker attribute carried by the editor's own file input. It only labels the
// node for anyone inspecting the DOM; the router decides by identity.
const (
	markerAttr    = "data-inline-editor"
	markerChooser = "file-chooser"
)

type editKind int

const (
	editText editKind = iota
	editImage
)

// classify maps a tag name to an edit behavior. Only images are special.
func classify(tag string) editKind {
	if strings.EqualFold(tag, "img") {
		return editImage
	}
	return editText
}

// router is the listener body. It reads no activation state and never changes it.
type router struct {
	log    *zap.Logger
	text   *TextEditor
	images *ImageReplacer
}

func (r *router) handle(ev dom.Event) {
	target := ev.Target()
	// The file input's scripted click travels through this listener too, and
	// cancelling it would keep the native dialog from opening.
	if target != nil && r.images.owns(target) {
		return
	}
	ev.StopPropagation()
	ev.PreventDefault()

	_ = util.SafeCall(r.log, "click", func() error {
		if target == nil {
			return errors.New("click without target element")
		}
		switch classify(target.TagName()) {
		case editImage:
			return r.images.Replace(target)
		default:
			r.text.Edit(target)
			return nil
		}
	})
}
