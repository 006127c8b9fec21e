// image.go - Image replacement through a hidden file chooser.
package editor

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dev-console/inline-editor/internal/dataurl"
	"github.com/dev-console/inline-editor/internal/dom"
)

// ErrNoBody is returned when the document has no body to host the file input.
var ErrNoBody = errors.New("document has no body")

// ImageReplacer swaps an image's source for a user-chosen local file.
type ImageReplacer struct {
	host   dom.Host
	log    *zap.Logger
	accept string
	delay  time.Duration

	// owned holds the file inputs this replacer created and has not yet detached.
	owned []dom.Element
}

func newImageReplacer(host dom.Host, log *zap.Logger, accept string, delay time.Duration) *ImageReplacer {
	return &ImageReplacer{host: host, log: log, accept: accept, delay: delay}
}

// Replace opens a file chooser for img. The hidden input is detached after the
// configured delay whether or not a file was chosen.
func (r *ImageReplacer) Replace(img dom.Element) error {
	doc := r.host.Document()
	if doc == nil {
		return ErrNoBody
	}
	body := doc.Body()
	if body == nil {
		return ErrNoBody
	}

	input := doc.CreateElement("input")
	input.SetAttribute("type", "file")
	input.SetAttribute("accept", r.accept)
	input.SetAttribute(markerAttr, markerChooser)
	input.SetStyle("display", "none")

	var onChange *dom.Handler
	onChange = dom.NewHandler(func(dom.Event) {
		input.RemoveEventListener(dom.EventChange, onChange, false)
		files := input.Files()
		if len(files) == 0 {
			return
		}
		r.load(img, files[0])
	})
	input.AddEventListener(dom.EventChange, onChange, false)

	body.AppendChild(input)
	r.owned = append(r.owned, input)
	input.Click()
	r.host.SetTimeout(r.delay, func() {
		input.Remove()
		r.release(input)
	})
	return nil
}

// owns reports whether el is one of the replacer's attached file inputs.
func (r *ImageReplacer) owns(el dom.Element) bool {
	for _, in := range r.owned {
		if in.IsSameNode(el) {
			return true
		}
	}
	return false
}

func (r *ImageReplacer) release(input dom.Element) {
	for i, in := range r.owned {
		if in == input {
			r.owned = append(r.owned[:i], r.owned[i+1:]...)
			return
		}
	}
}

// load reads file and points img at it. img is the element captured at click
// time; later clicks cannot redirect this read.
func (r *ImageReplacer) load(img dom.Element, file dom.File) {
	r.host.ReadAsDataURL(file, func(url string, err error) {
		if err != nil {
			r.log.Warn("image read failed", zap.String("file", file.Name()), zap.Error(err))
			return
		}
		img.SetAttribute("src", url)

		fields := []zap.Field{zap.String("file", file.Name())}
		if mt, data, derr := dataurl.Decode(url); derr == nil {
			fields = append(fields, zap.String("mime", mt), zap.Int("bytes", len(data)))
		}
		r.log.Info("image replaced", fields...)
	})
}
