// files.go - Files and native file chooser simulation.
package htmldom

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dev-console/inline-editor/internal/dataurl"
	"github.com/dev-console/inline-editor/internal/dom"
)

// File is an in-memory user file.
type File struct {
	name     string
	mimeType string
	data     []byte
	readErr  error
}

var _ dom.File = (*File)(nil)

// NewFile makes a file. An empty mimeType is detected from name and content.
func NewFile(name, mimeType string, data []byte) *File {
	if mimeType == "" {
		mimeType = dataurl.DetectMimeType(name, data)
	}
	return &File{name: name, mimeType: mimeType, data: data}
}

// NewUnreadableFile makes a file whose reads fail with err.
func NewUnreadableFile(name, mimeType string, err error) *File {
	return &File{name: name, mimeType: mimeType, readErr: err}
}

// OpenFile loads a file from disk.
func OpenFile(path string) (*File, error) {
	// #nosec G304 -- path comes from the operator's replay script
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return NewFile(filepath.Base(path), "", data), nil
}

func (f *File) Name() string  { return f.name }
func (f *File) Type() string  { return f.mimeType }
func (f *File) Size() int64   { return int64(len(f.data)) }
func (f *File) Bytes() []byte { return f.data }

var ErrChooserResolved = errors.New("file chooser already resolved")

// FileChooser is an open native file dialog for a file input.
type FileChooser struct {
	page   *Page
	input  *Element
	Accept string
	done   bool
}

// Input is the <input type=file> that opened the dialog.
func (fc *FileChooser) Input() *Element { return fc.input }

// Accepts reports whether f passes the input's accept filter.
func (fc *FileChooser) Accepts(f *File) bool {
	return dataurl.MatchesAccept(fc.Accept, f.name, f.mimeType)
}

// Choose completes the dialog with files: the input's selection is replaced and
// input and change events fire. Choosing no files still fires change.
func (fc *FileChooser) Choose(files ...*File) error {
	if fc.done {
		return ErrChooserResolved
	}
	fc.done = true
	fc.input.files = fc.input.files[:0]
	for _, f := range files {
		fc.input.files = append(fc.input.files, f)
	}
	fc.page.dispatch(newEvent(dom.EventInput, fc.input, true))
	fc.page.dispatch(newEvent(dom.EventChange, fc.input, true))
	return nil
}

// Cancel dismisses the dialog: only a cancel event fires.
func (fc *FileChooser) Cancel() error {
	if fc.done {
		return ErrChooserResolved
	}
	fc.done = true
	fc.page.dispatch(newEvent(dom.EventCancel, fc.input, false))
	return nil
}
