// options.go - Editor options.
package editor

import (
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultDetachDelay keeps the hidden file input attached long enough for the
	// native dialog to deliver its change event.
	DefaultDetachDelay = time.Second
	// DefaultAccept limits the file chooser to images.
	DefaultAccept = "image/*"
)

// Options configures a Controller. The zero value is usable.
type Options struct {
	// DisableLayoutStabilization edits text without pinning the element to
	// inline-block and its current width first.
	DisableLayoutStabilization bool
	// DetachDelay is how long the hidden file input stays in the document.
	DetachDelay time.Duration
	// Accept is the file input's accept filter.
	Accept string
	// Logger receives the diagnostic trace. Nil discards it.
	Logger *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.DetachDelay <= 0 {
		o.DetachDelay = DefaultDetachDelay
	}
	if o.Accept == "" {
		o.Accept = DefaultAccept
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
