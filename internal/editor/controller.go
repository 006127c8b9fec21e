// controller.go - Activation state and ownership of the document click listener.
package editor

import (
	"sync"

	"go.uber.org/zap"

	"github.com/dev-console/inline-editor/internal/dom"
)

// Controller toggles click interception on one document.
//
// The inbound command carries the desired end state (Set); Activate and
// Deactivate are idempotent, so repeating the current state changes nothing.
type Controller struct {
	host dom.Host
	log  *zap.Logger

	text   *TextEditor
	images *ImageReplacer

	mu      sync.Mutex
	active  bool
	onClick *dom.Handler // registered iff active
}

// New creates an inactive controller for host.
func New(host dom.Host, opts Options) *Controller {
	opts = opts.withDefaults()
	log := opts.Logger.Named("editor")
	return &Controller{
		host:   host,
		log:    log,
		text:   newTextEditor(log, !opts.DisableLayoutStabilization),
		images: newImageReplacer(host, log, opts.Accept, opts.DetachDelay),
	}
}

// Set drives the editor to the requested state and returns the resulting state.
func (c *Controller) Set(active bool) bool {
	if active {
		c.Activate()
	} else {
		c.Deactivate()
	}
	return c.Active()
}

// Active reports whether clicks are being intercepted.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Activate installs the capture-phase click listener. No-op when already active.
func (c *Controller) Activate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		return
	}
	doc := c.host.Document()
	if doc == nil {
		c.log.Warn("no document, editor mode not activated")
		return
	}
	r := &router{log: c.log, text: c.text, images: c.images}
	c.onClick = dom.NewHandler(r.handle)
	doc.AddEventListener(dom.EventClick, c.onClick, true)
	c.active = true
	c.log.Info("editor mode activated")
}

// Deactivate removes the listener installed by Activate. No-op when inactive.
//
// A text element that is still being edited stays editable until it loses focus:
// its exit path is its own blur listener, which does not depend on interception.
func (c *Controller) Deactivate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.active {
		return
	}
	if doc := c.host.Document(); doc != nil && c.onClick != nil {
		doc.RemoveEventListener(dom.EventClick, c.onClick, true)
	}
	c.onClick = nil
	c.active = false
	c.log.Info("editor mode deactivated")
}
