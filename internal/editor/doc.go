// doc.go - Package documentation for the inline content editor core.

// Package editor implements the in-page inline content editor.
//
// While active, a single capture-phase click listener on the document swallows every
// click (propagation and default action) and routes the clicked element to one of two
// edit behaviors:
//   - images (<img>) open a file chooser; the chosen file replaces the image source
//     as a data URL once it has been read
//   - every other element switches to native editable mode until it loses focus
//
// The Controller owns the activation flag and the registered listener. Activate and
// Deactivate are idempotent, so the listener is registered exactly when the editor is
// active and never twice. Everything else is a short-lived session bound to the
// element captured at click time: a text session ends on blur, an image session ends
// when its file read completes or its chooser is detached.
//
// The package talks to the page only through internal/dom, so it runs unchanged in
// the browser (internal/dom/jsdom) and against the in-memory page
// (internal/dom/htmldom).
package editor
