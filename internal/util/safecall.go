// safecall.go - Panic-recovering call wrapper for event callbacks.
// A panic escaping a js.FuncOf callback takes the whole WASM instance down, so
// callbacks run through SafeCall and surface panics as errors instead.
package util

import (
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"
)

// PanicError is returned by SafeCall when fn panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// SafeCall runs fn, converting a panic into a *PanicError.
// Errors and panics are logged under what; the caller keeps running either way.
func SafeCall(log *zap.Logger, what string, fn func() error) (err error) {
	if log == nil {
		log = zap.NewNop()
	}
	defer func() {
		if r := recover(); r != nil {
			pe := &PanicError{Value: r, Stack: debug.Stack()}
			log.Error("panic recovered",
				zap.String("in", what),
				zap.Any("panic", r),
				zap.ByteString("stack", pe.Stack))
			err = pe
		}
	}()
	if err = fn(); err != nil {
		log.Error("callback failed", zap.String("in", what), zap.Error(err))
	}
	return err
}
