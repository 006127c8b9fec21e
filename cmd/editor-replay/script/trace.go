// trace.go - zap core that keeps the editor's log entries for the current step.
package script

import (
	"sync"

	"go.uber.org/zap/zapcore"
)

// traceEntry is one logged entry with every field attached to it.
type traceEntry struct {
	zapcore.Entry
	Context []zapcore.Field
}

// Fields decodes the entry's fields into plain values.
func (e traceEntry) Fields() map[string]any {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range e.Context {
		f.AddTo(enc)
	}
	return enc.Fields
}

// traceLog collects entries until they are taken.
type traceLog struct {
	mu      sync.Mutex
	entries []traceEntry
}

func (l *traceLog) add(e traceEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
}

// take returns the collected entries and starts over.
func (l *traceLog) take() []traceEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.entries
	l.entries = nil
	return out
}

// traceCore appends to a traceLog. Children made by With share the log.
type traceCore struct {
	zapcore.LevelEnabler
	log     *traceLog
	context []zapcore.Field
}

func newTraceCore(level zapcore.LevelEnabler) (*traceCore, *traceLog) {
	l := &traceLog{}
	return &traceCore{LevelEnabler: level, log: l}, l
}

func (c *traceCore) With(fields []zapcore.Field) zapcore.Core {
	ctx := make([]zapcore.Field, 0, len(c.context)+len(fields))
	ctx = append(ctx, c.context...)
	ctx = append(ctx, fields...)
	return &traceCore{LevelEnabler: c.LevelEnabler, log: c.log, context: ctx}
}

func (c *traceCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *traceCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	all := make([]zapcore.Field, 0, len(c.context)+len(fields))
	all = append(all, c.context...)
	all = append(all, fields...)
	c.log.add(traceEntry{Entry: ent, Context: all})
	return nil
}

func (c *traceCore) Sync() error { return nil }
