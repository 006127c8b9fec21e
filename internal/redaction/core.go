// core.go - zap core that redacts string fields on their way to the sink.
package redaction

import (
	"go.uber.org/zap/zapcore"
)

type core struct {
	zapcore.Core
	engine *Engine
}

// Core wraps inner so string fields and the message are redacted by e before
// any encoder sees them. A nil engine returns inner unchanged.
func Core(inner zapcore.Core, e *Engine) zapcore.Core {
	if e == nil {
		return inner
	}
	return &core{Core: inner, engine: e}
}

func (c *core) With(fields []zapcore.Field) zapcore.Core {
	return &core{Core: c.Core.With(c.scrub(fields)), engine: c.engine}
}

func (c *core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	ent.Message = c.engine.Redact(ent.Message)
	return c.Core.Write(ent, c.scrub(fields))
}

func (c *core) scrub(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, len(fields))
	for i, f := range fields {
		if f.Type == zapcore.StringType {
			f.String = c.engine.Redact(f.String)
		}
		out[i] = f
	}
	return out
}
