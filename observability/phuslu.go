package observability

import (
	"github.com/phuslu/log"
)

// PhusluLogger adapts a phuslu/log.Logger to the Logger interface.
type PhusluLogger struct {
	logger *log.Logger
	fields []Field
}

// NewPhusluLogger wraps l. A nil l uses the package default logger.
func NewPhusluLogger(l *log.Logger) *PhusluLogger {
	if l == nil {
		l = &log.DefaultLogger
	}
	return &PhusluLogger{logger: l}
}

func (p *PhusluLogger) Debug(msg string, fields ...Field) {
	p.emit(p.logger.Debug(), msg, fields)
}

func (p *PhusluLogger) Info(msg string, fields ...Field) {
	p.emit(p.logger.Info(), msg, fields)
}

func (p *PhusluLogger) Warn(msg string, fields ...Field) {
	p.emit(p.logger.Warn(), msg, fields)
}

func (p *PhusluLogger) Error(msg string, fields ...Field) {
	p.emit(p.logger.Error(), msg, fields)
}

func (p *PhusluLogger) With(fields ...Field) Logger {
	combined := make([]Field, 0, len(p.fields)+len(fields))
	combined = append(combined, p.fields...)
	combined = append(combined, fields...)
	return &PhusluLogger{logger: p.logger, fields: combined}
}

func (p *PhusluLogger) emit(e *log.Entry, msg string, fields []Field) {
	for _, f := range p.fields {
		e = appendField(e, f)
	}
	for _, f := range fields {
		e = appendField(e, f)
	}
	e.Msg(msg)
}

func appendField(e *log.Entry, f Field) *log.Entry {
	switch v := f.Value().(type) {
	case string:
		return e.Str(f.Key(), v)
	case int:
		return e.Int(f.Key(), v)
	case int64:
		return e.Int64(f.Key(), v)
	case float64:
		return e.Float64(f.Key(), v)
	case error:
		return e.AnErr(f.Key(), v)
	default:
		return e.Interface(f.Key(), v)
	}
}
