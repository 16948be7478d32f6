// Package logging wraps zerolog behind a small variadic key/value API used
// across the service, plus context propagation for request and job IDs.
package logging

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger carries a zerolog logger and the accumulated With() fields.
type Logger struct {
	zl     zerolog.Logger
	fields map[string]interface{}
}

var global = NewDevelopment()

// SetGlobal replaces the process-wide logger; the binaries call this once
// after loading config.
func SetGlobal(logger *Logger) {
	global = logger
}

// Global returns the process-wide logger.
func Global() *Logger {
	return global
}

func wrap(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl, fields: make(map[string]interface{})}
}

// NewDevelopment creates a debug-level logger with pretty console output.
func NewDevelopment() *Logger {
	out := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	return wrap(zerolog.New(out).Level(zerolog.DebugLevel).With().Timestamp().Logger())
}

// NewProduction creates an info-level logger with JSON output.
func NewProduction() *Logger {
	return wrap(zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger())
}

// emit applies the stored fields plus the call's key/value pairs to the
// event. Values under the "error" key serialize as their message.
func (l *Logger) emit(e *zerolog.Event, msg string, fields []interface{}) {
	for k, v := range l.fields {
		e.Interface(k, v)
	}

	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		if err, isErr := fields[i+1].(error); isErr && key == "error" {
			e.Str(key, err.Error())
			continue
		}
		e.Interface(key, fields[i+1])
	}

	e.Msg(msg)
}

func (l *Logger) Debug(msg string, fields ...interface{}) { l.emit(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...interface{})  { l.emit(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.emit(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.emit(l.zl.Error(), msg, fields) }

// Fatal logs the message and exits the process.
func (l *Logger) Fatal(msg string, fields ...interface{}) { l.emit(l.zl.Fatal(), msg, fields) }

// With returns a child logger that always carries the given fields.
func (l *Logger) With(fields ...interface{}) *Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields)/2)
	for k, v := range l.fields {
		merged[k] = v
	}
	for i := 0; i+1 < len(fields); i += 2 {
		if key, ok := fields[i].(string); ok {
			merged[key] = fields[i+1]
		}
	}
	return &Logger{zl: l.zl, fields: merged}
}

// WithContext returns a child logger carrying the IDs stored in ctx.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	fields := extractContextFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}
