package logger

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog so the rest of the code depends on one place
// for log construction and request-scoped fields.
type Logger struct {
	*slog.Logger
}

// ctxKey is unexported so no other package can collide with our
// context keys.
type ctxKey int

// RequestIDKey is the context key the HTTP middleware stores the
// request ID under; WithContext reads it back.
const RequestIDKey ctxKey = iota

// New creates a JSON logger at the given level.
// JSON output keeps the logs ingestible by aggregation tools.
func New(level string) *Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	return &Logger{Logger: slog.New(handler)}
}

// WithContext returns a logger carrying the request ID from ctx, if set.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return &Logger{Logger: l.With("request_id", requestID)}
	}
	return l
}

// WithFields adds additional fields to the logger
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{Logger: l.With(args...)}
}
