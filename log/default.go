package log

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// DefaultContextProvider returns the context used by context-unaware logging
// functions and methods.
var DefaultContextProvider = context.TODO

var (
	defaultMu  sync.RWMutex
	defaultLog = Make(os.Stderr, withSkip(1))
)

// Default returns the package-level logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultLog.Wrap(withSkip(0))
}

// Config updates the package-level logger with the given options.
func Config(opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLog = defaultLog.Wrap(opts...)
}

func current() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultLog
}

// TraceContext logs a message at Trace level using the package-level logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	current().TraceContext(ctx, msg, attrs...)
}

// DebugContext logs a message at Debug level using the package-level logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	current().DebugContext(ctx, msg, attrs...)
}

// Debug logs a message at Debug level using the package-level logger.
func Debug(msg string, attrs ...slog.Attr) {
	current().DebugContext(DefaultContextProvider(), msg, attrs...)
}

// InfoContext logs a message at Info level using the package-level logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	current().InfoContext(ctx, msg, attrs...)
}

// Info logs a message at Info level using the package-level logger.
func Info(msg string, attrs ...slog.Attr) {
	current().InfoContext(DefaultContextProvider(), msg, attrs...)
}

// WarnContext logs a message at Warn level using the package-level logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	current().WarnContext(ctx, msg, attrs...)
}

// Warn logs a message at Warn level using the package-level logger.
func Warn(msg string, attrs ...slog.Attr) {
	current().WarnContext(DefaultContextProvider(), msg, attrs...)
}

// ErrorContext logs a message at Error level using the package-level logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	current().ErrorContext(ctx, msg, attrs...)
}

// Error logs a message at Error level using the package-level logger.
func Error(msg string, attrs ...slog.Attr) {
	current().ErrorContext(DefaultContextProvider(), msg, attrs...)
}

// With returns a copy of the package-level logger that includes the given
// attributes in each log message.
func With(attrs ...slog.Attr) Logger {
	return Default().With(attrs...)
}
