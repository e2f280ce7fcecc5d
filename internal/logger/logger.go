// Package logger provides logging abstractions for torpedo.
// It supports standard library log/slog and allows custom logger implementations.
package logger

import "log/slog"

// Logger defines the logging interface for torpedo.
// Implementations should handle structured logging with key-value pairs.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs
	Debug(msg string, args ...any)
	// Info logs informational messages with optional key-value pairs
	Info(msg string, args ...any)
	// Warn logs warning messages with optional key-value pairs
	Warn(msg string, args ...any)
	// Error logs error messages with optional key-value pairs
	Error(msg string, args ...any)
}

// NoopLogger is a logger that does nothing.
// This is the default logger used when no logger is configured.
type NoopLogger struct{}

// Debug does nothing.
func (n *NoopLogger) Debug(_ string, _ ...any) {}

// Info does nothing.
func (n *NoopLogger) Info(_ string, _ ...any) {}

// Warn does nothing.
func (n *NoopLogger) Warn(_ string, _ ...any) {}

// Error does nothing.
func (n *NoopLogger) Error(_ string, _ ...any) {}

// SlogAdapter wraps log/slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new logger adapter wrapping an slog.Logger.
// A nil logger falls back to slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// With returns an adapter that adds the given key-value pairs to every record.
func (a *SlogAdapter) With(args ...any) *SlogAdapter {
	return &SlogAdapter{logger: a.logger.With(args...)}
}

// With returns l with args added to every record. Sessions use it to stamp
// their identifier on each line.
func With(l Logger, args ...any) Logger {
	switch v := l.(type) {
	case *SlogAdapter:
		return v.With(args...)
	case *NoopLogger:
		return v
	case *boundLogger:
		return &boundLogger{inner: v.inner, args: append(append([]any(nil), v.args...), args...)}
	}
	return &boundLogger{inner: l, args: args}
}

// boundLogger prepends fixed key-value pairs for loggers without native support.
type boundLogger struct {
	inner Logger
	args  []any
}

func (b *boundLogger) with(args []any) []any {
	return append(append(make([]any, 0, len(b.args)+len(args)), b.args...), args...)
}

func (b *boundLogger) Debug(msg string, args ...any) { b.inner.Debug(msg, b.with(args)...) }
func (b *boundLogger) Info(msg string, args ...any)  { b.inner.Info(msg, b.with(args)...) }
func (b *boundLogger) Warn(msg string, args ...any)  { b.inner.Warn(msg, b.with(args)...) }
func (b *boundLogger) Error(msg string, args ...any) { b.inner.Error(msg, b.with(args)...) }

// Debug logs a debug-level message with structured key-value pairs.
func (a *SlogAdapter) Debug(msg string, args ...any) {
	a.logger.Debug(msg, args...)
}

// Info logs an info-level message with structured key-value pairs.
func (a *SlogAdapter) Info(msg string, args ...any) {
	a.logger.Info(msg, args...)
}

// Warn logs a warning-level message with structured key-value pairs.
func (a *SlogAdapter) Warn(msg string, args ...any) {
	a.logger.Warn(msg, args...)
}

// Error logs an error-level message with structured key-value pairs.
func (a *SlogAdapter) Error(msg string, args ...any) {
	a.logger.Error(msg, args...)
}
