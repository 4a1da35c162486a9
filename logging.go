// logging.go: pluggable logging with automatic adapter detection
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package properties

import (
	"sync"

	"go.uber.org/zap"
)

// Logger defines the pluggable logging interface for the go-properties library.
//
// This interface enables users to integrate any logging framework (zap,
// logrus, zerolog, custom loggers) without forcing a dependency choice on
// the application. Arguments are structured key-value pairs.
//
// Design principles:
//   - Performance friendly: structured logging with minimal allocations
//   - Contextual logging: With() method for adding persistent context
//   - Level-based: standard log levels (Debug, Info, Warn, Error)
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, args ...any)

	// Info logs an info message with optional key-value pairs
	Info(msg string, args ...any)

	// Warn logs a warning message with optional key-value pairs
	Warn(msg string, args ...any)

	// Error logs an error message with optional key-value pairs
	Error(msg string, args ...any)

	// With returns a new logger with persistent context key-value pairs
	With(args ...any) Logger
}

// NewLogger creates a Logger from supported logger types.
//
// Supported types:
//   - Logger interface: used directly
//   - *zap.Logger: wrapped in a ZapAdapter
//   - nil: returns NoOpLogger for silent operation
//   - Unsupported types: panic with descriptive message
func NewLogger(logger any) Logger {
	switch l := logger.(type) {
	case Logger:
		return l
	case *zap.Logger:
		return NewZapAdapter(l)
	case nil:
		return NewNoOpLogger()
	default:
		panic("unsupported logger type: expected Logger interface, *zap.Logger, or nil")
	}
}

// ZapAdapter adapts a *zap.Logger to the library's Logger interface.
//
// The adapter uses zap's sugared API so that the variadic key-value pairs
// of the Logger interface map directly onto zap's structured fields.
type ZapAdapter struct {
	logger *zap.SugaredLogger
}

// NewZapAdapter wraps the given zap logger.
func NewZapAdapter(logger *zap.Logger) *ZapAdapter {
	return &ZapAdapter{logger: logger.Sugar()}
}

// Debug implements Logger interface
func (z *ZapAdapter) Debug(msg string, args ...any) { z.logger.Debugw(msg, args...) }

// Info implements Logger interface
func (z *ZapAdapter) Info(msg string, args ...any) { z.logger.Infow(msg, args...) }

// Warn implements Logger interface
func (z *ZapAdapter) Warn(msg string, args ...any) { z.logger.Warnw(msg, args...) }

// Error implements Logger interface
func (z *ZapAdapter) Error(msg string, args ...any) { z.logger.Errorw(msg, args...) }

// With implements Logger interface
func (z *ZapAdapter) With(args ...any) Logger {
	return &ZapAdapter{logger: z.logger.With(args...)}
}

// NoOpLogger provides a silent logger implementation for testing and
// minimal setups. It discards all log messages.
type NoOpLogger struct{}

// NewNoOpLogger creates a new no-operation logger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

// Debug implements Logger interface (no-op)
func (n *NoOpLogger) Debug(msg string, args ...any) {}

// Info implements Logger interface (no-op)
func (n *NoOpLogger) Info(msg string, args ...any) {}

// Warn implements Logger interface (no-op)
func (n *NoOpLogger) Warn(msg string, args ...any) {}

// Error implements Logger interface (no-op)
func (n *NoOpLogger) Error(msg string, args ...any) {}

// With implements Logger interface (no-op)
func (n *NoOpLogger) With(args ...any) Logger {
	return n // stateless, same instance
}

// TestLogger for testing - captures log messages
type TestLogger struct {
	mu       sync.RWMutex
	Messages []TestLogMessage
}

// TestLogMessage represents a captured log message for testing.
type TestLogMessage struct {
	Level   string
	Message string
	Args    []any
}

// NewTestLogger creates a new test logger.
func NewTestLogger() *TestLogger {
	return &TestLogger{
		Messages: make([]TestLogMessage, 0),
	}
}

// Debug implements Logger interface (captures message)
func (t *TestLogger) Debug(msg string, args ...any) { t.capture("DEBUG", msg, args) }

// Info implements Logger interface (captures message)
func (t *TestLogger) Info(msg string, args ...any) { t.capture("INFO", msg, args) }

// Warn implements Logger interface (captures message)
func (t *TestLogger) Warn(msg string, args ...any) { t.capture("WARN", msg, args) }

// Error implements Logger interface (captures message)
func (t *TestLogger) Error(msg string, args ...any) { t.capture("ERROR", msg, args) }

// With implements Logger interface (context args are captured per-message)
func (t *TestLogger) With(args ...any) Logger {
	return t
}

func (t *TestLogger) capture(level, msg string, args []any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Messages = append(t.Messages, TestLogMessage{
		Level:   level,
		Message: msg,
		Args:    args,
	})
}

// MessagesByLevel returns captured messages matching the given level.
func (t *TestLogger) MessagesByLevel(level string) []TestLogMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]TestLogMessage, 0)
	for _, m := range t.Messages {
		if m.Level == level {
			out = append(out, m)
		}
	}
	return out
}
