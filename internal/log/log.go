// Package log defines the structured logging contract used inside yolk.
//
// Overview:
//   - Responsibility: Decouple packages from the concrete logging backend (see logx)
//   - Key Types: Logger interface, key-value helpers
//   - Concurrency Model: Implementations must be safe for concurrent use
//
// Usage:
//
//	logger.Info("migration written", log.Str("file", name), log.Int("fields", n))
package log

import "time"

// Logger is a structured, leveled logger.
type Logger interface {
	// With returns a Logger that always includes the given key-value pairs.
	With(kv ...any) Logger

	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, kv ...any)

	// Info logs an informational message with optional key-value pairs.
	Info(msg string, kv ...any)

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, kv ...any)

	// Error logs an error with a message and optional key-value pairs.
	Error(err error, msg string, kv ...any)
}

// Str creates a string key-value pair.
func Str(k, v string) any {
	return []any{k, v}
}

// Int creates an integer key-value pair.
func Int(k string, v int) any {
	return []any{k, v}
}

// Dur creates a duration key-value pair.
func Dur(k string, v time.Duration) any {
	return []any{k, v}
}

// Strs creates a string-slice key-value pair.
func Strs(k string, v []string) any {
	return []any{k, v}
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (n nopLogger) With(kv ...any) Logger { return n }
func (nopLogger) Debug(msg string, kv ...any) {}
func (nopLogger) Info(msg string, kv ...any) {}
func (nopLogger) Warn(msg string, kv ...any) {}
func (nopLogger) Error(err error, msg string, kv ...any) {}
