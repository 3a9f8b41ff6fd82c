// Package logx provides the zap-backed implementation of log.Logger.
//
// Overview:
//   - Responsibility: Structured diagnostics for yolk (tool invocations, DB access, config)
//   - Key Types: Logger, Options, FileOptions
//   - Concurrency Model: Safe for concurrent use (zap cores are goroutine-safe)
//   - Error Semantics: Construction never fails; an unknown level falls back to warn
//
// Usage:
//
//	logger := logx.New(logx.WithLevel("debug"), logx.WithFormat(logx.FormatJSON))
//	logger.Info("stub rendered", log.Str("stub", "model.sequelize.stub"))
package logx

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"go.eggybyte.com/yolk/internal/log"
)

// Format specifies the output encoding.
type Format string

const (
	// FormatConsole outputs human-readable lines.
	FormatConsole Format = "console"
	// FormatJSON outputs one JSON object per line.
	FormatJSON Format = "json"
)

// redacted replaces values of sensitive keys.
const redacted = "***REDACTED***"

// FileOptions configures rotated file output.
type FileOptions struct {
	Path       string // Log file path
	MaxSizeMB  int    // Rotate after this many megabytes (default: 10)
	MaxBackups int    // Rotated files to keep (default: 3)
	MaxAgeDays int    // Days to keep rotated files (0 = forever)
	Compress   bool   // Gzip rotated files
}

// Options configures the logger behavior.
type Options struct {
	Format           Format       // console or json
	Level            string       // debug, info, warn, error
	Color            bool         // Colorize the level in console output
	Writer           io.Writer    // Primary output (default: os.Stderr)
	File             *FileOptions // Optional rotated file output
	SensitiveFields  []string     // Keys whose values are masked
	DisableTimestamp bool         // Omit timestamps
}

// Option configures logger behavior.
type Option func(*Options)

// WithFormat sets the output format.
func WithFormat(format Format) Option {
	return func(o *Options) { o.Format = format }
}

// WithLevel sets the minimum log level by name.
func WithLevel(level string) Option {
	return func(o *Options) { o.Level = level }
}

// WithColor enables level colorization in console output.
func WithColor(enabled bool) Option {
	return func(o *Options) { o.Color = enabled }
}

// WithWriter sets the primary output writer.
func WithWriter(w io.Writer) Option {
	return func(o *Options) { o.Writer = w }
}

// WithFile adds rotated file output through lumberjack.
func WithFile(file FileOptions) Option {
	return func(o *Options) { o.File = &file }
}

// WithSensitiveFields sets keys to mask.
func WithSensitiveFields(fields ...string) Option {
	return func(o *Options) { o.SensitiveFields = fields }
}

// WithoutTimestamp omits timestamps from every entry.
func WithoutTimestamp() Option {
	return func(o *Options) { o.DisableTimestamp = true }
}

// Logger implements log.Logger on top of zap.
type Logger struct {
	zl        *zap.Logger
	sensitive []string
}

// New creates a Logger with the given options.
//
// Parameters:
//   - opts: Functional options; defaults are console format, warn level, stderr,
//     and masking of url/dsn/password values
//
// Returns:
//   - log.Logger: Ready-to-use logger
func New(opts ...Option) log.Logger {
	options := Options{
		Format:          FormatConsole,
		Level:           "warn",
		Writer:          os.Stderr,
		SensitiveFields: []string{"password", "dsn", "url"},
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Writer == nil {
		options.Writer = os.Stderr
	}

	level := ParseLevel(options.Level)
	cores := []zapcore.Core{
		zapcore.NewCore(newEncoder(options, options.Color), zapcore.AddSync(options.Writer), level),
	}

	if options.File != nil && options.File.Path != "" {
		rotator := &lumberjack.Logger{
			Filename:   options.File.Path,
			MaxSize:    orDefault(options.File.MaxSizeMB, 10),
			MaxBackups: orDefault(options.File.MaxBackups, 3),
			MaxAge:     options.File.MaxAgeDays,
			Compress:   options.File.Compress,
		}
		fileOpts := options
		fileOpts.Format = FormatJSON
		cores = append(cores, zapcore.NewCore(newEncoder(fileOpts, false), zapcore.AddSync(rotator), level))
	}

	return &Logger{
		zl:        zap.New(zapcore.NewTee(cores...)),
		sensitive: options.SensitiveFields,
	}
}

// NewNop creates a Logger that discards all output.
func NewNop() log.Logger {
	return &Logger{zl: zap.NewNop()}
}

// With returns a new Logger with the given key-value pairs attached.
func (l *Logger) With(kv ...any) log.Logger {
	return &Logger{
		zl:        l.zl.With(toFields(kv, l.sensitive)...),
		sensitive: l.sensitive,
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, kv ...any) {
	l.zl.Debug(msg, toFields(kv, l.sensitive)...)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, kv ...any) {
	l.zl.Info(msg, toFields(kv, l.sensitive)...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, kv ...any) {
	l.zl.Warn(msg, toFields(kv, l.sensitive)...)
}

// Error logs an error message. A nil err is omitted.
func (l *Logger) Error(err error, msg string, kv ...any) {
	fields := toFields(kv, l.sensitive)
	if err != nil {
		fields = append([]zap.Field{zap.Error(err)}, fields...)
	}
	l.zl.Error(msg, fields...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

// ParseLevel converts a level name to a zap level. Unknown names map to warn.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

func newEncoder(o Options, color bool) zapcore.Encoder {
	if o.Format == FormatJSON {
		cfg := zap.NewProductionEncoderConfig()
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		if o.DisableTimestamp {
			cfg.TimeKey = ""
		}
		return zapcore.NewJSONEncoder(cfg)
	}

	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if o.DisableTimestamp {
		cfg.TimeKey = ""
	}
	return zapcore.NewConsoleEncoder(cfg)
}

// toFields converts key-value pairs to zap fields. Pairs built with log.Str and friends
// arrive as two-element []any values and are flattened first.
func toFields(kv []any, sensitive []string) []zap.Field {
	flat := make([]any, 0, len(kv))
	for _, item := range kv {
		if pair, ok := item.([]any); ok && len(pair) == 2 {
			flat = append(flat, pair[0], pair[1])
			continue
		}
		flat = append(flat, item)
	}

	fields := make([]zap.Field, 0, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		key, ok := flat[i].(string)
		if !ok {
			continue
		}
		if isSensitive(key, sensitive) {
			fields = append(fields, zap.String(key, redacted))
			continue
		}
		fields = append(fields, zap.Any(key, flat[i+1]))
	}
	return fields
}

func isSensitive(key string, sensitive []string) bool {
	for _, s := range sensitive {
		if strings.EqualFold(key, s) {
			return true
		}
	}
	return false
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
