// Package logging provides the structured logger used across the storefront.
//
// Every component gets a LoggerV2 tagged with its name. Output is JSON via
// log/slog, written to stdout and, when a file is configured, to a rotating
// lumberjack file.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Fields carries structured key/value pairs for a log entry.
type Fields map[string]interface{}

// Options configures the global logger.
type Options struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	mu   sync.RWMutex
	base = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Init replaces the global handler. Loggers created before Init keep
// writing through the new handler because LoggerV2 resolves it lazily.
func Init(opts Options) {
	var w io.Writer = os.Stdout
	if opts.File != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		})
	}
	SetOutput(w, ParseLevel(opts.Level))
}

// SetOutput points the global logger at w. Tests use it to capture output.
func SetOutput(w io.Writer, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	base = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Base returns the global slog logger.
func Base() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// LoggerV2 is a component-scoped structured logger.
type LoggerV2 struct {
	component string
	attrs     []any
}

// NewLoggerV2 creates a logger for the named component.
func NewLoggerV2(component string) *LoggerV2 {
	return &LoggerV2{component: component}
}

// With returns a child logger that always carries fields.
func (l *LoggerV2) With(fields Fields) *LoggerV2 {
	attrs := make([]any, 0, len(l.attrs)+len(fields)*2)
	attrs = append(attrs, l.attrs...)
	attrs = append(attrs, flatten(fields)...)
	return &LoggerV2{component: l.component, attrs: attrs}
}

func (l *LoggerV2) Debug(msg string, fields ...Fields) {
	l.log(context.Background(), slog.LevelDebug, msg, fields)
}

func (l *LoggerV2) Info(msg string, fields ...Fields) {
	l.log(context.Background(), slog.LevelInfo, msg, fields)
}

func (l *LoggerV2) Warn(msg string, fields ...Fields) {
	l.log(context.Background(), slog.LevelWarn, msg, fields)
}

func (l *LoggerV2) Error(msg string, fields ...Fields) {
	l.log(context.Background(), slog.LevelError, msg, fields)
}

// Fatal logs at error level and exits the process.
func (l *LoggerV2) Fatal(msg string, fields ...Fields) {
	l.log(context.Background(), slog.LevelError, msg, fields)
	os.Exit(1)
}

func (l *LoggerV2) log(ctx context.Context, level slog.Level, msg string, fields []Fields) {
	logger := Base()
	if !logger.Enabled(ctx, level) {
		return
	}
	args := make([]any, 0, 2+len(l.attrs)+len(fields)*4)
	args = append(args, "component", l.component)
	args = append(args, l.attrs...)
	for _, f := range fields {
		args = append(args, flatten(f)...)
	}
	logger.Log(ctx, level, msg, args...)
}

func flatten(fields Fields) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}

type ctxKey struct{}

// WithContext stores a request-scoped logger in ctx.
func WithContext(ctx context.Context, l *LoggerV2) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the request-scoped logger, or fallback when none is set.
func FromContext(ctx context.Context, fallback *LoggerV2) *LoggerV2 {
	if l, ok := ctx.Value(ctxKey{}).(*LoggerV2); ok && l != nil {
		return l
	}
	return fallback
}
