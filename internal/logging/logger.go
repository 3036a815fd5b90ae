// Package logging wraps a global zerolog logger for the service.
//
// Call Init once from main; until then a JSON logger at info level writing to
// stderr is used. Request scoped loggers come from Ctx, which adds the request
// ID stored by the request ID middleware.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	// Level is one of trace, debug, info, warn, error. Default: info.
	Level string
	// Format is json or console. Default: json.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

type contextKey string

const requestIDKey contextKey = "request_id"

var (
	mu     sync.RWMutex
	logger zerolog.Logger
)

func init() {
	Init(Config{})
}

// Init (re)configures the global logger.
func Init(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	out := cfg.Output
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	mu.Lock()
	logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
	mu.Unlock()
}

// L returns the global logger.
func L() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

func Debug() *zerolog.Event { return L().Debug() }
func Info() *zerolog.Event  { return L().Info() }
func Warn() *zerolog.Event  { return L().Warn() }
func Error() *zerolog.Event { return L().Error() }
func Fatal() *zerolog.Event { return L().Fatal() }

// ContextWithRequestID stores the request ID for Ctx.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the stored request ID or "".
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger enriched with the request ID from ctx.
func Ctx(ctx context.Context) *zerolog.Logger {
	l := L()
	if id := RequestIDFromContext(ctx); id != "" {
		withID := l.With().Str("request_id", id).Logger()
		return &withID
	}
	return l
}
