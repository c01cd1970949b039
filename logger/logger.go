// Package logger wraps zerolog with the constructors and context helpers used
// across folio. Handlers obtain request-scoped loggers with FromContext.
package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger embeds zerolog.Logger so the full zerolog API is available directly.
type Logger struct {
	zerolog.Logger
}

// New returns a JSON logger writing to stdout, tagged with role
// ("server", "build", ...). level is a zerolog level name; unknown or empty
// values fall back to info.
func New(role, level string) *Logger {
	return NewWithWriter(os.Stdout, role, level)
}

// NewWithWriter is New with an explicit output.
func NewWithWriter(w io.Writer, role, level string) *Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	l := zerolog.New(w).Level(lvl).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &Logger{l}
}

// Nop returns a Logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// With returns a child logger carrying an extra string field.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{l.Logger.With().Str(key, value).Logger()}
}

// WithContext attaches l to ctx so FromContext can recover it.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return l.Logger.WithContext(ctx)
}

// FromContext returns the logger stored in ctx. When none was attached,
// zerolog's disabled logger is returned, never nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}
