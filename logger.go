package coilprox

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with coilprox-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogDetection logs one detection call with its per-stage counts.
func (l *Logger) LogDetection(ctx context.Context, clouds, enumerated, broadSurvived, confirmed int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "detection failed",
			"clouds", clouds,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "detection completed",
		"clouds", clouds,
		"enumerated", enumerated,
		"broad_survived", broadSurvived,
		"confirmed", confirmed,
		"elapsed", elapsed,
	)
}
