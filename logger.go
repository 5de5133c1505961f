package copairs

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with copairs-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000), // Unreachable level
		})),
	}
}

// WithColumns adds sameby and diffby fields to the logger.
func (l *Logger) WithColumns(sameby, diffby []string) *Logger {
	return &Logger{
		Logger: l.Logger.With("sameby", sameby, "diffby", diffby),
	}
}

// LogPairs logs a pair enumeration.
func (l *Logger) LogPairs(ctx context.Context, groups, pairs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "pair enumeration failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "pair enumeration completed",
			"groups", groups,
			"pairs", pairs,
		)
	}
}

// LogSampling logs that an oversized group was subsampled.
func (l *Logger) LogSampling(ctx context.Context, key Key, size, limit int) {
	l.WarnContext(ctx, "group exceeds max size, subsampling",
		"key", key.String(),
		"size", size,
		"max_size", limit,
	)
}

// LogNullSample logs a null pair draw.
func (l *Logger) LogNullSample(ctx context.Context, tries int, err error) {
	if err != nil {
		l.WarnContext(ctx, "null pair sampling failed",
			"tries", tries,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "null pair sampled",
			"tries", tries,
		)
	}
}
