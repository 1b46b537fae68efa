package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/spendlog/internal/storage"
)

// loggingKV logs every call made to the wrapped store.
type loggingKV struct {
	next   storage.KV
	logger *slog.Logger
}

// WithLogging returns a storage.KV that logs each Get and Set with the key,
// payload size and duration. Failures are logged at ERROR, successes at DEBUG.
func WithLogging(next storage.KV, logger *slog.Logger) storage.KV {
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingKV{next: next, logger: logger}
}

func (l *loggingKV) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	value, ok, err := l.next.Get(ctx, key)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		l.logger.ErrorContext(ctx, "Store get failed",
			"key", key,
			"error", err,
			"duration_ms", duration,
		)
		return value, ok, err
	}

	l.logger.DebugContext(ctx, "Store get",
		"key", key,
		"found", ok,
		"bytes", len(value),
		"duration_ms", duration,
	)
	return value, ok, nil
}

func (l *loggingKV) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := l.next.Set(ctx, key, value)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		l.logger.ErrorContext(ctx, "Store set failed",
			"key", key,
			"bytes", len(value),
			"error", err,
			"duration_ms", duration,
		)
		return err
	}

	l.logger.DebugContext(ctx, "Store set",
		"key", key,
		"bytes", len(value),
		"duration_ms", duration,
	)
	return nil
}

func (l *loggingKV) Close() error {
	return l.next.Close()
}
