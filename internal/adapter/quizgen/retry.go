package quizgen

import (
	"context"
	"time"

	"quiz-sentinel/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultAttempts = 3
	backoffStep     = 300 * time.Millisecond
)

// callWithRetry retries transient model failures with a linear backoff.
func callWithRetry(ctx context.Context, provider string, attempts int, call func(context.Context) (string, error)) (string, error) {
	if attempts <= 0 {
		attempts = defaultAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		text, err := call(ctx)
		if err == nil {
			return text, nil
		}
		lastErr = err
		logger.Get().Warn("Model call failed",
			zap.String("provider", provider),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * backoffStep):
		}
	}
	return "", lastErr
}
