package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"quiz-sentinel/internal/config"
	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 5 * time.Second
	maxParallelSends     = 4
)

// Dispatcher sends one round of alert messages.
type Dispatcher interface {
	// Dispatch sends the alert to every recipient and returns how many succeeded.
	Dispatch(ctx context.Context, loc *domain.Location) (int, error)
}

// AlertDispatcher fans an alert out to every configured recipient with retries.
type AlertDispatcher struct {
	notifier   domain.Notifier
	recipients []string
	attempts   int
	delay      time.Duration
	fallbacks  []domain.Location

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewAlertDispatcher(notifier domain.Notifier, cfg config.AlertConfig) *AlertDispatcher {
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = DefaultRetryAttempts
	}
	delay := cfg.RetryDelay
	if delay < 0 {
		delay = DefaultRetryDelay
	}
	fallbacks := make([]domain.Location, 0, len(cfg.FallbackLocations))
	for _, l := range cfg.FallbackLocations {
		fallbacks = append(fallbacks, domain.Location{Lat: l.Lat, Lng: l.Lng})
	}
	return &AlertDispatcher{
		notifier:   notifier,
		recipients: append([]string(nil), cfg.Recipients...),
		attempts:   attempts,
		delay:      delay,
		fallbacks:  fallbacks,
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// resolveLocation prefers the reported location and otherwise picks a random fallback.
func (d *AlertDispatcher) resolveLocation(loc *domain.Location) (domain.Location, error) {
	if loc != nil {
		return *loc, nil
	}
	if len(d.fallbacks) == 0 {
		return domain.Location{}, domain.NewDispatchFailedError(errors.New("no location reported and no fallback configured"))
	}
	d.mu.Lock()
	i := d.rnd.Intn(len(d.fallbacks))
	d.mu.Unlock()
	return d.fallbacks[i], nil
}

func (d *AlertDispatcher) Dispatch(ctx context.Context, loc *domain.Location) (int, error) {
	if len(d.recipients) == 0 {
		return 0, domain.NewDispatchFailedError(errors.New("no recipients configured"))
	}
	target, err := d.resolveLocation(loc)
	if err != nil {
		return 0, err
	}
	message := domain.BuildAlertMessage(target)

	var (
		mu      sync.Mutex
		sent    int
		failure []error
	)
	var g errgroup.Group
	g.SetLimit(maxParallelSends)
	for _, recipient := range d.recipients {
		recipient := recipient
		g.Go(func() error {
			err := d.sendWithRetry(ctx, recipient, message)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failure = append(failure, fmt.Errorf("recipient %s: %w", recipient, err))
				return nil
			}
			sent++
			return nil
		})
	}
	_ = g.Wait()

	if len(failure) > 0 {
		logger.Get().Error("Alert dispatch incomplete",
			zap.Int("sent", sent),
			zap.Int("failed", len(failure)))
		return sent, domain.NewDispatchFailedError(errors.Join(failure...))
	}
	logger.Get().Info("Alert dispatched", zap.Int("recipients", sent))
	return sent, nil
}

func (d *AlertDispatcher) sendWithRetry(ctx context.Context, recipient, message string) error {
	var lastErr error
	for attempt := 1; attempt <= d.attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = d.notifier.Send(ctx, recipient, message)
		if lastErr == nil {
			return nil
		}
		logger.Get().Warn("Alert send failed",
			zap.String("recipient", recipient),
			zap.Int("attempt", attempt),
			zap.Error(lastErr))
		if attempt == d.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.delay):
		}
	}
	return lastErr
}
