// Package notifier holds the domain.Notifier implementations used for alert delivery.
package notifier

import (
	"fmt"

	"quiz-sentinel/internal/config"
	"quiz-sentinel/internal/domain"

	"go.uber.org/zap"
)

// New picks the notifier configured by cfg.Kind ("telegram" or "log").
func New(cfg config.NotifierConfig, logger *zap.Logger) (domain.Notifier, error) {
	switch cfg.Kind {
	case "telegram":
		return NewTelegramNotifier(cfg.TelegramToken)
	case "log", "":
		return NewLogNotifier(logger), nil
	default:
		return nil, fmt.Errorf("unsupported notifier kind %q", cfg.Kind)
	}
}
