package notifier

import (
	"context"

	"quiz-sentinel/internal/domain"

	"go.uber.org/zap"
)

// LogNotifier writes alerts to the log instead of delivering them.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, recipient, message string) error {
	n.logger.Warn("Alert notification", zap.String("recipient", recipient), zap.String("message", message))
	return nil
}

var _ domain.Notifier = (*LogNotifier)(nil)
