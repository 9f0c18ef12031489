package notifier

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"quiz-sentinel/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// messageSender is the subset of *tgbotapi.BotAPI used here.
type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier sends alerts as Telegram messages. Recipients are chat IDs.
type TelegramNotifier struct {
	bot messageSender
}

// NewTelegramNotifier authenticates the bot token against the Telegram API.
func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot}, nil
}

func (n *TelegramNotifier) Send(ctx context.Context, recipient, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chatID, err := strconv.ParseInt(strings.TrimSpace(recipient), 10, 64)
	if err != nil {
		return domain.NewInvalidInputError(fmt.Sprintf("recipient %q is not a telegram chat id", recipient))
	}
	if _, err := n.bot.Send(tgbotapi.NewMessage(chatID, message)); err != nil {
		return fmt.Errorf("telegram send to %d: %w", chatID, err)
	}
	return nil
}

var _ domain.Notifier = (*TelegramNotifier)(nil)
