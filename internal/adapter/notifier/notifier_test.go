package notifier

import (
	"context"
	"errors"
	"testing"

	"quiz-sentinel/internal/config"
	"quiz-sentinel/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func TestTelegramNotifier_Send(t *testing.T) {
	sender := &fakeSender{}
	n := &TelegramNotifier{bot: sender}

	err := n.Send(context.Background(), " 123456 ", "help")

	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, int64(123456), sender.sent[0].ChatID)
	assert.Equal(t, "help", sender.sent[0].Text)
}

func TestTelegramNotifier_Errors(t *testing.T) {
	n := &TelegramNotifier{bot: &fakeSender{}}
	err := n.Send(context.Background(), "+91 555", "help")
	assert.True(t, domain.HasCode(err, domain.ErrInvalidInput))

	apiErr := errors.New("Too Many Requests: retry after 3")
	n = &TelegramNotifier{bot: &fakeSender{err: apiErr}}
	err = n.Send(context.Background(), "1", "help")
	assert.ErrorIs(t, err, apiErr)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Send(ctx, "1", "help"), context.Canceled)
}

func TestLogNotifier_Send(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.Send(context.Background(), "111", "EMERGENCY"))

	entries := logs.FilterMessage("Alert notification").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "111", entries[0].ContextMap()["recipient"])
}

func TestNew(t *testing.T) {
	n, err := New(config.NotifierConfig{Kind: "log"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LogNotifier{}, n)

	_, err = New(config.NotifierConfig{Kind: "telegram"}, zap.NewNop())
	assert.Error(t, err, "token is required")

	_, err = New(config.NotifierConfig{Kind: "pigeon"}, zap.NewNop())
	assert.Error(t, err)
}
