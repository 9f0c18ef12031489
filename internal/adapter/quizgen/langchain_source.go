package quizgen

import (
	"context"
	"time"

	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// LangchainSource generates questions through any langchaingo model (Ollama, OpenAI).
type LangchainSource struct {
	llm         llms.Model
	provider    string
	temperature float64
	attempts    int
}

// NewLangchainSource wraps llm. provider is only used for logging.
func NewLangchainSource(llm llms.Model, provider string) *LangchainSource {
	return &LangchainSource{
		llm:         llm,
		provider:    provider,
		temperature: 0.4,
		attempts:    defaultAttempts,
	}
}

// GenerateQuestions sends the prompt as a single human message and parses the reply.
func (s *LangchainSource) GenerateQuestions(ctx context.Context, cfg domain.QuizConfig) (domain.QuizBatch, error) {
	l := logger.Get()
	prompt := BuildPrompt(cfg)
	start := time.Now()

	raw, err := callWithRetry(ctx, s.provider, s.attempts, func(ctx context.Context) (string, error) {
		return llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(s.temperature))
	})
	if err != nil {
		l.Error("LLM generation failed", zap.String("provider", s.provider), zap.Error(err))
		return nil, domain.NewGenerationFailedError(err)
	}
	l.Debug("Raw LLM response received", zap.String("raw_response", raw))

	batch, err := ParseQuestions(raw)
	if err != nil {
		l.Error("LLM returned malformed output", zap.String("provider", s.provider), zap.Error(err))
		return nil, err
	}

	l.Info("Generated questions",
		zap.String("provider", s.provider),
		zap.Int("requested", cfg.QuizCount),
		zap.Int("received", len(batch)),
		zap.Duration("elapsed", time.Since(start)))
	return batch, nil
}

var _ domain.QuestionSource = (*LangchainSource)(nil)
