package quizgen

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the part of *genai.Models the source needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiSource generates questions with the Gemini API.
type GeminiSource struct {
	models   contentGenerator
	model    string
	attempts int
}

// NewGeminiSource creates a Gemini client for apiKey.
func NewGeminiSource(ctx context.Context, apiKey, model string) (*GeminiSource, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGeminiSource(client.Models, model), nil
}

func newGeminiSource(models contentGenerator, model string) *GeminiSource {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiSource{models: models, model: model, attempts: defaultAttempts}
}

// GenerateQuestions asks Gemini for a JSON question list and parses it.
func (s *GeminiSource) GenerateQuestions(ctx context.Context, cfg domain.QuizConfig) (domain.QuizBatch, error) {
	l := logger.Get()
	prompt := BuildPrompt(cfg)
	start := time.Now()

	raw, err := callWithRetry(ctx, "gemini", s.attempts, func(ctx context.Context) (string, error) {
		resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(prompt), &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		})
		if err != nil {
			return "", err
		}
		text := resp.Text()
		if text == "" {
			return "", errors.New("empty response")
		}
		return text, nil
	})
	if err != nil {
		l.Error("Gemini generation failed", zap.String("model", s.model), zap.Error(err))
		return nil, domain.NewGenerationFailedError(err)
	}

	batch, err := ParseQuestions(raw)
	if err != nil {
		l.Error("Gemini returned malformed output", zap.String("raw", raw), zap.Error(err))
		return nil, err
	}

	l.Info("Generated questions",
		zap.String("provider", "gemini"),
		zap.String("model", s.model),
		zap.Int("requested", cfg.QuizCount),
		zap.Int("received", len(batch)),
		zap.Duration("elapsed", time.Since(start)))
	return batch, nil
}

var _ domain.QuestionSource = (*GeminiSource)(nil)
