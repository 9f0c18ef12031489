package quizgen

import (
	"context"
	"fmt"
	"net/http"

	"quiz-sentinel/internal/config"
	"quiz-sentinel/internal/domain"

	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// NewQuestionSource builds the source selected by cfg.Provider.
func NewQuestionSource(ctx context.Context, cfg config.LLMConfig) (domain.QuestionSource, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiSource(ctx, cfg.APIKey, cfg.Model)

	case "ollama":
		llm, err := ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
		return NewLangchainSource(llm, "ollama"), nil

	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai API key is required")
		}
		llm, err := openai.New(
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
			openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai client: %w", err)
		}
		return NewLangchainSource(llm, "openai"), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}
