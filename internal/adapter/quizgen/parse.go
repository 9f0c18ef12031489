package quizgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quiz-sentinel/internal/domain"
)

// ErrNoJSONArray is wrapped into MALFORMED_MODEL_OUTPUT when the reply holds no array.
var ErrNoJSONArray = errors.New("could not find a JSON array in model output")

// stripThinking drops a leading <think>...</think> block some reasoning models emit.
func stripThinking(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "<think>"); start != -1 {
		if end := strings.Index(s, "</think>"); end > start {
			s = s[:start] + s[end+len("</think>"):]
		}
	}
	return strings.TrimSpace(s)
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSONArray returns the text from the first "[" to the last "]".
func ExtractJSONArray(text string) (string, error) {
	text = strings.TrimSpace(text)
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return "", ErrNoJSONArray
	}
	return text[start : end+1], nil
}

// ParseQuestions turns a raw model reply into a question batch.
// Any failure is reported as MALFORMED_MODEL_OUTPUT.
func ParseQuestions(raw string) (domain.QuizBatch, error) {
	arr, err := ExtractJSONArray(stripCodeFences(stripThinking(raw)))
	if err != nil {
		return nil, domain.NewMalformedOutputError(err)
	}

	var batch domain.QuizBatch
	if err := json.Unmarshal([]byte(arr), &batch); err != nil {
		return nil, domain.NewMalformedOutputError(fmt.Errorf("failed to unmarshal question list: %w", err))
	}

	out := batch[:0]
	for _, q := range batch {
		if q != nil {
			out = append(out, q)
		}
	}
	return out, nil
}
