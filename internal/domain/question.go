package domain

import (
	"strings"
	"unicode"
)

// Question is one multiple-choice quiz item as produced by the model.
type Question struct {
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"answer"`
	Explanation   string   `json:"explanation"`
	Category      string   `json:"category"`
}

// QuizBatch is the ordered set of questions generated for one quiz round.
type QuizBatch []*Question

// Categories returns the category of every question, in batch order.
func (b QuizBatch) Categories() []string {
	out := make([]string, len(b))
	for i, q := range b {
		out[i] = q.Category
	}
	return out
}

const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// NormalizeDifficulty lower-cases d and falls back to medium for anything unknown.
func NormalizeDifficulty(d string) string {
	switch d = strings.ToLower(strings.TrimSpace(d)); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d
	default:
		return DifficultyMedium
	}
}

// QuizConfig describes one generation request.
type QuizConfig struct {
	Topic           string   `json:"topic"`
	Difficulty      string   `json:"difficulty"`
	QuizCount       int      `json:"quiz_count"`
	FocusCategories []string `json:"focus_categories,omitempty"`
}

// Validate checks the fields a generation request cannot do without.
func (c *QuizConfig) Validate() error {
	if !IsMeaningfulTopic(c.Topic) {
		return NewInvalidInputError("topic must contain at least one letter")
	}
	if c.QuizCount <= 0 {
		return NewInvalidInputError("quiz_count must be a positive integer")
	}
	return nil
}

// Normalized returns a copy with trimmed topic, a known difficulty and a cleaned focus list.
func (c QuizConfig) Normalized() QuizConfig {
	c.Topic = strings.TrimSpace(c.Topic)
	c.Difficulty = NormalizeDifficulty(c.Difficulty)
	c.FocusCategories = ParseFocusCategories(c.FocusCategories)
	return c
}

// Clone returns a deep copy of the config.
func (c QuizConfig) Clone() QuizConfig {
	if c.FocusCategories != nil {
		c.FocusCategories = append([]string(nil), c.FocusCategories...)
	}
	return c
}

// IsMeaningfulTopic reports whether topic has at least one letter.
func IsMeaningfulTopic(topic string) bool {
	topic = strings.TrimSpace(topic)
	for _, r := range topic {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
