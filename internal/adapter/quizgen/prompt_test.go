package quizgen

import (
	"testing"

	"quiz-sentinel/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(domain.QuizConfig{Topic: "Python Basics", Difficulty: "easy", QuizCount: 5})

	assert.Contains(t, prompt, `Generate 5 multiple-choice questions on the topic: "Python Basics".`)
	assert.Contains(t, prompt, "Difficulty level: easy.")
	assert.Contains(t, prompt, "EXACTLY ONE category may have 1 question")
	assert.Contains(t, prompt, `"[Category: <category_name>] Question text here"`)
	assert.NotContains(t, prompt, "FOCUS RULE")
	assert.NotContains(t, prompt, "Allowed categories")
}

func TestBuildPrompt_Focus(t *testing.T) {
	prompt := BuildPrompt(domain.QuizConfig{
		Topic:           "Python Basics",
		Difficulty:      "medium",
		QuizCount:       4,
		FocusCategories: []string{" loops ", "", "Data Structures"},
	})

	assert.Contains(t, prompt, "IMPORTANT FOCUS RULE (APPLIES STRICTLY):")
	assert.Contains(t, prompt, `The only allowed category names are: "loops", "Data Structures".`)
	assert.Contains(t, prompt, `Allowed categories (strict): "loops", "Data Structures"`)
}
