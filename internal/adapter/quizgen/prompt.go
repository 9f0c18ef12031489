package quizgen

import (
	"fmt"
	"strings"

	"quiz-sentinel/internal/domain"
)

const focusRuleTemplate = `
IMPORTANT FOCUS RULE (APPLIES STRICTLY):
- The only allowed category names are: %s.
- EVERY question MUST use exactly one of those names in BOTH places:
    1) the question text at the beginning in the exact format: "[Category: <exact_name>]"
    2) the JSON field "category" which must equal the exact same <exact_name>.
- DO NOT introduce, synonymize, or substitute categories (e.g., if "Data Structures" is allowed, DO NOT emit "lists", "arrays", etc.).
- If you cannot produce a question that matches an allowed category exactly, skip/regenerate.
`

const promptTemplate = `
You are a quiz generator.

Generate %d multiple-choice questions on the topic: "%s".
Difficulty level: %s.
%s
CATEGORY RULE (very important):
- Use as FEW distinct categories as possible.
- Each category should have AT LEAST 2 questions.
- EXCEPTION: If the total number of questions is odd, then EXACTLY ONE category may have 1 question.

For EACH question:
1. Assign a short conceptual category.
2. The category MUST be INCLUDED at the beginning of the question text itself in this exact format:
   "[Category: <category_name>] Question text here"

Return STRICTLY a JSON array with this structure, and no other text:

[
  {
    "question": "[Category: lists] Which method is used to add an element to a Python list?",
    "options": ["append()", "add()", "insert()", "extend()"],
    "answer": "append()",
    "explanation": "append() adds one element at the end of the list",
    "category": "lists"
  },
  ...
]
%s`

// BuildPrompt renders the generation prompt for cfg. A focus list adds the strict
// allowed-category rule and a closing reminder of the allowed names.
func BuildPrompt(cfg domain.QuizConfig) string {
	focusRule, allowedNote := "", ""
	if allowed := domain.ParseFocusCategories(cfg.FocusCategories); len(allowed) > 0 {
		quoted := make([]string, len(allowed))
		for i, name := range allowed {
			quoted[i] = fmt.Sprintf("%q", name)
		}
		list := strings.Join(quoted, ", ")
		focusRule = fmt.Sprintf(focusRuleTemplate, list)
		allowedNote = fmt.Sprintf("\nAllowed categories (strict): %s\n", list)
	}
	return fmt.Sprintf(promptTemplate, cfg.QuizCount, cfg.Topic, cfg.Difficulty, focusRule, allowedNote)
}
