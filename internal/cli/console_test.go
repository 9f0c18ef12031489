package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quiz-sentinel/internal/config"
	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedSource struct {
	configs []domain.QuizConfig
	err     error
}

func (s *scriptedSource) GenerateQuestions(_ context.Context, cfg domain.QuizConfig) (domain.QuizBatch, error) {
	s.configs = append(s.configs, cfg)
	if s.err != nil {
		return nil, s.err
	}
	return domain.QuizBatch{
		{Text: "[Category: lists] Which adds an item?", Options: []string{"a", "b"}, CorrectAnswer: "a"},
		{Text: "[Category: lists] Which removes the last item?", Options: []string{"a", "b"}, CorrectAnswer: "b"},
		{Text: "[Category: loops] Which keyword loops?", Options: []string{"a", "b"}, CorrectAnswer: "a"},
		{Text: "[Category: loops] Which keyword exits a loop?", Options: []string{"a", "b"}, CorrectAnswer: "b", Explanation: "break leaves the loop"},
	}, nil
}

func newTestConsole(source domain.QuestionSource, input, historyFile string) (*Console, *bytes.Buffer) {
	quiz := service.NewQuizService(source, service.NewSessionHistoryService(nil, 0), nil, config.QuizConfig{})
	out := new(bytes.Buffer)
	return NewConsole(quiz, strings.NewReader(input), out, historyFile), out
}

func TestConsole_FocusedFollowUp(t *testing.T) {
	source := &scriptedSource{}
	historyFile := filepath.Join(t.TempDir(), "session_history.json")
	script := strings.Join([]string{
		"123", "Python", "easy", "x", "4", // config with two retries
		"1", "9", "2", "1", "1", // first round, one invalid option
		"y", "2", "", // focus on the weak category
		"1", "1", "1", "1", // second round
		"3", // end from the equal menu
	}, "\n") + "\n"
	console, out := newTestConsole(source, script, historyFile)

	require.NoError(t, console.Run(context.Background()))

	text := out.String()
	assert.Contains(t, text, "Invalid topic. Please enter a meaningful topic name")
	assert.Contains(t, text, "Invalid number. Please enter a positive integer (e.g., 5, 10).")
	assert.Contains(t, text, "Invalid choice, please try again.")
	assert.Contains(t, text, "You answered 3/4 correctly. Score: 75.00%")
	assert.Contains(t, text, "- loops: 1/2 correct (50.00%)")
	assert.Contains(t, text, "We detected weakest category/categories:\n  - loops")
	assert.Contains(t, text, "Will generate a focused quiz on the weak categories.")
	assert.Contains(t, text, "Explanation   : break leaves the loop")
	assert.Contains(t, text, "Your performance is equal across all categories (~50.00%).")
	assert.Contains(t, text, "Ending the session. Goodbye!")
	assert.Contains(t, text, "=== SESSION AGGREGATED CATEGORY PERFORMANCE ===")
	assert.Contains(t, text, "- loops: 3/6 correct (50.00%)")
	assert.Contains(t, text, "Session best category/categories:\n  • lists (100.00%)")

	require.Len(t, source.configs, 2)
	assert.Equal(t, domain.QuizConfig{Topic: "Python", Difficulty: "easy", QuizCount: 4}, source.configs[0])
	assert.Equal(t, domain.QuizConfig{
		Topic: "Python", Difficulty: "medium", QuizCount: 2, FocusCategories: []string{"loops"},
	}, source.configs[1])

	raw, err := os.ReadFile(historyFile)
	require.NoError(t, err)
	var history []HistoryEntry
	require.NoError(t, json.Unmarshal(raw, &history))
	require.Len(t, history, 2)
	assert.InDelta(t, 75.0, history[0].ScorePercent, 1e-9)
	assert.NotEmpty(t, console.SessionID())
}

func TestConsole_SameTopicRepeat(t *testing.T) {
	source := &scriptedSource{}
	script := strings.Join([]string{
		"Go", "hard", "4",
		"1", "2", "1", "2", // all correct
		"1", // same topic
		"1", "2", "1", "2",
		"3",
	}, "\n") + "\n"
	console, out := newTestConsole(source, script, "")

	require.NoError(t, console.Run(context.Background()))

	require.Len(t, source.configs, 2)
	assert.Equal(t, source.configs[0], source.configs[1])
	assert.Contains(t, out.String(), "Preparing another quiz with same configuration.")
	assert.Contains(t, out.String(), "All categories have equal performance ~100.00%.")
	assert.NotContains(t, out.String(), "Saved session run-by-run history")
}

func TestConsole_GenerationFailure(t *testing.T) {
	source := &scriptedSource{err: errors.New("quota exceeded")}
	console, out := newTestConsole(source, "Go\nmedium\n3\n", "")

	require.NoError(t, console.Run(context.Background()))

	assert.Contains(t, out.String(), "ERROR: ")
	assert.Contains(t, out.String(), "No quizzes were taken this session.")
}

func TestConsole_InputClosed(t *testing.T) {
	console, _ := newTestConsole(&scriptedSource{}, "Go\n", "")

	err := console.Run(context.Background())

	assert.ErrorIs(t, err, ErrInputClosed)
}
