package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStepOptions(t *testing.T) {
	assert.Equal(t, MenuContinue, NextStepOptions(nil))
	assert.Equal(t, MenuEqual, NextStepOptions(&ProgressReport{EqualPerformance: true}))
	assert.Equal(t, MenuWeak, NextStepOptions(&ProgressReport{WeakCategories: []string{"loops"}}))
	assert.Equal(t, MenuContinue, NextStepOptions(&ProgressReport{}))
}

func TestPlanNextRound(t *testing.T) {
	prev := &QuizConfig{Topic: "Python Basics", Difficulty: DifficultyHard, QuizCount: 6, FocusCategories: []string{"lists"}}
	equal := &ProgressReport{EqualPerformance: true, EqualPercent: 50}
	weak := &ProgressReport{WeakCategories: []string{"loops", "sets"}, BestCategories: []string{"lists"}}

	t.Run("same topic copies previous config", func(t *testing.T) {
		next, redirect, err := PlanNextRound(prev, equal, NextStepDecision{Action: ActionSameTopic})
		require.NoError(t, err)
		assert.True(t, redirect)
		assert.Equal(t, *prev, *next)

		next.FocusCategories[0] = "changed"
		assert.Equal(t, "lists", prev.FocusCategories[0])
	})

	t.Run("same topic without previous config asks again", func(t *testing.T) {
		next, redirect, err := PlanNextRound(nil, &ProgressReport{}, NextStepDecision{Action: ActionSameTopic})
		require.NoError(t, err)
		assert.True(t, redirect)
		assert.Nil(t, next)
	})

	t.Run("next topic", func(t *testing.T) {
		next, redirect, err := PlanNextRound(prev, equal, NextStepDecision{
			Action: ActionNextTopic, Topic: "  Kinematics ", Difficulty: "", QuizCount: 4,
		})
		require.NoError(t, err)
		assert.True(t, redirect)
		assert.Equal(t, QuizConfig{Topic: "Kinematics", Difficulty: DifficultyMedium, QuizCount: 4}, *next)
	})

	t.Run("next topic rejects a topic without letters", func(t *testing.T) {
		_, _, err := PlanNextRound(prev, equal, NextStepDecision{Action: ActionNextTopic, Topic: "123", QuizCount: 4})
		assert.True(t, HasCode(err, ErrInvalidInput))
	})

	t.Run("focus weak", func(t *testing.T) {
		next, redirect, err := PlanNextRound(prev, weak, NextStepDecision{
			Action: ActionFocusWeak, Difficulty: "impossible", QuizCount: 4,
		})
		require.NoError(t, err)
		assert.True(t, redirect)
		assert.Equal(t, QuizConfig{
			Topic:           "Python Basics",
			Difficulty:      DifficultyMedium,
			QuizCount:       4,
			FocusCategories: []string{"loops", "sets"},
		}, *next)
	})

	t.Run("focus weak without previous topic", func(t *testing.T) {
		next, _, err := PlanNextRound(nil, weak, NextStepDecision{Action: ActionFocusWeak, QuizCount: 2})
		require.NoError(t, err)
		assert.Equal(t, UnknownTopic, next.Topic)
	})

	t.Run("focus weak needs a count", func(t *testing.T) {
		_, _, err := PlanNextRound(prev, weak, NextStepDecision{Action: ActionFocusWeak})
		assert.True(t, HasCode(err, ErrInvalidInput))
	})

	t.Run("end", func(t *testing.T) {
		next, redirect, err := PlanNextRound(prev, weak, NextStepDecision{Action: ActionEnd})
		require.NoError(t, err)
		assert.False(t, redirect)
		assert.Nil(t, next)
	})

	t.Run("action outside the menu", func(t *testing.T) {
		_, _, err := PlanNextRound(prev, weak, NextStepDecision{Action: ActionNextTopic, Topic: "x", QuizCount: 1})
		assert.True(t, HasCode(err, ErrInvalidInput))

		_, _, err = PlanNextRound(prev, equal, NextStepDecision{Action: ActionFocusWeak, QuizCount: 1})
		assert.True(t, HasCode(err, ErrInvalidInput))
	})
}
