package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateSession(t *testing.T) {
	runs := []RunRecord{
		{
			SessionID: "s1",
			CategoryStats: []CategoryStat{
				{Category: "lists", Total: 2, Correct: 2},
				{Category: "loops", Total: 2, Correct: 0},
			},
			Timestamp: time.Now(),
		},
		{
			SessionID: "s1",
			CategoryStats: []CategoryStat{
				{Category: "loops", Total: 2, Correct: 1},
				{Category: "sets", Total: 2, Correct: 2},
			},
		},
	}

	summary := AggregateSession(runs)

	assert.Equal(t, "s1", summary.SessionID)
	assert.Equal(t, 2, summary.Runs)
	require.Len(t, summary.Categories, 3)
	assert.Equal(t, CategoryStat{Category: "lists", Total: 2, Correct: 2, Percent: 100}, summary.Categories[0])
	assert.Equal(t, CategoryStat{Category: "loops", Total: 4, Correct: 1, Percent: 25}, summary.Categories[1])
	assert.Equal(t, []string{"lists", "sets"}, summary.BestCategories)
	assert.Equal(t, []string{"loops"}, summary.WeakCategories)
	assert.False(t, summary.EqualPerformance)
}

func TestAggregateSession_Equal(t *testing.T) {
	runs := []RunRecord{{CategoryStats: []CategoryStat{
		{Category: "a", Total: 3, Correct: 1},
		{Category: "b", Total: 6, Correct: 2},
	}}}

	summary := AggregateSession(runs)

	assert.True(t, summary.EqualPerformance)
	assert.InDelta(t, 100.0/3, summary.EqualPercent, 1e-9)
}

func TestAggregateSession_NoRuns(t *testing.T) {
	summary := AggregateSession(nil)

	assert.Zero(t, summary.Runs)
	assert.Empty(t, summary.Categories)
	assert.False(t, summary.EqualPerformance)
}
