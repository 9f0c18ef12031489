package domain

import (
	"context"
	"time"
)

// RunRecord is one graded quiz round kept in a session's history.
type RunRecord struct {
	ID            string         `json:"id"`
	SessionID     string         `json:"session_id"`
	Config        QuizConfig     `json:"config"`
	CategoryStats []CategoryStat `json:"category_stats"`
	ScorePercent  float64        `json:"score_percent"`
	Timestamp     time.Time      `json:"timestamp"`
}

// SessionSummary aggregates category performance across every run in a session.
type SessionSummary struct {
	SessionID        string         `json:"session_id,omitempty"`
	Runs             int            `json:"runs"`
	Categories       []CategoryStat `json:"categories"`
	EqualPerformance bool           `json:"equal_performance"`
	EqualPercent     float64        `json:"equal_percent"`
	BestCategories   []string       `json:"best_categories,omitempty"`
	WeakCategories   []string       `json:"weak_categories,omitempty"`
}

// AggregateSession sums category totals over runs, keeping first-appearance order.
func AggregateSession(runs []RunRecord) *SessionSummary {
	summary := &SessionSummary{Runs: len(runs), Categories: []CategoryStat{}}
	if len(runs) == 0 {
		return summary
	}
	summary.SessionID = runs[0].SessionID

	index := make(map[string]int)
	for _, run := range runs {
		for _, s := range run.CategoryStats {
			pos, ok := index[s.Category]
			if !ok {
				pos = len(summary.Categories)
				index[s.Category] = pos
				summary.Categories = append(summary.Categories, CategoryStat{Category: s.Category})
			}
			summary.Categories[pos].Total += s.Total
			summary.Categories[pos].Correct += s.Correct
		}
	}

	fillPercents(summary.Categories)
	summary.EqualPerformance, summary.EqualPercent, summary.BestCategories, summary.WeakCategories = rankCategories(summary.Categories)
	return summary
}

// SessionHistory stores the runs of short-lived quiz sessions.
type SessionHistory interface {
	AppendRun(ctx context.Context, run *RunRecord) error
	ListRuns(ctx context.Context, sessionID string) ([]RunRecord, error)
	SaveLastConfig(ctx context.Context, sessionID string, cfg QuizConfig) error
	LastConfig(ctx context.Context, sessionID string) (*QuizConfig, error)
}

// RunRepository persists graded runs durably.
type RunRepository interface {
	SaveRun(ctx context.Context, run *RunRecord) error
	ListRunsBySession(ctx context.Context, sessionID string) ([]RunRecord, error)
}
