package domain

import "math"

// DefaultPassThreshold is the score percent at or above which a quiz counts as passed.
const DefaultPassThreshold = 60.0

// percentTolerance is how close two percentages must be to count as equal.
const percentTolerance = 1e-9

// CategoryStat holds per-category totals for one quiz or a whole session.
type CategoryStat struct {
	Category string  `json:"category"`
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Percent  float64 `json:"percent"`
}

// AnswerDetail is the graded outcome of a single question.
type AnswerDetail struct {
	Question      string `json:"question"`
	Category      string `json:"category"`
	CorrectAnswer string `json:"correct_answer"`
	UserAnswer    string `json:"user_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation,omitempty"`
}

// ProgressReport is the result of grading one quiz round.
type ProgressReport struct {
	TotalQuestions   int            `json:"total_questions"`
	CorrectCount     int            `json:"correct_count"`
	ScorePercent     float64        `json:"score_percent"`
	Details          []AnswerDetail `json:"details"`
	CategoryStats    []CategoryStat `json:"category_stats"`
	EqualPerformance bool           `json:"equal_performance"`
	EqualPercent     float64        `json:"equal_percent"`
	WeakCategories   []string       `json:"weak_categories,omitempty"`
	BestCategories   []string       `json:"best_categories,omitempty"`
}

// ProgressCheck compares a score against the pass threshold.
type ProgressCheck struct {
	ScorePercent float64 `json:"score_percent"`
	Threshold    float64 `json:"threshold"`
	Passed       bool    `json:"passed"`
}

// Grade scores answers against batch. Only the first min(len(batch), len(answers))
// questions are graded; answers are compared to CorrectAnswer verbatim.
func Grade(batch QuizBatch, answers []string) *ProgressReport {
	total := min(len(batch), len(answers))
	report := &ProgressReport{
		TotalQuestions: total,
		Details:        make([]AnswerDetail, 0, total),
	}

	index := make(map[string]int)
	for i := 0; i < total; i++ {
		q := batch[i]
		category := q.Category
		if category == "" {
			category = Uncategorized
		}
		correct := answers[i] == q.CorrectAnswer
		if correct {
			report.CorrectCount++
		}

		pos, ok := index[category]
		if !ok {
			pos = len(report.CategoryStats)
			index[category] = pos
			report.CategoryStats = append(report.CategoryStats, CategoryStat{Category: category})
		}
		report.CategoryStats[pos].Total++
		if correct {
			report.CategoryStats[pos].Correct++
		}

		report.Details = append(report.Details, AnswerDetail{
			Question:      q.Text,
			Category:      category,
			CorrectAnswer: q.CorrectAnswer,
			UserAnswer:    answers[i],
			IsCorrect:     correct,
			Explanation:   q.Explanation,
		})
	}

	report.ScorePercent = percent(report.CorrectCount, total)
	fillPercents(report.CategoryStats)
	report.EqualPerformance, report.EqualPercent, report.BestCategories, report.WeakCategories = rankCategories(report.CategoryStats)
	return report
}

// CheckProgress reports whether score reaches threshold.
func CheckProgress(score, threshold float64) ProgressCheck {
	return ProgressCheck{
		ScorePercent: score,
		Threshold:    threshold,
		Passed:       score >= threshold,
	}
}

func percent(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total) * 100
}

func fillPercents(stats []CategoryStat) {
	for i := range stats {
		stats[i].Percent = percent(stats[i].Correct, stats[i].Total)
	}
}

// rankCategories finds the best and weakest categories by percent. When every category
// scores the same, equal is true and best/weak are left empty.
func rankCategories(stats []CategoryStat) (equal bool, equalPct float64, best, weak []string) {
	if len(stats) == 0 {
		return false, 0, nil, nil
	}

	maxPct, minPct := stats[0].Percent, stats[0].Percent
	for _, s := range stats[1:] {
		maxPct = math.Max(maxPct, s.Percent)
		minPct = math.Min(minPct, s.Percent)
	}
	if math.Abs(maxPct-minPct) < percentTolerance {
		return true, maxPct, nil, nil
	}

	for _, s := range stats {
		if math.Abs(s.Percent-maxPct) < percentTolerance {
			best = append(best, s.Category)
		}
		if math.Abs(s.Percent-minPct) < percentTolerance {
			weak = append(weak, s.Category)
		}
	}
	return false, 0, best, weak
}
