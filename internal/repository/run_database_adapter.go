package repository

import (
	"context"
	"fmt"

	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// RunDatabaseAdapter implements domain.RunRepository on Oracle through sqlx.
type RunDatabaseAdapter struct {
	db *sqlx.DB
	tm domain.TransactionManager
}

func NewRunDatabaseAdapter(db *sqlx.DB, tm domain.TransactionManager) domain.RunRepository {
	return &RunDatabaseAdapter{db: db, tm: tm}
}

const insertRunQuery = `INSERT INTO quiz_runs
	(id, session_id, topic, difficulty, quiz_count, focus_categories, score_percent, created_at)
	VALUES (:id, :session_id, :topic, :difficulty, :quiz_count, :focus_categories, :score_percent, :created_at)`

const insertRunCategoryQuery = `INSERT INTO quiz_run_categories
	(run_id, position, category, total, correct)
	VALUES (:run_id, :position, :category, :total, :correct)`

// SaveRun writes the run and its category rows in one transaction.
func (a *RunDatabaseAdapter) SaveRun(ctx context.Context, run *domain.RunRecord) error {
	runModel, categoryModels := fromDomainRun(run)

	return a.tm.WithTransaction(ctx, func(txCtx context.Context) error {
		exec := GetExecutor(txCtx, a.db)
		if _, err := exec.NamedExecContext(txCtx, insertRunQuery, runModel); err != nil {
			return fmt.Errorf("failed to insert quiz run %s: %w", run.ID, err)
		}
		for i := range categoryModels {
			if _, err := exec.NamedExecContext(txCtx, insertRunCategoryQuery, &categoryModels[i]); err != nil {
				return fmt.Errorf("failed to insert category %q for run %s: %w", categoryModels[i].Category, run.ID, err)
			}
		}
		return nil
	})
}

// ListRunsBySession returns a session's runs oldest first.
func (a *RunDatabaseAdapter) ListRunsBySession(ctx context.Context, sessionID string) ([]domain.RunRecord, error) {
	exec := GetExecutor(ctx, a.db)

	var runs []models.QuizRun
	runQuery := `SELECT
		id "id",
		session_id "session_id",
		topic "topic",
		difficulty "difficulty",
		quiz_count "quiz_count",
		focus_categories "focus_categories",
		score_percent "score_percent",
		created_at "created_at"
	FROM quiz_runs
	WHERE session_id = :1
	ORDER BY created_at, id`
	if err := exec.SelectContext(ctx, &runs, runQuery, sessionID); err != nil {
		return nil, fmt.Errorf("failed to list runs for session %s: %w", sessionID, err)
	}
	if len(runs) == 0 {
		return []domain.RunRecord{}, nil
	}

	var categories []models.QuizRunCategory
	categoryQuery := `SELECT
		c.run_id "run_id",
		c.position "position",
		c.category "category",
		c.total "total",
		c.correct "correct"
	FROM quiz_run_categories c
	JOIN quiz_runs r ON r.id = c.run_id
	WHERE r.session_id = :1
	ORDER BY c.run_id, c.position`
	if err := exec.SelectContext(ctx, &categories, categoryQuery, sessionID); err != nil {
		return nil, fmt.Errorf("failed to list run categories for session %s: %w", sessionID, err)
	}

	byRun := make(map[string][]models.QuizRunCategory, len(runs))
	for _, c := range categories {
		byRun[c.RunID] = append(byRun[c.RunID], c)
	}

	out := make([]domain.RunRecord, 0, len(runs))
	for i := range runs {
		out = append(out, toDomainRun(&runs[i], byRun[runs[i].ID]))
	}
	return out, nil
}

func fromDomainRun(run *domain.RunRecord) (*models.QuizRun, []models.QuizRunCategory) {
	runModel := &models.QuizRun{
		ID:              run.ID,
		SessionID:       run.SessionID,
		Topic:           run.Config.Topic,
		Difficulty:      run.Config.Difficulty,
		QuizCount:       run.Config.QuizCount,
		FocusCategories: models.StringSlice(run.Config.FocusCategories),
		ScorePercent:    run.ScorePercent,
		CreatedAt:       run.Timestamp,
	}
	categories := make([]models.QuizRunCategory, len(run.CategoryStats))
	for i, s := range run.CategoryStats {
		categories[i] = models.QuizRunCategory{
			RunID:    run.ID,
			Position: i,
			Category: s.Category,
			Total:    s.Total,
			Correct:  s.Correct,
		}
	}
	return runModel, categories
}

func toDomainRun(m *models.QuizRun, categories []models.QuizRunCategory) domain.RunRecord {
	run := domain.RunRecord{
		ID:        m.ID,
		SessionID: m.SessionID,
		Config: domain.QuizConfig{
			Topic:      m.Topic,
			Difficulty: m.Difficulty,
			QuizCount:  m.QuizCount,
		},
		ScorePercent:  m.ScorePercent,
		Timestamp:     m.CreatedAt,
		CategoryStats: make([]domain.CategoryStat, 0, len(categories)),
	}
	if len(m.FocusCategories) > 0 {
		run.Config.FocusCategories = []string(m.FocusCategories)
	}
	for _, c := range categories {
		stat := domain.CategoryStat{Category: c.Category, Total: c.Total, Correct: c.Correct}
		if c.Total > 0 {
			stat.Percent = float64(c.Correct) / float64(c.Total) * 100
		}
		run.CategoryStats = append(run.CategoryStats, stat)
	}
	return run
}
