package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"quiz-sentinel/internal/config"
	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/logger"
	"quiz-sentinel/internal/util"

	"go.uber.org/zap"
)

// quizService implements domain.QuizService.
type quizService struct {
	source        domain.QuestionSource
	history       domain.SessionHistory
	runs          domain.RunRepository
	passThreshold float64
	now           func() time.Time
}

// NewQuizService wires the pipeline. runs may be nil when no database is configured.
func NewQuizService(
	source domain.QuestionSource,
	history domain.SessionHistory,
	runs domain.RunRepository,
	cfg config.QuizConfig,
) domain.QuizService {
	threshold := cfg.PassThreshold
	if threshold <= 0 {
		threshold = domain.DefaultPassThreshold
	}
	return &quizService{
		source:        source,
		history:       history,
		runs:          runs,
		passThreshold: threshold,
		now:           time.Now,
	}
}

// GenerateQuiz implements domain.QuizService
func (s *quizService) GenerateQuiz(ctx context.Context, cfg domain.QuizConfig) (domain.QuizBatch, error) {
	l := logger.Get()
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	batch, err := s.source.GenerateQuestions(ctx, cfg)
	if err != nil {
		if _, ok := domain.AsDomainError(err); ok {
			return nil, err
		}
		return nil, domain.NewGenerationFailedError(err)
	}
	if len(batch) == 0 {
		return nil, domain.NewMalformedOutputError(errors.New("model returned no questions"))
	}
	generated := time.Since(start)

	domain.PrepareBatch(batch, cfg.FocusCategories)

	l.Info("Quiz generated",
		zap.String("topic", cfg.Topic),
		zap.String("difficulty", cfg.Difficulty),
		zap.Int("requested", cfg.QuizCount),
		zap.Int("questions", len(batch)),
		zap.Strings("focus", cfg.FocusCategories),
		zap.Strings("categories", batch.Categories()),
		zap.Duration("generation", generated),
		zap.Duration("balancing", time.Since(start)-generated))
	return batch, nil
}

// GradeQuiz implements domain.QuizService
func (s *quizService) GradeQuiz(ctx context.Context, req domain.GradeRequest) (*domain.GradeResult, error) {
	if len(req.Questions) == 0 {
		return nil, domain.NewInvalidInputError("questions must not be empty")
	}
	if len(req.Answers) == 0 {
		return nil, domain.NewInvalidInputError("answers must not be empty")
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = util.NewULID()
	}

	report := domain.Grade(req.Questions, req.Answers)
	progress := domain.CheckProgress(report.ScorePercent, s.passThreshold)
	cfg := req.Config.Normalized()

	run := &domain.RunRecord{
		ID:            util.NewULID(),
		SessionID:     sessionID,
		Config:        cfg,
		CategoryStats: report.CategoryStats,
		ScorePercent:  report.ScorePercent,
		Timestamp:     s.now().UTC(),
	}
	if err := s.history.AppendRun(ctx, run); err != nil {
		return nil, err
	}
	if err := s.history.SaveLastConfig(ctx, sessionID, cfg); err != nil {
		logger.Get().Warn("Failed to remember last quiz config", zap.String("session_id", sessionID), zap.Error(err))
	}
	if s.runs != nil {
		if err := s.runs.SaveRun(ctx, run); err != nil {
			logger.Get().Error("Failed to persist quiz run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}

	logger.Get().Info("Quiz graded",
		zap.String("session_id", sessionID),
		zap.String("run_id", run.ID),
		zap.Float64("score_percent", report.ScorePercent),
		zap.Bool("passed", progress.Passed))

	return &domain.GradeResult{
		SessionID: sessionID,
		RunID:     run.ID,
		Report:    report,
		Progress:  progress,
		NextStep:  domain.NextStepOptions(report),
	}, nil
}

// PlanNext implements domain.QuizService
func (s *quizService) PlanNext(ctx context.Context, sessionID string, report *domain.ProgressReport, d domain.NextStepDecision) (*domain.QuizConfig, bool, error) {
	prev, err := s.history.LastConfig(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	return domain.PlanNextRound(prev, report, d)
}

// SessionReport implements domain.QuizService
func (s *quizService) SessionReport(ctx context.Context, sessionID string) (*domain.SessionSummary, error) {
	runs, err := s.history.ListRuns(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 && s.runs != nil {
		runs, err = s.runs.ListRunsBySession(ctx, sessionID)
		if err != nil {
			return nil, domain.NewInternalError("failed to load session runs", err)
		}
	}
	if len(runs) == 0 {
		return nil, domain.NewNotFoundError("no quizzes recorded for session " + sessionID)
	}

	summary := domain.AggregateSession(runs)
	summary.SessionID = sessionID
	return summary, nil
}
