package domain

import "context"

// GradeRequest carries everything needed to grade one round.
type GradeRequest struct {
	SessionID string     `json:"session_id"`
	Config    QuizConfig `json:"config"`
	Questions QuizBatch  `json:"questions"`
	Answers   []string   `json:"answers"`
}

// GradeResult is the outcome of grading one round.
type GradeResult struct {
	SessionID string          `json:"session_id"`
	RunID     string          `json:"run_id"`
	Report    *ProgressReport `json:"report"`
	Progress  ProgressCheck   `json:"progress"`
	NextStep  NextStepMenu    `json:"next_step"`
}

// QuizService is the quiz pipeline as seen by the HTTP and CLI layers.
type QuizService interface {
	// GenerateQuiz validates cfg, asks the question source and returns a balanced batch.
	GenerateQuiz(ctx context.Context, cfg QuizConfig) (QuizBatch, error)

	// GradeQuiz scores the answers and records the run in the session history.
	GradeQuiz(ctx context.Context, req GradeRequest) (*GradeResult, error)

	// PlanNext resolves a follow-up decision against the session's last round.
	PlanNext(ctx context.Context, sessionID string, report *ProgressReport, d NextStepDecision) (*QuizConfig, bool, error)

	// SessionReport aggregates every recorded run of a session.
	SessionReport(ctx context.Context, sessionID string) (*SessionSummary, error)
}

// AlertController drives panic-button sessions.
type AlertController interface {
	Activate(ctx context.Context) (*AlertSession, error)
	SetPasscode(ctx context.Context, sessionID, passcode string) (*AlertSession, error)
	Verify(ctx context.Context, sessionID, passcode string) (*AlertSession, bool, error)
	UpdateLocation(ctx context.Context, sessionID string, loc Location) (*AlertSession, error)
	Status(ctx context.Context, sessionID string) (*AlertSession, error)
}
