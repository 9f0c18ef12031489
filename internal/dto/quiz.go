package dto

import "quiz-sentinel/internal/domain"

// GenerateQuizRequest asks for a new batch of questions
// @Description Request body for generating a quiz
type GenerateQuizRequest struct {
	Topic           string   `json:"topic" example:"Python Basics"`
	Difficulty      string   `json:"difficulty" example:"medium"`
	QuizCount       int      `json:"quiz_count" example:"5"`
	FocusCategories []string `json:"focus_categories,omitempty"`
}

// ToConfig converts the request into a generation config.
func (r GenerateQuizRequest) ToConfig() domain.QuizConfig {
	return domain.QuizConfig{
		Topic:           r.Topic,
		Difficulty:      r.Difficulty,
		QuizCount:       r.QuizCount,
		FocusCategories: r.FocusCategories,
	}
}

// QuestionResponse is one generated question
type QuestionResponse struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Category    string   `json:"category"`
}

// GenerateQuizResponse is a balanced batch
// @Description Generated quiz batch
type GenerateQuizResponse struct {
	Config     domain.QuizConfig  `json:"config"`
	Questions  []QuestionResponse `json:"questions"`
	Categories []string           `json:"categories"`
}

// NewGenerateQuizResponse maps a batch to its response.
func NewGenerateQuizResponse(cfg domain.QuizConfig, batch domain.QuizBatch) GenerateQuizResponse {
	questions := make([]QuestionResponse, 0, len(batch))
	for _, q := range batch {
		questions = append(questions, QuestionResponse{
			Question:    q.Text,
			Options:     q.Options,
			Answer:      q.CorrectAnswer,
			Explanation: q.Explanation,
			Category:    q.Category,
		})
	}
	return GenerateQuizResponse{Config: cfg, Questions: questions, Categories: batch.Categories()}
}

// GradeQuizRequest carries the answers for a generated batch
// @Description Request body for grading a quiz
type GradeQuizRequest struct {
	SessionID string             `json:"session_id,omitempty"`
	Config    domain.QuizConfig  `json:"config"`
	Questions []QuestionResponse `json:"questions"`
	Answers   []string           `json:"answers"`
}

// ToDomain converts the request into a grading request.
func (r GradeQuizRequest) ToDomain() domain.GradeRequest {
	batch := make(domain.QuizBatch, 0, len(r.Questions))
	for _, q := range r.Questions {
		batch = append(batch, &domain.Question{
			Text:          q.Question,
			Options:       q.Options,
			CorrectAnswer: q.Answer,
			Explanation:   q.Explanation,
			Category:      q.Category,
		})
	}
	return domain.GradeRequest{
		SessionID: r.SessionID,
		Config:    r.Config,
		Questions: batch,
		Answers:   r.Answers,
	}
}

// GradeQuizResponse is the graded round plus the follow-up choices
type GradeQuizResponse struct {
	*domain.GradeResult
	Actions []domain.NextStepAction `json:"actions"`
}

// NextStepRequest resolves the follow-up menu of a graded round
// @Description Request body for choosing the next round
type NextStepRequest struct {
	SessionID string                  `json:"session_id"`
	Report    *domain.ProgressReport  `json:"report"`
	Decision  domain.NextStepDecision `json:"decision"`
}

// NextStepResponse tells the client whether to run another round and with what config
type NextStepResponse struct {
	Redirect bool               `json:"redirect"`
	Config   *domain.QuizConfig `json:"config,omitempty"`
}
