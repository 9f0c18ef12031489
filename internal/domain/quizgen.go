package domain

import "context"

// QuestionSource produces raw question batches from a language model.
// Implementations return GENERATION_FAILED when the model call fails and
// MALFORMED_MODEL_OUTPUT when its reply is not a question list. Returned
// questions are not yet normalized or balanced.
type QuestionSource interface {
	GenerateQuestions(ctx context.Context, cfg QuizConfig) (QuizBatch, error)
}
