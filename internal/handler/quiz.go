package handler

import (
	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/dto"
	"quiz-sentinel/internal/logger"
	"quiz-sentinel/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	service   domain.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service domain.QuizService) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// GenerateQuiz godoc
// @Summary Generate a quiz
// @Description Asks the language model for questions on a topic and balances their categories
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Quiz settings"
// @Success 200 {object} dto.GenerateQuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be valid JSON")
	}

	cfg := req.ToConfig()
	if errs := h.validator.ValidateQuizConfig(cfg); len(errs) > 0 {
		return errs
	}

	batch, err := h.service.GenerateQuiz(c.UserContext(), cfg)
	if err != nil {
		logger.Get().Error("Failed to generate quiz", zap.String("topic", cfg.Topic), zap.Error(err))
		return err
	}
	return c.JSON(dto.NewGenerateQuizResponse(cfg.Normalized(), batch))
}

// GradeQuiz godoc
// @Summary Grade a quiz
// @Description Scores the answers, records the round in the session and returns the follow-up menu
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GradeQuizRequest true "Questions and answers"
// @Success 200 {object} dto.GradeQuizResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /quizzes/grade [post]
func (h *QuizHandler) GradeQuiz(c *fiber.Ctx) error {
	var req dto.GradeQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be valid JSON")
	}

	gradeReq := req.ToDomain()
	if errs := h.validator.ValidateGradeRequest(gradeReq); len(errs) > 0 {
		return errs
	}

	result, err := h.service.GradeQuiz(c.UserContext(), gradeReq)
	if err != nil {
		return err
	}
	return c.JSON(dto.GradeQuizResponse{GradeResult: result, Actions: result.NextStep.Actions()})
}

// PlanNext godoc
// @Summary Choose the next round
// @Description Resolves a follow-up choice against the session's last round
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.NextStepRequest true "Decision"
// @Success 200 {object} dto.NextStepResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /quizzes/next [post]
func (h *QuizHandler) PlanNext(c *fiber.Ctx) error {
	var req dto.NextStepRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be valid JSON")
	}
	if errs := h.validator.ValidateSessionID(req.SessionID); len(errs) > 0 {
		return errs
	}

	next, redirect, err := h.service.PlanNext(c.UserContext(), req.SessionID, req.Report, req.Decision)
	if err != nil {
		return err
	}
	return c.JSON(dto.NextStepResponse{Redirect: redirect, Config: next})
}

// SessionReport godoc
// @Summary Session report
// @Description Aggregates category performance over every round of a session
// @Tags quiz
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} domain.SessionSummary
// @Failure 404 {object} middleware.ErrorResponse
// @Router /sessions/{id}/report [get]
func (h *QuizHandler) SessionReport(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if errs := h.validator.ValidateSessionID(sessionID); len(errs) > 0 {
		return errs
	}

	summary, err := h.service.SessionReport(c.UserContext(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
