package handler

import (
	"quiz-sentinel/internal/middleware"
	"quiz-sentinel/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the quiz and alert endpoints under /api.
func RegisterRoutes(app *fiber.App, quiz *QuizHandler, alert *AlertHandler, tokens service.TokenService) {
	api := app.Group("/api")

	api.Post("/quizzes", quiz.GenerateQuiz)
	api.Post("/quizzes/grade", quiz.GradeQuiz)
	api.Post("/quizzes/next", quiz.PlanNext)
	api.Get("/sessions/:id/report", quiz.SessionReport)

	requireSession := middleware.AlertSession(tokens)
	alerts := api.Group("/alerts")
	alerts.Post("/", alert.Activate)
	alerts.Post("/passcode", requireSession, alert.SetPasscode)
	alerts.Post("/verify", requireSession, alert.Verify)
	alerts.Post("/location", requireSession, alert.UpdateLocation)
	alerts.Get("/status", requireSession, alert.Status)
}
