package middleware

import (
	"strings"

	"quiz-sentinel/internal/logger"
	"quiz-sentinel/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer"
	AlertSessionIDKey   = "alertSessionID" // Key for storing the alert session ID in fiber.Ctx locals
)

// AlertSession requires a valid alert session token and stores its session ID in the context.
func AlertSession(tokens service.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := strings.TrimSpace(c.Get(AuthorizationHeader))
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		// "Bearer" with nothing after it still names the scheme; the token is just empty.
		scheme, tokenString, _ := strings.Cut(authHeader, " ")
		if !strings.EqualFold(scheme, BearerSchema) {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString = strings.TrimSpace(tokenString)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "EMPTY_TOKEN",
				Message: "Token is empty",
				Status:  fiber.StatusUnauthorized,
			})
		}

		claims, err := tokens.ValidateAlertToken(tokenString)
		if err != nil {
			logger.Get().Debug("Alert token rejected", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: err.Error(),
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals(AlertSessionIDKey, claims.SessionID)
		return c.Next()
	}
}

// AlertSessionID returns the session ID stored by AlertSession.
func AlertSessionID(c *fiber.Ctx) string {
	id, _ := c.Locals(AlertSessionIDKey).(string)
	return id
}
