package handler

import (
	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/dto"
	"quiz-sentinel/internal/middleware"
	"quiz-sentinel/internal/service"
	"quiz-sentinel/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AlertHandler exposes the panic-button state machine
type AlertHandler struct {
	controller domain.AlertController
	tokens     service.TokenService
	validator  *validation.Validator
}

func NewAlertHandler(controller domain.AlertController, tokens service.TokenService) *AlertHandler {
	return &AlertHandler{
		controller: controller,
		tokens:     tokens,
		validator:  validation.NewValidator(),
	}
}

// Activate godoc
// @Summary Arm an alert session
// @Description Creates an armed session and returns the token that authorizes the other alert endpoints
// @Tags alert
// @Produce json
// @Success 201 {object} dto.ActivateAlertResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /alerts [post]
func (h *AlertHandler) Activate(c *fiber.Ctx) error {
	session, err := h.controller.Activate(c.UserContext())
	if err != nil {
		return err
	}
	token, expiresAt, err := h.tokens.IssueAlertToken(session.ID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ActivateAlertResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Session:   dto.NewAlertSessionResponse(session),
	})
}

// SetPasscode godoc
// @Summary Set the passcode
// @Description Stores the passcode and starts the re-entry timeout
// @Tags alert
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.SetPasscodeRequest true "Passcode"
// @Success 200 {object} dto.AlertSessionResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /alerts/passcode [post]
func (h *AlertHandler) SetPasscode(c *fiber.Ctx) error {
	var req dto.SetPasscodeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be valid JSON")
	}
	if errs := h.validator.ValidatePasscode(req.Passcode); len(errs) > 0 {
		return errs
	}

	session, err := h.controller.SetPasscode(c.UserContext(), middleware.AlertSessionID(c), req.Passcode)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAlertSessionResponse(session))
}

// Verify godoc
// @Summary Re-enter the passcode
// @Description The correct passcode cancels the alert; a wrong one starts it
// @Tags alert
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.VerifyPasscodeRequest true "Passcode"
// @Success 200 {object} dto.VerifyPasscodeResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Router /alerts/verify [post]
func (h *AlertHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyPasscodeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be valid JSON")
	}

	session, ok, err := h.controller.Verify(c.UserContext(), middleware.AlertSessionID(c), req.Passcode)
	if err != nil {
		return err
	}
	return c.JSON(dto.VerifyPasscodeResponse{Verified: ok, Session: dto.NewAlertSessionResponse(session)})
}

// UpdateLocation godoc
// @Summary Report a location
// @Description Records the latest position used by alert messages
// @Tags alert
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.UpdateLocationRequest true "Position"
// @Success 200 {object} dto.AlertSessionResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /alerts/location [post]
func (h *AlertHandler) UpdateLocation(c *fiber.Ctx) error {
	var req dto.UpdateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("request body must be valid JSON")
	}
	if errs := h.validator.ValidateStruct(req); len(errs) > 0 {
		return errs
	}

	loc := domain.Location{Lat: *req.Lat, Lng: *req.Lng, Accuracy: req.Accuracy}
	session, err := h.controller.UpdateLocation(c.UserContext(), middleware.AlertSessionID(c), loc)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAlertSessionResponse(session))
}

// Status godoc
// @Summary Alert session status
// @Tags alert
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.AlertSessionResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /alerts/status [get]
func (h *AlertHandler) Status(c *fiber.Ctx) error {
	session, err := h.controller.Status(c.UserContext(), middleware.AlertSessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAlertSessionResponse(session))
}
