package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-sentinel/internal/config"
	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/dto"
	"quiz-sentinel/internal/handler"
	"quiz-sentinel/internal/middleware"
	"quiz-sentinel/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockAlertController keeps one session and drives the real state machine.
type MockAlertController struct {
	session *domain.AlertSession
}

func (m *MockAlertController) lookup(id string) (*domain.AlertSession, error) {
	if m.session == nil || m.session.ID != id {
		return nil, domain.NewNotFoundError("alert session not found")
	}
	return m.session, nil
}

func (m *MockAlertController) Activate(ctx context.Context) (*domain.AlertSession, error) {
	m.session = domain.NewAlertSession("alert-1", time.Now())
	if _, err := m.session.Activate(time.Now()); err != nil {
		return nil, err
	}
	return m.session, nil
}

func (m *MockAlertController) SetPasscode(ctx context.Context, id, passcode string) (*domain.AlertSession, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	_, err = s.SetPasscode(passcode, time.Now())
	return s, err
}

func (m *MockAlertController) Verify(ctx context.Context, id, passcode string) (*domain.AlertSession, bool, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, false, err
	}
	_, ok, err := s.Verify(passcode, time.Now())
	return s, ok, err
}

func (m *MockAlertController) UpdateLocation(ctx context.Context, id string, loc domain.Location) (*domain.AlertSession, error) {
	s, err := m.lookup(id)
	if err != nil {
		return nil, err
	}
	_, err = s.UpdateLocation(loc, time.Now())
	return s, err
}

func (m *MockAlertController) Status(ctx context.Context, id string) (*domain.AlertSession, error) {
	return m.lookup(id)
}

func newAlertApp(t *testing.T) *fiber.App {
	t.Helper()
	tokens, err := service.NewTokenService(config.JWTConfig{SecretKey: "handler-test"})
	require.NoError(t, err)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app, handler.NewQuizHandler(&MockQuizService{}), handler.NewAlertHandler(&MockAlertController{}, tokens), tokens)
	return app
}

func alertCall(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthorizationHeader, middleware.BearerSchema+" "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, buf.Bytes()
}

func TestAlertHandler_Flow(t *testing.T) {
	app := newAlertApp(t)

	status, body := alertCall(t, app, fiber.MethodPost, "/api/alerts", "", nil)
	require.Equal(t, fiber.StatusCreated, status)
	var activated dto.ActivateAlertResponse
	require.NoError(t, json.Unmarshal(body, &activated))
	require.NotEmpty(t, activated.Token)
	assert.Equal(t, "armed", activated.Session.State)
	token := activated.Token

	lat, lng := 12.5, 77.25
	status, body = alertCall(t, app, fiber.MethodPost, "/api/alerts/location", token, dto.UpdateLocationRequest{Lat: &lat, Lng: &lng})
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "query=12.5,77.25")

	status, _ = alertCall(t, app, fiber.MethodPost, "/api/alerts/verify", token, dto.VerifyPasscodeRequest{Passcode: "1"})
	assert.Equal(t, fiber.StatusConflict, status, "verify before a passcode is set")

	status, _ = alertCall(t, app, fiber.MethodPost, "/api/alerts/passcode", token, dto.SetPasscodeRequest{Passcode: "2468"})
	require.Equal(t, fiber.StatusOK, status)

	status, body = alertCall(t, app, fiber.MethodPost, "/api/alerts/verify", token, dto.VerifyPasscodeRequest{Passcode: "0000"})
	require.Equal(t, fiber.StatusOK, status)
	var verified dto.VerifyPasscodeResponse
	require.NoError(t, json.Unmarshal(body, &verified))
	assert.False(t, verified.Verified)
	assert.Equal(t, "alerting", verified.Session.State)

	status, body = alertCall(t, app, fiber.MethodPost, "/api/alerts/verify", token, dto.VerifyPasscodeRequest{Passcode: "2468"})
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &verified))
	assert.True(t, verified.Verified)

	status, body = alertCall(t, app, fiber.MethodGet, "/api/alerts/status", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"state":"idle"`)
}

func TestAlertHandler_RequiresToken(t *testing.T) {
	app := newAlertApp(t)

	status, _ := alertCall(t, app, fiber.MethodGet, "/api/alerts/status", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = alertCall(t, app, fiber.MethodGet, "/api/alerts/status", "forged.token.value", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAlertHandler_Validation(t *testing.T) {
	app := newAlertApp(t)
	_, body := alertCall(t, app, fiber.MethodPost, "/api/alerts", "", nil)
	var activated dto.ActivateAlertResponse
	require.NoError(t, json.Unmarshal(body, &activated))

	status, body := alertCall(t, app, fiber.MethodPost, "/api/alerts/location", activated.Token, map[string]float64{"lat": 1})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, string(body), "lng")

	lat, lng := 95.0, 0.0
	status, _ = alertCall(t, app, fiber.MethodPost, "/api/alerts/location", activated.Token, dto.UpdateLocationRequest{Lat: &lat, Lng: &lng})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = alertCall(t, app, fiber.MethodPost, "/api/alerts/passcode", activated.Token, dto.SetPasscodeRequest{Passcode: " "})
	assert.Equal(t, fiber.StatusBadRequest, status)
}
