package dto

import (
	"time"

	"quiz-sentinel/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// AlertTokenType marks tokens that grant access to one alert session.
const AlertTokenType = "alert"

// AlertClaims are the JWT claims of an alert session token.
type AlertClaims struct {
	SessionID string `json:"session_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// ActivateAlertResponse is returned when a new alert session is armed.
type ActivateAlertResponse struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expires_at"`
	Session   AlertSessionResponse `json:"session"`
}

// SetPasscodeRequest arms the passcode re-entry timer.
type SetPasscodeRequest struct {
	Passcode string `json:"passcode"`
}

// VerifyPasscodeRequest carries a re-entered passcode.
type VerifyPasscodeRequest struct {
	Passcode string `json:"passcode"`
}

// VerifyPasscodeResponse reports whether the passcode matched.
type VerifyPasscodeResponse struct {
	Verified bool                 `json:"verified"`
	Session  AlertSessionResponse `json:"session"`
}

// UpdateLocationRequest is a position reported by the client.
type UpdateLocationRequest struct {
	Lat      *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lng      *float64 `json:"lng" validate:"required,gte=-180,lte=180"`
	Accuracy float64  `json:"accuracy,omitempty" validate:"gte=0"`
}

// AlertSessionResponse is the public view of an alert session.
type AlertSessionResponse struct {
	ID         string           `json:"id"`
	State      string           `json:"state"`
	Location   *domain.Location `json:"location,omitempty"`
	MapsLink   string           `json:"maps_link,omitempty"`
	AlertsSent int              `json:"alerts_sent"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// NewAlertSessionResponse maps a session snapshot to its public view.
func NewAlertSessionResponse(s *domain.AlertSession) AlertSessionResponse {
	resp := AlertSessionResponse{
		ID:         s.ID,
		State:      string(s.State),
		Location:   s.Location,
		AlertsSent: s.AlertsSent,
		UpdatedAt:  s.UpdatedAt,
	}
	if s.Location != nil {
		resp.MapsLink = s.Location.MapsLink()
	}
	return resp
}
