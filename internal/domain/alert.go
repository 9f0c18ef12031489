package domain

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"
)

// AlertState is a state of the panic-button state machine.
type AlertState string

const (
	AlertStateIdle            AlertState = "idle"
	AlertStateArmed           AlertState = "armed"
	AlertStatePendingPasscode AlertState = "pending_passcode"
	AlertStateAlerting        AlertState = "alerting"
)

// AlertEvent is an input to the state machine.
type AlertEvent string

const (
	AlertEventActivate       AlertEvent = "activate"
	AlertEventSetPasscode    AlertEvent = "set_passcode"
	AlertEventVerify         AlertEvent = "verify"
	AlertEventTimeout        AlertEvent = "timeout"
	AlertEventUpdateLocation AlertEvent = "update_location"
)

// Location is a reported or fallback position.
type Location struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Accuracy   float64   `json:"accuracy,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Validate checks that the coordinates are on the globe.
func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 {
		return NewInvalidInputError(fmt.Sprintf("latitude %v out of range", l.Lat))
	}
	if l.Lng < -180 || l.Lng > 180 {
		return NewInvalidInputError(fmt.Sprintf("longitude %v out of range", l.Lng))
	}
	if l.Accuracy < 0 {
		return NewInvalidInputError("accuracy must not be negative")
	}
	return nil
}

// MapsLink returns a Google Maps search link for the location.
func (l Location) MapsLink() string {
	return fmt.Sprintf("https://www.google.com/maps/search/?api=1&query=%v,%v", l.Lat, l.Lng)
}

// BuildAlertMessage renders the emergency text sent to every recipient.
func BuildAlertMessage(loc Location) string {
	var b strings.Builder
	b.WriteString("⚠️ EMERGENCY ALERT ⚠️\n\n")
	b.WriteString("I am in danger and need immediate help!\n\n")
	b.WriteString("📍 My Current Location:\n")
	b.WriteString(loc.MapsLink())
	b.WriteString("\n")
	if loc.Accuracy > 0 {
		fmt.Fprintf(&b, "Accuracy: ±%.0fm\n", loc.Accuracy)
	}
	b.WriteString("\nPlease contact me urgently or inform authorities.\nThank you!\n")
	return b.String()
}

// Transition describes the effect of one event on a session.
// Epoch is the session epoch after the event.
type Transition struct {
	Event AlertEvent `json:"event"`
	From  AlertState `json:"from"`
	To    AlertState `json:"to"`
	Epoch uint64     `json:"epoch"`
}

// Changed reports whether the event moved the session to another state.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// EnteredAlerting reports whether the event started an alert.
func (t Transition) EnteredAlerting() bool {
	return t.To == AlertStateAlerting && t.From != AlertStateAlerting
}

// AlertSession is the state of one panic-button session. It is not safe for
// concurrent use; callers serialize access.
type AlertSession struct {
	ID         string     `json:"id"`
	State      AlertState `json:"state"`
	Epoch      uint64     `json:"epoch"`
	Location   *Location  `json:"location,omitempty"`
	AlertsSent int        `json:"alerts_sent"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	passcode string
}

// NewAlertSession returns a session in the idle state.
func NewAlertSession(id string, now time.Time) *AlertSession {
	return &AlertSession{
		ID:        id,
		State:     AlertStateIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasPasscode reports whether a passcode has been set for the current arming.
func (s *AlertSession) HasPasscode() bool {
	return s.passcode != ""
}

func (s *AlertSession) moveTo(event AlertEvent, to AlertState, now time.Time) Transition {
	t := Transition{Event: event, From: s.State, To: to}
	if to != s.State {
		s.State = to
		s.Epoch++
	}
	s.UpdatedAt = now
	t.Epoch = s.Epoch
	return t
}

// Activate arms an idle session. The previous location and passcode are cleared.
func (s *AlertSession) Activate(now time.Time) (Transition, error) {
	if s.State != AlertStateIdle {
		return Transition{}, NewInvalidTransitionError(s.State, AlertEventActivate)
	}
	s.passcode = ""
	s.Location = nil
	s.AlertsSent = 0
	return s.moveTo(AlertEventActivate, AlertStateArmed, now), nil
}

// SetPasscode stores the passcode and starts waiting for it to be re-entered.
func (s *AlertSession) SetPasscode(passcode string, now time.Time) (Transition, error) {
	if s.State != AlertStateArmed {
		return Transition{}, NewInvalidTransitionError(s.State, AlertEventSetPasscode)
	}
	if strings.TrimSpace(passcode) == "" {
		return Transition{}, NewInvalidInputError("passcode must not be empty")
	}
	s.passcode = passcode
	return s.moveTo(AlertEventSetPasscode, AlertStatePendingPasscode, now), nil
}

// Verify checks a re-entered passcode. The correct passcode returns the session to
// idle; a wrong one starts or continues the alert.
func (s *AlertSession) Verify(passcode string, now time.Time) (Transition, bool, error) {
	if s.State != AlertStatePendingPasscode && s.State != AlertStateAlerting {
		return Transition{}, false, NewInvalidTransitionError(s.State, AlertEventVerify)
	}
	if subtle.ConstantTimeCompare([]byte(passcode), []byte(s.passcode)) == 1 {
		s.passcode = ""
		return s.moveTo(AlertEventVerify, AlertStateIdle, now), true, nil
	}
	return s.moveTo(AlertEventVerify, AlertStateAlerting, now), false, nil
}

// Timeout fires when the passcode was not re-entered in time.
func (s *AlertSession) Timeout(now time.Time) (Transition, error) {
	if s.State != AlertStatePendingPasscode {
		return Transition{}, NewInvalidTransitionError(s.State, AlertEventTimeout)
	}
	return s.moveTo(AlertEventTimeout, AlertStateAlerting, now), nil
}

// UpdateLocation records the latest position. It is accepted in every state.
func (s *AlertSession) UpdateLocation(loc Location, now time.Time) (Transition, error) {
	if err := loc.Validate(); err != nil {
		return Transition{}, err
	}
	if loc.RecordedAt.IsZero() {
		loc.RecordedAt = now
	}
	s.Location = &loc
	return s.moveTo(AlertEventUpdateLocation, s.State, now), nil
}

// Snapshot returns a copy that can be handed out without sharing the location pointer.
func (s *AlertSession) Snapshot() AlertSession {
	cp := *s
	cp.passcode = ""
	if s.Location != nil {
		loc := *s.Location
		cp.Location = &loc
	}
	return cp
}

// Notifier delivers a text message to one recipient.
type Notifier interface {
	Send(ctx context.Context, recipient, message string) error
}
