package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func armedSession(t *testing.T) *AlertSession {
	t.Helper()
	s := NewAlertSession("a1", time.Now())
	_, err := s.Activate(time.Now())
	require.NoError(t, err)
	return s
}

func TestAlertSession_HappyPath(t *testing.T) {
	s := armedSession(t)
	assert.Equal(t, AlertStateArmed, s.State)

	tr, err := s.SetPasscode("1234", time.Now())
	require.NoError(t, err)
	assert.Equal(t, AlertStatePendingPasscode, tr.To)
	assert.True(t, s.HasPasscode())

	tr, ok, err := s.Verify("1234", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, AlertStateIdle, s.State)
	assert.False(t, tr.EnteredAlerting())
	assert.False(t, s.HasPasscode())
}

func TestAlertSession_WrongPasscodeStartsAlert(t *testing.T) {
	s := armedSession(t)
	_, err := s.SetPasscode("1234", time.Now())
	require.NoError(t, err)
	epoch := s.Epoch

	tr, ok, err := s.Verify("0000", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, tr.EnteredAlerting())
	assert.Equal(t, epoch+1, tr.Epoch)

	tr, ok, err = s.Verify("9999", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, tr.Changed())
	assert.Equal(t, epoch+1, s.Epoch, "staying in alerting keeps the epoch")

	_, ok, err = s.Verify("1234", time.Now())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, AlertStateIdle, s.State)
}

func TestAlertSession_Timeout(t *testing.T) {
	s := armedSession(t)
	_, err := s.SetPasscode("1234", time.Now())
	require.NoError(t, err)

	tr, err := s.Timeout(time.Now())
	require.NoError(t, err)
	assert.True(t, tr.EnteredAlerting())

	_, err = s.Timeout(time.Now())
	assert.True(t, HasCode(err, ErrInvalidTransition))
}

func TestAlertSession_InvalidTransitions(t *testing.T) {
	s := NewAlertSession("a1", time.Now())

	_, err := s.SetPasscode("1", time.Now())
	assert.True(t, HasCode(err, ErrInvalidTransition))
	_, _, err = s.Verify("1", time.Now())
	assert.True(t, HasCode(err, ErrInvalidTransition))
	_, err = s.Timeout(time.Now())
	assert.True(t, HasCode(err, ErrInvalidTransition))

	s = armedSession(t)
	_, err = s.Activate(time.Now())
	assert.True(t, HasCode(err, ErrInvalidTransition))
	_, err = s.SetPasscode("  ", time.Now())
	assert.True(t, HasCode(err, ErrInvalidInput))
	assert.Equal(t, AlertStateArmed, s.State)
}

func TestAlertSession_ActivateResetsLocation(t *testing.T) {
	s := armedSession(t)
	_, err := s.UpdateLocation(Location{Lat: 1, Lng: 2}, time.Now())
	require.NoError(t, err)
	_, err = s.SetPasscode("1", time.Now())
	require.NoError(t, err)
	_, _, err = s.Verify("1", time.Now())
	require.NoError(t, err)

	_, err = s.Activate(time.Now())
	require.NoError(t, err)
	assert.Nil(t, s.Location)
}

func TestAlertSession_UpdateLocation(t *testing.T) {
	s := NewAlertSession("a1", time.Now())
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	tr, err := s.UpdateLocation(Location{Lat: 12.9, Lng: 77.5, Accuracy: 8}, now)
	require.NoError(t, err)
	assert.False(t, tr.Changed())
	require.NotNil(t, s.Location)
	assert.Equal(t, now, s.Location.RecordedAt)

	_, err = s.UpdateLocation(Location{Lat: 91, Lng: 0}, now)
	assert.True(t, HasCode(err, ErrInvalidInput))
	_, err = s.UpdateLocation(Location{Lat: 0, Lng: -181}, now)
	assert.True(t, HasCode(err, ErrInvalidInput))
}

func TestAlertSession_Snapshot(t *testing.T) {
	s := armedSession(t)
	_, err := s.UpdateLocation(Location{Lat: 1, Lng: 2}, time.Now())
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Location.Lat = 50

	assert.Equal(t, 1.0, s.Location.Lat)
	assert.False(t, snap.HasPasscode())
}

func TestBuildAlertMessage(t *testing.T) {
	loc := Location{Lat: 12.939443, Lng: 77.545355}

	msg := BuildAlertMessage(loc)

	assert.True(t, strings.HasPrefix(msg, "⚠️ EMERGENCY ALERT ⚠️\n\n"))
	assert.Contains(t, msg, "https://www.google.com/maps/search/?api=1&query=12.939443,77.545355")
	assert.Contains(t, msg, "Please contact me urgently or inform authorities.")
	assert.NotContains(t, msg, "Accuracy")

	loc.Accuracy = 12.4
	assert.Contains(t, BuildAlertMessage(loc), "Accuracy: ±12m")
}
