package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 60.0, cfg.Quiz.PassThreshold)
	assert.Equal(t, 10*time.Second, cfg.Alert.PasscodeTimeout)
	assert.Equal(t, 20*time.Second, cfg.Alert.RepeatInterval)
	assert.Equal(t, 3, cfg.Alert.RetryAttempts)
	assert.Equal(t, "log", cfg.Notifier.Kind)
	require.Len(t, cfg.Alert.FallbackLocations, 4)
	assert.Equal(t, Location{Lat: 12.939443, Lng: 77.545355}, cfg.Alert.FallbackLocations[0])
	assert.Empty(t, cfg.GetDSN(), "no DSN without a database host")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ALERT_RECIPIENTS", "111, 222 ,,333")
	t.Setenv("ALERT_REPEAT_INTERVAL", "45s")
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("DB_USER", "quiz")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "QUIZDB")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, "secret", cfg.JWT.SecretKey)
	assert.Equal(t, []string{"111", "222", "333"}, cfg.Alert.Recipients)
	assert.Equal(t, 45*time.Second, cfg.Alert.RepeatInterval)
	assert.Equal(t, "oracle://quiz:pw@db.local:1521/QUIZDB", cfg.GetDSN())
}

func TestParseLocations(t *testing.T) {
	locs, err := parseLocations([]string{"1.5, 2.25", "-3,4"})
	require.NoError(t, err)
	assert.Equal(t, []Location{{Lat: 1.5, Lng: 2.25}, {Lat: -3, Lng: 4}}, locs)

	_, err = parseLocations([]string{"1.5"})
	assert.Error(t, err)

	_, err = parseLocations([]string{"north,4"})
	assert.Error(t, err)
}
