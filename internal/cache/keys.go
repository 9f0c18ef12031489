package cache

import "strings"

const (
	GlobalKeyPrefix = "quizsentinel"

	ServiceSession = "session"
	ObjectRuns     = "runs"
	ObjectConfig   = "config"
)

// GenerateCacheKey builds "quizsentinel:<service>:<object>:<id>". Extra params are
// joined by "_" and appended as a final segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return baseKey + ":" + strings.Join(paramsKey, "_")
	}
	return baseKey
}

// SessionRunsKey is the hash holding a session's runs, keyed by run ID.
func SessionRunsKey(sessionID string) string {
	return GenerateCacheKey(ServiceSession, ObjectRuns, sessionID)
}

// SessionConfigKey holds the config of a session's most recent round.
func SessionConfigKey(sessionID string) string {
	return GenerateCacheKey(ServiceSession, ObjectConfig, sessionID)
}
