package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{
			name:        "without paramsKey",
			serviceName: "session",
			objectType:  "runs",
			identifier:  "01HZX",
			expectedKey: "quizsentinel:session:runs:01HZX",
		},
		{
			name:        "with empty paramsKey",
			serviceName: "session",
			objectType:  "runs",
			identifier:  "01HZX",
			paramsKey:   []string{},
			expectedKey: "quizsentinel:session:runs:01HZX",
		},
		{
			name:        "with multiple paramsKey",
			serviceName: "quiz",
			objectType:  "batch",
			identifier:  "go",
			paramsKey:   []string{"hard", "6"},
			expectedKey: "quizsentinel:quiz:batch:go:hard_6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedKey, GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...))
		})
	}
}

func TestSessionKeys(t *testing.T) {
	assert.Equal(t, "quizsentinel:session:runs:s1", SessionRunsKey("s1"))
	assert.Equal(t, "quizsentinel:session:config:s1", SessionConfigKey("s1"))
}
