package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"quiz-sentinel/internal/adapter"
	"quiz-sentinel/internal/cache"
	"quiz-sentinel/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCacheSessionHistory_AppendRun(t *testing.T) {
	ctx := context.Background()
	c := new(MockCache)
	history := NewSessionHistoryService(c, time.Hour)
	run := &domain.RunRecord{ID: "r1", SessionID: "s1", ScorePercent: 50}
	key := cache.SessionRunsKey("s1")

	c.On("HSet", ctx, key, "r1", mock.MatchedBy(func(v string) bool {
		var decoded domain.RunRecord
		return json.Unmarshal([]byte(v), &decoded) == nil && decoded.ScorePercent == 50
	})).Return(nil).Once()
	c.On("Expire", ctx, key, time.Hour).Return(errors.New("READONLY")).Once()

	require.NoError(t, history.AppendRun(ctx, run), "a failed TTL refresh is only logged")
	c.AssertExpectations(t)

	err := history.AppendRun(ctx, &domain.RunRecord{SessionID: "s1"})
	assert.True(t, domain.HasCode(err, domain.ErrInvalidInput))
}

func TestCacheSessionHistory_AppendRunFailure(t *testing.T) {
	ctx := context.Background()
	c := new(MockCache)
	history := NewSessionHistoryService(c, time.Hour)
	c.On("HSet", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection refused")).Once()

	err := history.AppendRun(ctx, &domain.RunRecord{ID: "r1", SessionID: "s1"})

	assert.True(t, domain.HasCode(err, domain.ErrInternal))
	c.AssertNotCalled(t, "Expire", mock.Anything, mock.Anything, mock.Anything)
}

func TestCacheSessionHistory_ListRunsFromRedis(t *testing.T) {
	ctx := context.Background()
	db, redisMock := redismock.NewClientMock()
	history := NewSessionHistoryService(adapter.NewRedisCacheAdapter(db), time.Hour)

	early := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	late := early.Add(time.Minute)
	first, _ := json.Marshal(domain.RunRecord{ID: "r1", SessionID: "s1", Timestamp: early})
	second, _ := json.Marshal(domain.RunRecord{ID: "r2", SessionID: "s1", Timestamp: late})
	redisMock.ExpectHGetAll(cache.SessionRunsKey("s1")).SetVal(map[string]string{
		"r2":  string(second),
		"r1":  string(first),
		"bad": "{not json",
	})

	runs, err := history.ListRuns(ctx, "s1")

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "r1", runs[0].ID)
	assert.Equal(t, "r2", runs[1].ID)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestCacheSessionHistory_LastConfig(t *testing.T) {
	ctx := context.Background()
	c := new(MockCache)
	history := NewSessionHistoryService(c, time.Hour)
	key := cache.SessionConfigKey("s1")

	c.On("Get", ctx, key).Return("", domain.ErrCacheMiss).Once()
	cfg, err := history.LastConfig(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, cfg)

	c.On("Get", ctx, key).Return(`{"topic":"Go","difficulty":"easy","quiz_count":3}`, nil).Once()
	cfg, err = history.LastConfig(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, &domain.QuizConfig{Topic: "Go", Difficulty: "easy", QuizCount: 3}, cfg)

	c.On("Get", ctx, key).Return("garbage", nil).Once()
	_, err = history.LastConfig(ctx, "s1")
	assert.True(t, domain.HasCode(err, domain.ErrInternal))

	c.On("Set", ctx, key, `{"topic":"Go","difficulty":"easy","quiz_count":3}`, time.Hour).Return(nil).Once()
	require.NoError(t, history.SaveLastConfig(ctx, "s1", domain.QuizConfig{Topic: "Go", Difficulty: "easy", QuizCount: 3}))
	c.AssertExpectations(t)
}

func TestMemorySessionHistory(t *testing.T) {
	ctx := context.Background()
	history := NewSessionHistoryService(nil, 0)

	require.NoError(t, history.AppendRun(ctx, &domain.RunRecord{ID: "b", SessionID: "s1"}))
	require.NoError(t, history.AppendRun(ctx, &domain.RunRecord{ID: "a", SessionID: "s1"}))

	runs, err := history.ListRuns(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a", runs[0].ID, "equal timestamps fall back to id order")

	cfg := domain.QuizConfig{Topic: "Go", FocusCategories: []string{"maps"}}
	require.NoError(t, history.SaveLastConfig(ctx, "s1", cfg))
	cfg.FocusCategories[0] = "changed"

	last, err := history.LastConfig(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"maps"}, last.FocusCategories)
}
