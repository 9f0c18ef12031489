package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"quiz-sentinel/internal/cache"
	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/logger"

	"go.uber.org/zap"
)

// DefaultHistoryTTL keeps a session's runs for a day after the last write.
const DefaultHistoryTTL = 24 * time.Hour

// NewSessionHistoryService stores session runs in c. A nil cache falls back to an
// in-process store, which is what the CLI uses.
func NewSessionHistoryService(c domain.Cache, ttl time.Duration) domain.SessionHistory {
	if ttl <= 0 {
		ttl = DefaultHistoryTTL
	}
	if c == nil {
		logger.Get().Warn("SessionHistoryService initialized without cache, keeping history in memory")
		return newMemorySessionHistory()
	}
	return &cacheSessionHistory{cache: c, ttl: ttl}
}

type cacheSessionHistory struct {
	cache domain.Cache
	ttl   time.Duration
}

// AppendRun stores the run as one hash field and refreshes the hash TTL.
func (h *cacheSessionHistory) AppendRun(ctx context.Context, run *domain.RunRecord) error {
	if run == nil || run.SessionID == "" || run.ID == "" {
		return domain.NewInvalidInputError("run must have a session and an id")
	}
	data, err := json.Marshal(run)
	if err != nil {
		return domain.NewInternalError("failed to marshal run", err)
	}

	key := cache.SessionRunsKey(run.SessionID)
	if err := h.cache.HSet(ctx, key, run.ID, string(data)); err != nil {
		return domain.NewInternalError("failed to store run", err)
	}
	if err := h.cache.Expire(ctx, key, h.ttl); err != nil {
		logger.Get().Warn("Failed to set session history TTL", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// ListRuns returns runs oldest first. Entries that fail to decode are skipped.
func (h *cacheSessionHistory) ListRuns(ctx context.Context, sessionID string) ([]domain.RunRecord, error) {
	key := cache.SessionRunsKey(sessionID)
	fields, err := h.cache.HGetAll(ctx, key)
	if err != nil {
		return nil, domain.NewInternalError("failed to load session history", err)
	}

	runs := make([]domain.RunRecord, 0, len(fields))
	for field, raw := range fields {
		var run domain.RunRecord
		if err := json.Unmarshal([]byte(raw), &run); err != nil {
			logger.Get().Warn("Skipping corrupt run entry", zap.String("key", key), zap.String("field", field), zap.Error(err))
			continue
		}
		runs = append(runs, run)
	}
	sortRuns(runs)
	return runs, nil
}

func (h *cacheSessionHistory) SaveLastConfig(ctx context.Context, sessionID string, cfg domain.QuizConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return domain.NewInternalError("failed to marshal quiz config", err)
	}
	if err := h.cache.Set(ctx, cache.SessionConfigKey(sessionID), string(data), h.ttl); err != nil {
		return domain.NewInternalError("failed to store quiz config", err)
	}
	return nil
}

// LastConfig returns nil without error when the session has no recorded round.
func (h *cacheSessionHistory) LastConfig(ctx context.Context, sessionID string) (*domain.QuizConfig, error) {
	raw, err := h.cache.Get(ctx, cache.SessionConfigKey(sessionID))
	if errors.Is(err, domain.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to load quiz config", err)
	}
	var cfg domain.QuizConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("corrupt quiz config for session %s", sessionID), err)
	}
	return &cfg, nil
}

func sortRuns(runs []domain.RunRecord) {
	sort.SliceStable(runs, func(i, j int) bool {
		if !runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].Timestamp.Before(runs[j].Timestamp)
		}
		return runs[i].ID < runs[j].ID
	})
}

type memorySessionHistory struct {
	mu      sync.RWMutex
	runs    map[string][]domain.RunRecord
	configs map[string]domain.QuizConfig
}

func newMemorySessionHistory() *memorySessionHistory {
	return &memorySessionHistory{
		runs:    make(map[string][]domain.RunRecord),
		configs: make(map[string]domain.QuizConfig),
	}
}

func (h *memorySessionHistory) AppendRun(_ context.Context, run *domain.RunRecord) error {
	if run == nil || run.SessionID == "" || run.ID == "" {
		return domain.NewInvalidInputError("run must have a session and an id")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runs[run.SessionID] = append(h.runs[run.SessionID], *run)
	return nil
}

func (h *memorySessionHistory) ListRuns(_ context.Context, sessionID string) ([]domain.RunRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	runs := append([]domain.RunRecord{}, h.runs[sessionID]...)
	sortRuns(runs)
	return runs, nil
}

func (h *memorySessionHistory) SaveLastConfig(_ context.Context, sessionID string, cfg domain.QuizConfig) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.configs[sessionID] = cfg.Clone()
	return nil
}

func (h *memorySessionHistory) LastConfig(_ context.Context, sessionID string) (*domain.QuizConfig, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	cfg, ok := h.configs[sessionID]
	if !ok {
		return nil, nil
	}
	cp := cfg.Clone()
	return &cp, nil
}
