package service

import (
	"context"
	"sync"
	"time"

	"quiz-sentinel/internal/domain"

	"github.com/stretchr/testify/mock"
)

// --- MockQuestionSource ---
type MockQuestionSource struct {
	mock.Mock
}

func (m *MockQuestionSource) GenerateQuestions(ctx context.Context, cfg domain.QuizConfig) (domain.QuizBatch, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.QuizBatch), args.Error(1)
}

// --- MockRunRepository ---
type MockRunRepository struct {
	mock.Mock
}

func (m *MockRunRepository) SaveRun(ctx context.Context, run *domain.RunRecord) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepository) ListRunsBySession(ctx context.Context, sessionID string) ([]domain.RunRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RunRecord), args.Error(1)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCache) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

func (m *MockCache) HSet(ctx context.Context, key string, field string, value string) error {
	args := m.Called(ctx, key, field, value)
	return args.Error(0)
}

func (m *MockCache) Expire(ctx context.Context, key string, expiration time.Duration) error {
	args := m.Called(ctx, key, expiration)
	return args.Error(0)
}

// --- MockNotifier ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, recipient, message string) error {
	args := m.Called(ctx, recipient, message)
	return args.Error(0)
}

// fakeDispatcher records alert rounds and reports each one on calls.
type fakeDispatcher struct {
	mu    sync.Mutex
	locs  []*domain.Location
	err   error
	calls chan struct{}
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{calls: make(chan struct{}, 64)}
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, loc *domain.Location) (int, error) {
	f.mu.Lock()
	f.locs = append(f.locs, loc)
	err := f.err
	f.mu.Unlock()
	select {
	case f.calls <- struct{}{}:
	default:
	}
	if err != nil {
		return 0, err
	}
	return 1, nil
}

func (f *fakeDispatcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.locs)
}

func (f *fakeDispatcher) lastLocation() *domain.Location {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.locs) == 0 {
		return nil
	}
	return f.locs[len(f.locs)-1]
}
