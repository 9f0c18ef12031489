package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"quiz-sentinel/internal/config"
	"quiz-sentinel/internal/domain"
	"quiz-sentinel/internal/logger"
	"quiz-sentinel/internal/util"

	"go.uber.org/zap"
)

const (
	DefaultPasscodeTimeout = 10 * time.Second
	DefaultRepeatInterval  = 20 * time.Second
	DefaultSessionTTL      = 12 * time.Hour

	sweepInterval = time.Minute
)

var errControllerClosed = errors.New("alert controller is closed")

// alertEntry guards one session and its pending timer.
type alertEntry struct {
	mu       sync.Mutex
	session  *domain.AlertSession
	timer    *time.Timer
	timerSeq uint64
}

// AlertControllerService keeps panic-button sessions in memory and runs their timers.
// Every timer carries the session epoch it was scheduled for and does nothing once the
// session has moved on.
type AlertControllerService struct {
	dispatcher      Dispatcher
	passcodeTimeout time.Duration
	repeatInterval  time.Duration
	sessionTTL      time.Duration
	now             func() time.Time

	mu        sync.RWMutex
	sessions  map[string]*alertEntry
	closed    bool
	lastSweep time.Time

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func NewAlertControllerService(dispatcher Dispatcher, cfg config.AlertConfig) *AlertControllerService {
	timeout := cfg.PasscodeTimeout
	if timeout <= 0 {
		timeout = DefaultPasscodeTimeout
	}
	interval := cfg.RepeatInterval
	if interval <= 0 {
		interval = DefaultRepeatInterval
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AlertControllerService{
		dispatcher:      dispatcher,
		passcodeTimeout: timeout,
		repeatInterval:  interval,
		sessionTTL:      ttl,
		now:             time.Now,
		sessions:        make(map[string]*alertEntry),
		ctx:             ctx,
		cancel:          cancel,
	}
}

var _ domain.AlertController = (*AlertControllerService)(nil)

func (c *AlertControllerService) Activate(ctx context.Context) (*domain.AlertSession, error) {
	now := c.now()
	session := domain.NewAlertSession(util.NewULID(), now)
	if _, err := session.Activate(now); err != nil {
		return nil, err
	}
	e := &alertEntry{session: session}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, domain.NewInternalError("cannot activate alert", errControllerClosed)
	}
	c.sessions[session.ID] = e
	sweep := now.Sub(c.lastSweep) >= sweepInterval
	if sweep {
		c.lastSweep = now
	}
	c.mu.Unlock()

	if sweep {
		c.evictStale(now)
	}
	logger.Get().Info("Alert session armed", zap.String("session_id", session.ID))
	snap := session.Snapshot()
	return &snap, nil
}

func (c *AlertControllerService) SetPasscode(ctx context.Context, sessionID, passcode string) (*domain.AlertSession, error) {
	e, err := c.entry(sessionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	tr, err := e.session.SetPasscode(passcode, c.now())
	if err != nil {
		return nil, err
	}
	epoch := tr.Epoch
	c.stopTimer(e)
	c.schedule(e, c.passcodeTimeout, func() { c.onTimeout(e, epoch) })

	logger.Get().Info("Passcode set, waiting for re-entry",
		zap.String("session_id", sessionID),
		zap.Duration("timeout", c.passcodeTimeout))
	snap := e.session.Snapshot()
	return &snap, nil
}

func (c *AlertControllerService) Verify(ctx context.Context, sessionID, passcode string) (*domain.AlertSession, bool, error) {
	e, err := c.entry(sessionID)
	if err != nil {
		return nil, false, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	tr, ok, err := e.session.Verify(passcode, c.now())
	if err != nil {
		return nil, false, err
	}
	switch {
	case ok:
		c.stopTimer(e)
		c.remove(sessionID)
		logger.Get().Info("Passcode verified, alert cancelled", zap.String("session_id", sessionID))
	case tr.EnteredAlerting():
		logger.Get().Warn("Wrong passcode, starting alert", zap.String("session_id", sessionID))
		c.startAlerting(e, tr.Epoch)
	default:
		logger.Get().Warn("Wrong passcode while alerting", zap.String("session_id", sessionID))
	}
	snap := e.session.Snapshot()
	return &snap, ok, nil
}

func (c *AlertControllerService) UpdateLocation(ctx context.Context, sessionID string, loc domain.Location) (*domain.AlertSession, error) {
	e, err := c.entry(sessionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.session.UpdateLocation(loc, c.now()); err != nil {
		return nil, err
	}
	snap := e.session.Snapshot()
	return &snap, nil
}

func (c *AlertControllerService) Status(ctx context.Context, sessionID string) (*domain.AlertSession, error) {
	e, err := c.entry(sessionID)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.session.Snapshot()
	return &snap, nil
}

// Close stops every timer and waits for in-flight dispatches to return.
func (c *AlertControllerService) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	entries := make([]*alertEntry, 0, len(c.sessions))
	for _, e := range c.sessions {
		entries = append(entries, e)
	}
	c.mu.Unlock()

	for _, e := range entries {
		e.mu.Lock()
		c.stopTimer(e)
		e.mu.Unlock()
	}
	c.cancel()
	c.wg.Wait()
}

// remove forgets a session. Callers may hold the entry lock, never the other way round.
func (c *AlertControllerService) remove(sessionID string) {
	c.mu.Lock()
	delete(c.sessions, sessionID)
	c.mu.Unlock()
}

// evictStale drops armed or idle sessions untouched for longer than the session TTL.
// Pending and alerting sessions stay until their passcode is verified.
func (c *AlertControllerService) evictStale(now time.Time) {
	c.mu.RLock()
	entries := make(map[string]*alertEntry, len(c.sessions))
	for id, e := range c.sessions {
		entries[id] = e
	}
	c.mu.RUnlock()

	var stale []string
	for id, e := range entries {
		e.mu.Lock()
		state, updated := e.session.State, e.session.UpdatedAt
		e.mu.Unlock()
		if (state == domain.AlertStateArmed || state == domain.AlertStateIdle) && now.Sub(updated) > c.sessionTTL {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return
	}

	c.mu.Lock()
	for _, id := range stale {
		delete(c.sessions, id)
	}
	c.mu.Unlock()
	logger.Get().Info("Evicted stale alert sessions", zap.Int("count", len(stale)))
}

func (c *AlertControllerService) entry(sessionID string) (*alertEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.sessions[sessionID]
	if !ok {
		return nil, domain.NewNotFoundError("alert session not found")
	}
	return e, nil
}

func (c *AlertControllerService) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// schedule runs fn after d. e.mu must be held.
func (c *AlertControllerService) schedule(e *alertEntry, d time.Duration, fn func()) {
	if c.isClosed() {
		return
	}
	e.timerSeq++
	seq := e.timerSeq
	c.wg.Add(1)
	e.timer = time.AfterFunc(d, func() {
		defer c.wg.Done()
		e.mu.Lock()
		if e.timerSeq == seq {
			e.timer = nil
		}
		e.mu.Unlock()
		fn()
	})
}

// stopTimer cancels the pending timer, if any. e.mu must be held.
func (c *AlertControllerService) stopTimer(e *alertEntry) {
	if e.timer == nil {
		return
	}
	if e.timer.Stop() {
		c.wg.Done()
	}
	e.timer = nil
}

// startAlerting replaces any pending timer with an immediate dispatch. e.mu must be held.
func (c *AlertControllerService) startAlerting(e *alertEntry, epoch uint64) {
	c.stopTimer(e)
	c.schedule(e, 0, func() { c.fire(e, epoch) })
}

func (c *AlertControllerService) onTimeout(e *alertEntry, epoch uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.Epoch != epoch || e.session.State != domain.AlertStatePendingPasscode {
		return
	}
	tr, err := e.session.Timeout(c.now())
	if err != nil {
		logger.Get().Error("Passcode timeout rejected", zap.String("session_id", e.session.ID), zap.Error(err))
		return
	}
	logger.Get().Warn("Passcode not re-entered in time, starting alert", zap.String("session_id", e.session.ID))
	c.startAlerting(e, tr.Epoch)
}

// fire sends one alert round and schedules the next while the session stays alerting.
func (c *AlertControllerService) fire(e *alertEntry, epoch uint64) {
	e.mu.Lock()
	if e.session.Epoch != epoch || e.session.State != domain.AlertStateAlerting {
		e.mu.Unlock()
		return
	}
	var loc *domain.Location
	if e.session.Location != nil {
		l := *e.session.Location
		loc = &l
	}
	sessionID := e.session.ID
	e.mu.Unlock()

	sent, err := c.dispatcher.Dispatch(c.ctx, loc)
	if err != nil {
		logger.Get().Error("Alert round failed",
			zap.String("session_id", sessionID),
			zap.Int("sent", sent),
			zap.Error(err))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session.Epoch != epoch || e.session.State != domain.AlertStateAlerting {
		return
	}
	e.session.AlertsSent++
	c.schedule(e, c.repeatInterval, func() { c.fire(e, epoch) })
}
