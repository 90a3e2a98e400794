package engine

import (
	"sync"
	"time"

	"truthordare/internal/model"
)

// AfterFunc arms f to run once after d and returns a function that stops it.
// time.AfterFunc is the production implementation; tests inject a manual one.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

func realAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// ExpireFunc handles a fired countdown. It must compare token with the live
// session state before acting.
type ExpireFunc func(sessionID string, token model.TurnToken)

type pendingTimer struct {
	id    uint64
	token model.TurnToken
	stop  func() bool
}

// TimerManager keeps at most one pending countdown per session.
type TimerManager struct {
	mu       sync.Mutex
	pending  map[string]*pendingTimer
	seq      uint64
	after    AfterFunc
	onExpire ExpireFunc
}

// NewTimerManager creates a manager that calls onExpire when a countdown elapses.
func NewTimerManager(onExpire ExpireFunc, after AfterFunc) *TimerManager {
	if after == nil {
		after = realAfterFunc
	}
	return &TimerManager{
		pending:  make(map[string]*pendingTimer),
		after:    after,
		onExpire: onExpire,
	}
}

// Schedule replaces any pending countdown of the session with a new one
// carrying token.
func (m *TimerManager) Schedule(sessionID string, token model.TurnToken, d time.Duration) {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.pending[sessionID]; ok {
		prev.stop()
	}
	m.seq++
	id := m.seq
	t := &pendingTimer{id: id, token: token}
	m.pending[sessionID] = t
	t.stop = m.after(d, func() { m.fire(sessionID, id, token) })
}

// Cancel stops the pending countdown of the session, if any.
func (m *TimerManager) Cancel(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.pending[sessionID]; ok {
		prev.stop()
		delete(m.pending, sessionID)
	}
}

// Pending returns the token of the session's pending countdown.
func (m *TimerManager) Pending(sessionID string) (model.TurnToken, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.pending[sessionID]
	if !ok {
		return model.TurnToken{}, false
	}
	return t.token, true
}

// Len returns the number of pending countdowns.
func (m *TimerManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// StopAll cancels every pending countdown.
func (m *TimerManager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, t := range m.pending {
		t.stop()
		delete(m.pending, id)
	}
}

func (m *TimerManager) fire(sessionID string, id uint64, token model.TurnToken) {
	m.mu.Lock()
	if t, ok := m.pending[sessionID]; ok && t.id == id {
		delete(m.pending, sessionID)
	}
	m.mu.Unlock()

	// A replaced timer that could not be stopped in time still reaches
	// onExpire; the token check there turns it into a no-op.
	m.onExpire(sessionID, token)
}
