package store

import (
	"context"
	"sort"
	"sync"

	"truthordare/internal/model"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
	scores   map[string]int
}

// NewMemoryStore creates a process-local store
func NewMemoryStore() Store {
	return &memoryStore{
		sessions: make(map[string]*model.Session),
		scores:   make(map[string]int),
	}
}

func (m *memoryStore) Load(ctx context.Context, sessionID string) (*model.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (m *memoryStore) Commit(ctx context.Context, s *model.Session, deltas ...model.ScoreDelta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s.Clone()
	for _, d := range deltas {
		m.scores[d.PlayerID] += d.Points
	}
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *memoryStore) SessionIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *memoryStore) Score(ctx context.Context, playerID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scores[playerID], nil
}

func (m *memoryStore) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	m.mu.RLock()
	entries := make([]model.LeaderboardEntry, 0, len(m.scores))
	for id, score := range m.scores {
		entries = append(entries, model.LeaderboardEntry{PlayerID: id, Score: score})
	}
	m.mu.RUnlock()
	return rank(entries, limit), nil
}

func (m *memoryStore) Close() error {
	return nil
}
