package service

import (
	"context"
	"errors"
	"strings"

	"truthordare/internal/engine"
	"truthordare/internal/model"
	"truthordare/internal/repository"
)

var ErrHistoryDisabled = errors.New("turn history is not enabled")

// GameService is the transport-facing entry point to the turn engine
type GameService struct {
	engine  *engine.Engine
	history repository.TurnLogRepository
}

// NewGameService creates a game service. history may be nil.
func NewGameService(eng *engine.Engine, history repository.TurnLogRepository) *GameService {
	return &GameService{
		engine:  eng,
		history: history,
	}
}

// Act applies an action on behalf of actor; the actor always comes from the
// authenticated caller, never from the payload
func (s *GameService) Act(ctx context.Context, sessionID, actor string, act model.Action) (*model.Outcome, error) {
	act.Actor = actor
	act.Kind = model.ActionKind(strings.TrimSpace(string(act.Kind)))
	return s.engine.Apply(ctx, sessionID, act)
}

// Session returns the current state of a session
func (s *GameService) Session(ctx context.Context, sessionID string) (*model.Session, error) {
	return s.engine.Session(ctx, sessionID)
}

// RecordMessage correlates the last outbound prompt message with the session
func (s *GameService) RecordMessage(ctx context.Context, sessionID, messageID string) error {
	if strings.TrimSpace(messageID) == "" {
		return engine.ErrInvalidAction
	}
	return s.engine.RecordMessage(ctx, sessionID, messageID)
}

// Leaderboard returns the top players of the global ledger
func (s *GameService) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit > 100 {
		limit = 100
	}
	return s.engine.Leaderboard(ctx, limit)
}

// History returns the latest resolved turns of a session
func (s *GameService) History(ctx context.Context, sessionID string, limit int64) ([]*model.TurnRecord, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.History(ctx, sessionID, limit)
}
