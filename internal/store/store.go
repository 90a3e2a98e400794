// Package store persists sessions and the global score ledger. Every driver
// commits a session together with its score deltas as one atomic unit.
package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"truthordare/internal/config"
	"truthordare/internal/model"
)

// Store is the durable session store and score ledger
type Store interface {
	Load(ctx context.Context, sessionID string) (*model.Session, error)
	Commit(ctx context.Context, s *model.Session, deltas ...model.ScoreDelta) error
	Delete(ctx context.Context, sessionID string) error
	SessionIDs(ctx context.Context) ([]string, error)
	Score(ctx context.Context, playerID string) (int, error)
	Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
	Close() error
}

// Open builds the store selected by cfg.StoreDriver
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return NewRedisStore(client), nil
	case config.StoreSQLite:
		return OpenSQLite(cfg.SQLitePath)
	case config.StoreMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// rank orders entries by score, then player id, and numbers them from 1
func rank(entries []model.LeaderboardEntry, limit int) []model.LeaderboardEntry {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
