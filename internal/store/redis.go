package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"truthordare/internal/model"
)

const (
	sessionIndexKey = "tod:sessions"
	scoresKey       = "tod:scores"
)

type redisStore struct {
	client *redis.Client
}

// NewRedisStore keeps sessions as JSON strings and the ledger in a ZSET
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (r *redisStore) sessionKey(id string) string {
	return fmt.Sprintf("tod:session:%s", id)
}

func (r *redisStore) Load(ctx context.Context, sessionID string) (*model.Session, error) {
	data, err := r.client.Get(ctx, r.sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s model.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	if s.ChangeCounts == nil {
		s.ChangeCounts = make(map[string]int)
	}
	if s.RecentPrompts == nil {
		s.RecentPrompts = make(map[string][]string)
	}
	return &s, nil
}

// Commit writes the session and its deltas in one MULTI/EXEC
func (r *redisStore) Commit(ctx context.Context, s *model.Session, deltas ...model.ScoreDelta) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.sessionKey(s.ID), data, 0)
		pipe.SAdd(ctx, sessionIndexKey, s.ID)
		for _, d := range deltas {
			pipe.ZIncrBy(ctx, scoresKey, float64(d.Points), d.PlayerID)
		}
		return nil
	})
	return err
}

func (r *redisStore) Delete(ctx context.Context, sessionID string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.sessionKey(sessionID))
		pipe.SRem(ctx, sessionIndexKey, sessionID)
		return nil
	})
	return err
}

func (r *redisStore) SessionIDs(ctx context.Context) ([]string, error) {
	ids, err := r.client.SMembers(ctx, sessionIndexKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *redisStore) Score(ctx context.Context, playerID string) (int, error) {
	score, err := r.client.ZScore(ctx, scoresKey, playerID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	return int(score), err
}

func (r *redisStore) Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	stop := int64(limit - 1)
	if limit <= 0 {
		stop = -1
	}
	results, err := r.client.ZRevRangeWithScores(ctx, scoresKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}

	// Redis orders equal scores by reverse member, so the cut may split a tie.
	// Refetch everything down to the cutoff score and let rank choose.
	if limit > 0 && len(results) == limit {
		cutoff := strconv.FormatFloat(results[len(results)-1].Score, 'f', -1, 64)
		results, err = r.client.ZRevRangeByScoreWithScores(ctx, scoresKey, &redis.ZRangeBy{
			Min: cutoff,
			Max: "+inf",
		}).Result()
		if err != nil {
			return nil, err
		}
	}

	entries := make([]model.LeaderboardEntry, len(results))
	for i, z := range results {
		entries[i] = model.LeaderboardEntry{
			PlayerID: z.Member.(string),
			Score:    int(z.Score),
		}
	}
	return rank(entries, limit), nil
}

func (r *redisStore) Close() error {
	return r.client.Close()
}
