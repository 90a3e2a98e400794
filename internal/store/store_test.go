package store

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"truthordare/internal/config"
	"truthordare/internal/model"
)

func newRedisStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func newSQLiteStore(t *testing.T) Store {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func drivers(t *testing.T) map[string]Store {
	redisStore, _ := newRedisStore(t)
	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  redisStore,
		"sqlite": newSQLiteStore(t),
	}
}

func TestStoreSessions(t *testing.T) {
	ctx := context.Background()
	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			got, err := s.Load(ctx, "missing")
			if err != nil || got != nil {
				t.Fatalf("load missing = %v, %v; want nil, nil", got, err)
			}

			sess := model.NewSession("chat-1")
			sess.Players = []string{"A", "B"}
			sess.Status = model.SessionRunning
			sess.Stage = model.StageAwaitingResponse
			sess.ActiveIndex = 1
			sess.Turn = 4
			sess.ChangeCounts["B"] = 1
			sess.RecentPrompts["truth_boy"] = []string{"q1"}
			if err := s.Commit(ctx, sess); err != nil {
				t.Fatalf("commit: %v", err)
			}

			got, err = s.Load(ctx, "chat-1")
			if err != nil || got == nil {
				t.Fatalf("load: %v", err)
			}
			if got.Token() != sess.Token() {
				t.Errorf("token = %v, want %v", got.Token(), sess.Token())
			}
			if got.RecentPrompts["truth_boy"][0] != "q1" {
				t.Errorf("recent prompts = %v", got.RecentPrompts)
			}

			if err := s.Commit(ctx, model.NewSession("chat-0")); err != nil {
				t.Fatalf("commit: %v", err)
			}
			ids, err := s.SessionIDs(ctx)
			if err != nil || len(ids) != 2 || ids[0] != "chat-0" || ids[1] != "chat-1" {
				t.Errorf("ids = %v, %v", ids, err)
			}

			if err := s.Delete(ctx, "chat-1"); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if got, _ := s.Load(ctx, "chat-1"); got != nil {
				t.Errorf("session survived delete")
			}
			if ids, _ := s.SessionIDs(ctx); len(ids) != 1 {
				t.Errorf("ids after delete = %v", ids)
			}
		})
	}
}

func TestStoreLedger(t *testing.T) {
	ctx := context.Background()
	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			sess := model.NewSession("chat-1")
			steps := [][]model.ScoreDelta{
				{{PlayerID: "A", Points: 2}},
				{{PlayerID: "B", Points: -1}},
				{{PlayerID: "A", Points: 1}},
				{{PlayerID: "C", Points: 3}},
				nil,
			}
			for _, deltas := range steps {
				if err := s.Commit(ctx, sess, deltas...); err != nil {
					t.Fatalf("commit: %v", err)
				}
			}

			for player, want := range map[string]int{"A": 3, "B": -1, "C": 3, "nobody": 0} {
				got, err := s.Score(ctx, player)
				if err != nil || got != want {
					t.Errorf("score(%s) = %d, %v; want %d", player, got, err, want)
				}
			}

			top, err := s.Top(ctx, 2)
			if err != nil {
				t.Fatalf("top: %v", err)
			}
			if len(top) != 2 {
				t.Fatalf("top = %+v", top)
			}
			for _, e := range top {
				if e.Score != 3 {
					t.Errorf("entry %+v, want score 3", e)
				}
			}
			if top[0].Rank != 1 || top[1].Rank != 2 {
				t.Errorf("ranks = %d, %d", top[0].Rank, top[1].Rank)
			}
		})
	}
}

func TestStoreTopTieAtCutoff(t *testing.T) {
	ctx := context.Background()
	for name, s := range drivers(t) {
		t.Run(name, func(t *testing.T) {
			sess := model.NewSession("chat-1")
			deltas := []model.ScoreDelta{
				{PlayerID: "D", Points: 1},
				{PlayerID: "B", Points: 1},
				{PlayerID: "C", Points: 5},
				{PlayerID: "A", Points: 1},
			}
			if err := s.Commit(ctx, sess, deltas...); err != nil {
				t.Fatalf("commit: %v", err)
			}

			tests := []struct {
				limit int
				want  []string
			}{
				{1, []string{"C"}},
				{2, []string{"C", "A"}},
				{3, []string{"C", "A", "B"}},
				{10, []string{"C", "A", "B", "D"}},
			}
			for _, tt := range tests {
				top, err := s.Top(ctx, tt.limit)
				if err != nil {
					t.Fatalf("top(%d): %v", tt.limit, err)
				}
				got := make([]string, len(top))
				for i, e := range top {
					got[i] = e.PlayerID
					if e.Rank != i+1 {
						t.Errorf("top(%d)[%d].Rank = %d", tt.limit, i, e.Rank)
					}
				}
				if !slices.Equal(got, tt.want) {
					t.Errorf("top(%d) = %v, want %v", tt.limit, got, tt.want)
				}
			}
		})
	}
}

func TestRedisCommitIsAtomic(t *testing.T) {
	ctx := context.Background()
	s, mr := newRedisStore(t)

	mr.SetError("server down")
	err := s.Commit(ctx, model.NewSession("chat-1"), model.ScoreDelta{PlayerID: "A", Points: 2})
	if err == nil {
		t.Fatal("expected commit error")
	}
	mr.SetError("")

	if got, _ := s.Load(ctx, "chat-1"); got != nil {
		t.Errorf("session written despite failure")
	}
	if score, _ := s.Score(ctx, "A"); score != 0 {
		t.Errorf("score = %d, want 0", score)
	}
	if mr.Exists("tod:session:chat-1") {
		t.Errorf("key present")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	tests := []struct {
		name    string
		cfg     config.Config
		wantErr bool
	}{
		{"memory", config.Config{StoreDriver: config.StoreMemory}, false},
		{"redis", config.Config{StoreDriver: config.StoreRedis, RedisAddr: mr.Addr()}, false},
		{"sqlite", config.Config{StoreDriver: config.StoreSQLite, SQLitePath: filepath.Join(t.TempDir(), "s.db")}, false},
		{"sqlite no path", config.Config{StoreDriver: config.StoreSQLite}, true},
		{"unknown", config.Config{StoreDriver: "etcd"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, &tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if s != nil {
				s.Close()
			}
		})
	}
}
