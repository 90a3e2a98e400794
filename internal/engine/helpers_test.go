package engine

import (
	"context"
	"errors"
	"math/rand/v2"
	"sort"
	"sync"
	"testing"
	"time"

	"truthordare/internal/config"
	"truthordare/internal/model"
)

const operatorID = "op"

// fakeStore is an in-memory Store with failure injection.
type fakeStore struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
	scores   map[string]int
	commits  int
	failNext error
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: map[string]*model.Session{}, scores: map[string]int{}}
}

func (f *fakeStore) Load(_ context.Context, id string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	return s.Clone(), nil
}

func (f *fakeStore) Commit(_ context.Context, s *model.Session, deltas ...model.ScoreDelta) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failNext; err != nil {
		f.failNext = nil
		return err
	}
	f.sessions[s.ID] = s.Clone()
	for _, d := range deltas {
		f.scores[d.PlayerID] += d.Points
	}
	f.commits++
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeStore) SessionIDs(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.sessions))
	for id := range f.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeStore) Score(_ context.Context, playerID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scores[playerID], nil
}

func (f *fakeStore) Top(_ context.Context, limit int) ([]model.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.LeaderboardEntry, 0, len(f.scores))
	for id, score := range f.scores {
		out = append(out, model.LeaderboardEntry{PlayerID: id, Score: score})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

func (f *fakeStore) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	sum := 0
	for _, v := range f.scores {
		sum += v
	}
	return sum
}

type fakeBank map[model.Category][]string

func (b fakeBank) ListPrompts(_ context.Context, c model.Category) ([]string, error) {
	return b[c], nil
}

func defaultBank() fakeBank {
	return fakeBank{
		model.CategoryTruthBoy:  {"tb1", "tb2", "tb3"},
		model.CategoryTruthGirl: {"tg1", "tg2"},
		model.CategoryDareBoy:   {"db1", "db2", "db3"},
		model.CategoryDareGirl:  {"dg1"},
	}
}

type manualTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

// manualClock replaces time.AfterFunc; timers only run when fired explicitly.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*manualTimer
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func (c *manualClock) AfterFunc(d time.Duration, f func()) func() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if t.stopped || t.fired {
			return false
		}
		t.stopped = true
		return true
	}
}

// last returns the most recently armed timer.
func (c *manualClock) last() *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.timers) == 0 {
		return nil
	}
	return c.timers[len(c.timers)-1]
}

// fire runs t even when it was stopped, like a timer that already started
// executing when Stop was called.
func (c *manualClock) fire(t *manualTimer) {
	c.mu.Lock()
	t.fired = true
	c.mu.Unlock()
	t.f()
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []model.Notification
}

func (r *recordingNotifier) Notify(_ context.Context, _ string, notes []model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, notes...)
}

func (r *recordingNotifier) kinds() []model.NotificationKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.NotificationKind, len(r.notes))
	for i, n := range r.notes {
		out[i] = n.Kind
	}
	return out
}

type recordingRecorder struct {
	mu      sync.Mutex
	records []*model.TurnRecord
	err     error
}

func (r *recordingRecorder) RecordTurn(_ context.Context, rec *model.TurnRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return r.err
}

type harness struct {
	t        *testing.T
	engine   *Engine
	store    *fakeStore
	clock    *manualClock
	notifier *recordingNotifier
	recorder *recordingRecorder
}

func newHarness(t *testing.T, rules config.Rules, bank QuestionBank) *harness {
	t.Helper()
	h := &harness{
		t:        t,
		store:    newFakeStore(),
		clock:    newManualClock(),
		notifier: &recordingNotifier{},
		recorder: &recordingRecorder{},
	}
	if bank == nil {
		bank = defaultBank()
	}
	h.engine = New(h.store, bank, func(id string) bool { return id == operatorID }, rules,
		WithNotifier(h.notifier),
		WithRecorder(h.recorder),
		WithRand(rand.New(rand.NewPCG(1, 2))),
		WithClock(h.clock.Now),
		WithAfterFunc(h.clock.AfterFunc),
	)
	t.Cleanup(h.engine.Close)
	return h
}

func (h *harness) apply(id string, act model.Action) (*model.Outcome, error) {
	return h.engine.Apply(context.Background(), id, act)
}

func (h *harness) mustApply(id string, act model.Action) *model.Outcome {
	h.t.Helper()
	out, err := h.apply(id, act)
	if err != nil {
		h.t.Fatalf("apply %s by %s: %v", act.Kind, act.Actor, err)
	}
	return out
}

func (h *harness) session(id string) *model.Session {
	h.t.Helper()
	s, err := h.store.Load(context.Background(), id)
	if err != nil || s == nil {
		h.t.Fatalf("load %s: %v", id, err)
	}
	return s
}

func (h *harness) active(id string) string {
	h.t.Helper()
	p, ok := h.session(id).ActivePlayer()
	if !ok {
		h.t.Fatalf("session %s has no active player", id)
	}
	return p
}

// startGame joins players and starts the session.
func (h *harness) startGame(id string, players ...string) {
	h.t.Helper()
	for _, p := range players {
		h.mustApply(id, model.Action{Kind: model.ActionJoin, Actor: p})
	}
	h.mustApply(id, model.Action{Kind: model.ActionStart, Actor: operatorID})
}

// toPrompt drives the active player to AWAITING_RESPONSE.
func (h *harness) toPrompt(id string, mode model.Mode, variant model.Variant) string {
	h.t.Helper()
	p := h.active(id)
	h.mustApply(id, model.Action{Kind: model.ActionChooseMode, Actor: p, Mode: mode})
	h.mustApply(id, model.Action{Kind: model.ActionChooseCategory, Actor: p, Variant: variant})
	return p
}

func (h *harness) score(playerID string) int {
	h.t.Helper()
	v, _ := h.store.Score(context.Background(), playerID)
	return v
}

func assertErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}
