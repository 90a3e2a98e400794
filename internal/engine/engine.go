// Package engine is the turn orchestration core: it serializes every event of
// a session behind that session's exclusive section, applies the turn state
// machine to a private copy, commits the result together with its score delta
// and only then touches timers and notifies the transport.
package engine

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"truthordare/internal/config"
	"truthordare/internal/logging"
	"truthordare/internal/model"
)

// Store is the durable session store and score ledger.
type Store interface {
	// Load returns nil, nil when the session does not exist.
	Load(ctx context.Context, sessionID string) (*model.Session, error)
	// Commit saves the session and applies the deltas atomically.
	Commit(ctx context.Context, s *model.Session, deltas ...model.ScoreDelta) error
	Delete(ctx context.Context, sessionID string) error
	SessionIDs(ctx context.Context) ([]string, error)
	Score(ctx context.Context, playerID string) (int, error)
	Top(ctx context.Context, limit int) ([]model.LeaderboardEntry, error)
}

// QuestionBank lists the prompts of a category in bank order.
type QuestionBank interface {
	ListPrompts(ctx context.Context, category model.Category) ([]string, error)
}

// Notifier delivers outbound descriptors. Delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, sessionID string, notes []model.Notification)
}

// TurnRecorder keeps the history of resolved turns. Failures are logged only.
type TurnRecorder interface {
	RecordTurn(ctx context.Context, rec *model.TurnRecord) error
}

// Authorizer reports whether userID is the operator.
type Authorizer func(userID string) bool

// Engine applies actions and timeouts to sessions.
type Engine struct {
	store      Store
	bank       QuestionBank
	isOperator Authorizer
	rules      config.Rules

	notifier Notifier
	recorder TurnRecorder
	picker   *Picker
	timers   *TimerManager
	locks    *sessionLocks
	logger   *slog.Logger
	tracer   trace.Tracer
	now      func() time.Time

	after AfterFunc
	rng   *rand.Rand

	storeTimeout time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets where notifications go.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithRecorder sets the turn history sink.
func WithRecorder(r TurnRecorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRand sets the random source used for shuffling and prompt selection.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithAfterFunc overrides how countdowns are armed.
func WithAfterFunc(f AfterFunc) Option {
	return func(e *Engine) { e.after = f }
}

// New creates an engine.
func New(store Store, bank QuestionBank, isOperator Authorizer, rules config.Rules, opts ...Option) *Engine {
	e := &Engine{
		store:        store,
		bank:         bank,
		isOperator:   isOperator,
		rules:        rules,
		locks:        newSessionLocks(),
		logger:       logging.Nop(),
		tracer:       otel.Tracer("truthordare/engine"),
		now:          time.Now,
		storeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	e.picker = NewPicker(e.rng, rules.PickAttempts)
	e.timers = NewTimerManager(e.expire, e.after)
	return e
}

// Timers exposes the timer manager.
func (e *Engine) Timers() *TimerManager {
	return e.timers
}

// Close cancels every pending countdown.
func (e *Engine) Close() {
	e.timers.StopAll()
}

// result is what an exclusive section hands back once the lock is released.
type result struct {
	outcome *model.Outcome
	records []*model.TurnRecord
}

// Apply validates and applies one action to a session.
func (e *Engine) Apply(ctx context.Context, sessionID string, act model.Action) (*model.Outcome, error) {
	if act.ID == "" {
		act.ID = uuid.NewString()
	}
	ctx, span := e.tracer.Start(ctx, "engine.apply", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("action.kind", string(act.Kind)),
		attribute.String("action.id", act.ID),
	))
	defer span.End()

	logger := logging.WithSession(e.logger, sessionID).With("action", act.Kind, "actor", act.Actor, "action_id", act.ID)

	res, err := e.apply(ctx, sessionID, act)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if KindOf(err) == KindPersistence || KindOf(err) == KindInternal {
			span.RecordError(err)
			logger.Error("action failed", "error", err)
		} else {
			logger.Info("action rejected", "error", err, "kind", KindOf(err).String())
		}
		return nil, err
	}
	logger.Info("action applied",
		"stage", res.outcome.Session.Stage,
		"turn", res.outcome.Session.Turn)

	e.deliver(ctx, sessionID, res)
	return res.outcome, nil
}

func (e *Engine) apply(ctx context.Context, sessionID string, act model.Action) (*result, error) {
	if sessionID == "" {
		return nil, invalidf("missing session id")
	}
	if err := validate(act); err != nil {
		return nil, err
	}
	if act.Kind.OperatorOnly() && !e.isOperator(act.Actor) {
		return nil, ErrNotAuthorized
	}

	unlock := e.locks.lock(sessionID)
	defer unlock()

	current, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, persistence("load session", err)
	}
	if current == nil {
		if act.Kind == model.ActionReset {
			return nil, ErrSessionNotFound
		}
		current = model.NewSession(sessionID)
		current.CreatedAt = e.now()
	}

	t := newTransition(e.rules, e.now(), current.Clone())
	if err := e.dispatch(ctx, t, act); err != nil {
		return nil, err
	}
	return e.commit(ctx, t)
}

func (e *Engine) dispatch(ctx context.Context, t *transition, act model.Action) error {
	switch act.Kind {
	case model.ActionStart:
		return t.start(e.picker.Shuffle)
	case model.ActionStop:
		t.stop(model.NoteGameStopped)
		return nil
	case model.ActionJoin:
		return t.join(act.Actor)
	case model.ActionLeave:
		return t.leave(act.Actor)
	case model.ActionRemove:
		return t.remove(act.Target)
	case model.ActionReset:
		t.reset()
		return nil
	case model.ActionSkip:
		return t.skip()
	case model.ActionChooseMode:
		if err := t.checkTurn(act, model.StageChoosingMode); err != nil {
			return err
		}
		t.chooseMode(act.Mode)
		return nil
	case model.ActionChooseCategory:
		if err := t.checkTurn(act, model.StageChoosingCategory); err != nil {
			return err
		}
		// A category button from the other mode's keyboard
		if act.Mode != "" && act.Mode != t.s.Mode {
			return ErrWrongStage
		}
		category := model.NewCategory(t.s.Mode, act.Variant)
		return t.chooseCategory(category, e.pickFrom(ctx, category))
	case model.ActionChange:
		if err := t.checkTurn(act, model.StageAwaitingResponse); err != nil {
			return err
		}
		return t.change(e.pickFrom(ctx, t.s.Category))
	case model.ActionDone:
		if err := t.checkTurn(act, model.StageAwaitingResponse); err != nil {
			return err
		}
		t.respond(model.ResultDone)
		return nil
	case model.ActionDecline:
		if err := t.checkTurn(act, model.StageAwaitingResponse); err != nil {
			return err
		}
		t.respond(model.ResultDeclined)
		return nil
	}
	return invalidf("unknown action %q", act.Kind)
}

func (e *Engine) pickFrom(ctx context.Context, category model.Category) pickFunc {
	return func(used []string, exclude string) (string, []string, error) {
		pool, err := e.bank.ListPrompts(ctx, category)
		if err != nil {
			return "", nil, persistence("list prompts", err)
		}
		return e.picker.Pick(pool, exclude, used)
	}
}

// commit persists the transition, then applies its timer effect. Timers are
// untouched when the store fails.
func (e *Engine) commit(ctx context.Context, t *transition) (*result, error) {
	if t.deleted {
		if err := e.store.Delete(ctx, t.s.ID); err != nil {
			return nil, persistence("delete session", err)
		}
	} else {
		t.s.UpdatedAt = t.now
		if err := e.store.Commit(ctx, t.s, t.deltas...); err != nil {
			return nil, persistence("save session", err)
		}
	}

	switch t.timer {
	case timerSchedule:
		e.timers.Schedule(t.s.ID, t.timerToken, t.timerAfter)
	case timerCancel:
		e.timers.Cancel(t.s.ID)
	}

	out := &model.Outcome{Notifications: t.notes}
	if !t.deleted {
		out.Session = t.s.Clone()
	}
	if len(t.deltas) > 0 {
		d := t.deltas[0]
		out.Delta = &d
	}
	return &result{outcome: out, records: t.records}, nil
}

// deliver runs outside the exclusive section.
func (e *Engine) deliver(ctx context.Context, sessionID string, res *result) {
	if e.recorder != nil {
		for _, rec := range res.records {
			if err := e.recorder.RecordTurn(ctx, rec); err != nil {
				e.logger.Warn("failed to record turn", "session_id", sessionID, "error", err)
			}
		}
	}
	if e.notifier != nil && len(res.outcome.Notifications) > 0 {
		e.notifier.Notify(ctx, sessionID, res.outcome.Notifications)
	}
}

// expire is the timer callback. It applies the timeout only when the live
// token still equals the one captured at scheduling time.
func (e *Engine) expire(sessionID string, token model.TurnToken) {
	ctx, cancel := context.WithTimeout(context.Background(), e.storeTimeout)
	defer cancel()
	if _, err := e.Expire(ctx, sessionID, token); err != nil {
		logging.WithSession(e.logger, sessionID).Error("timeout failed", "token", token.String(), "error", err)
	}
}

// Expire applies the timeout transition for token. It reports false when the
// token is stale, in which case nothing changes.
func (e *Engine) Expire(ctx context.Context, sessionID string, token model.TurnToken) (bool, error) {
	ctx, span := e.tracer.Start(ctx, "engine.timeout", trace.WithAttributes(
		attribute.String("session.id", sessionID),
		attribute.String("turn.token", token.String()),
	))
	defer span.End()
	logger := logging.WithSession(e.logger, sessionID)

	res, fired, err := e.expireLocked(ctx, sessionID, token)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return false, err
	}
	span.SetAttributes(attribute.Bool("timer.fired", fired))
	if !fired {
		logger.Debug("stale timer discarded", "token", token.String())
		return false, nil
	}
	logger.Info("turn timed out", "token", token.String())
	e.deliver(ctx, sessionID, res)
	return true, nil
}

func (e *Engine) expireLocked(ctx context.Context, sessionID string, token model.TurnToken) (*result, bool, error) {
	unlock := e.locks.lock(sessionID)
	defer unlock()

	current, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, false, persistence("load session", err)
	}
	if current == nil || !current.Running() || current.Token() != token {
		return nil, false, nil
	}

	t := newTransition(e.rules, e.now(), current.Clone())
	t.respond(model.ResultTimeout)
	res, err := e.commit(ctx, t)
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

// RecordMessage remembers the id of the last outbound prompt message so the
// next announcement can replace it.
func (e *Engine) RecordMessage(ctx context.Context, sessionID, messageID string) error {
	unlock := e.locks.lock(sessionID)
	defer unlock()

	current, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return persistence("load session", err)
	}
	if current == nil {
		return ErrSessionNotFound
	}
	s := current.Clone()
	s.LastMessageID = messageID
	s.UpdatedAt = e.now()
	if err := e.store.Commit(ctx, s); err != nil {
		return persistence("save session", err)
	}
	return nil
}

// Session returns a snapshot of a session.
func (e *Engine) Session(ctx context.Context, sessionID string) (*model.Session, error) {
	s, err := e.store.Load(ctx, sessionID)
	if err != nil {
		return nil, persistence("load session", err)
	}
	if s == nil {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Leaderboard returns the top scores of the ledger.
func (e *Engine) Leaderboard(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	entries, err := e.store.Top(ctx, limit)
	if err != nil {
		return nil, persistence("load scores", err)
	}
	return entries, nil
}

// Recover re-arms the countdown of every running session from its persisted
// deadline. Deadlines already past fire immediately.
func (e *Engine) Recover(ctx context.Context) (int, error) {
	ids, err := e.store.SessionIDs(ctx)
	if err != nil {
		return 0, persistence("list sessions", err)
	}
	now := e.now()
	armed := 0
	for _, id := range ids {
		s, err := e.store.Load(ctx, id)
		if err != nil {
			return armed, persistence("load session", err)
		}
		if s == nil || !s.Running() {
			continue
		}
		d := e.rules.TurnTimeout
		if s.Deadline != nil {
			d = s.Deadline.Sub(now)
		}
		e.timers.Schedule(id, s.Token(), d)
		armed++
	}
	e.logger.Info("timers recovered", "count", armed)
	return armed, nil
}

func validate(act model.Action) error {
	if !act.Kind.Valid() {
		return invalidf("unknown action %q", act.Kind)
	}
	if act.Actor == "" {
		return invalidf("missing actor")
	}
	switch act.Kind {
	case model.ActionChooseMode:
		if !act.Mode.Valid() {
			return invalidf("unknown mode %q", act.Mode)
		}
	case model.ActionChooseCategory:
		if !act.Variant.Valid() {
			return invalidf("unknown variant %q", act.Variant)
		}
	case model.ActionRemove:
		if act.Target == "" {
			return invalidf("remove needs a target player")
		}
	}
	return nil
}
