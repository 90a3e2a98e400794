package engine

import (
	"time"

	"truthordare/internal/config"
	"truthordare/internal/model"
)

type timerOp int

const (
	timerKeep timerOp = iota
	timerSchedule
	timerCancel
)

// transition applies one event to a private copy of a session and collects
// its effects. Nothing leaves the transition until the store commit succeeds.
type transition struct {
	rules config.Rules
	now   time.Time
	s     *model.Session

	notes   []model.Notification
	deltas  []model.ScoreDelta
	records []*model.TurnRecord
	deleted bool

	timer      timerOp
	timerToken model.TurnToken
	timerAfter time.Duration
}

func newTransition(rules config.Rules, now time.Time, s *model.Session) *transition {
	return &transition{rules: rules, now: now, s: s}
}

func (t *transition) note(n model.Notification) {
	n.SessionID = t.s.ID
	t.notes = append(t.notes, n)
}

func (t *transition) schedule(d time.Duration) {
	t.timer = timerSchedule
	t.timerToken = t.s.Token()
	t.timerAfter = d
}

func (t *transition) cancel() {
	t.timer = timerCancel
}

func (t *transition) remaining() time.Duration {
	if t.s.Deadline == nil {
		return t.rules.TurnTimeout
	}
	d := t.s.Deadline.Sub(t.now)
	if d < 0 {
		return 0
	}
	return d
}

func (t *transition) setDeadline(d time.Duration) {
	deadline := t.now.Add(d)
	t.s.Deadline = &deadline
}

// start shuffles the roster once and hands the first turn to index 0.
func (t *transition) start(shuffle func([]string)) error {
	s := t.s
	if s.Running() {
		return ErrAlreadyRunning
	}
	if len(s.Players) == 0 {
		return ErrEmptyRoster
	}
	shuffle(s.Players)
	s.Status = model.SessionRunning
	t.note(model.Notification{Kind: model.NoteGameStarted, Players: len(s.Players)})
	t.beginTurn(0)
	return nil
}

// stop moves any state to STOPPED, keeping roster and scores.
func (t *transition) stop(kind model.NotificationKind) {
	s := t.s
	s.Status = model.SessionStopped
	s.Stage = model.StageStopped
	s.ActiveIndex = -1
	t.clearTurn()
	t.cancel()
	t.note(model.Notification{Kind: kind, Players: len(s.Players), ReplacesMessageID: s.LastMessageID})
	s.LastMessageID = ""
}

func (t *transition) clearTurn() {
	s := t.s
	s.Mode = ""
	s.Category = ""
	s.Prompt = ""
	s.Deadline = nil
	s.ChangeCounts = make(map[string]int)
}

// advance passes the turn to the next player, or stops an empty session.
func (t *transition) advance() {
	s := t.s
	if len(s.Players) == 0 {
		t.stop(model.NoteRosterEmpty)
		return
	}
	t.beginTurn((s.ActiveIndex + 1) % len(s.Players))
}

func (t *transition) beginTurn(index int) {
	s := t.s
	s.Turn++
	s.ActiveIndex = index
	s.Stage = model.StageChoosingMode
	t.clearTurn()
	t.setDeadline(t.rules.TurnTimeout)
	t.schedule(t.rules.TurnTimeout)

	t.note(model.Notification{
		Kind:              model.NoteTurn,
		PlayerID:          s.Players[index],
		Turn:              s.Turn,
		Players:           len(s.Players),
		Deadline:          s.Deadline,
		RemainingSec:      int(t.rules.TurnTimeout / time.Second),
		ReplacesMessageID: s.LastMessageID,
	})
	s.LastMessageID = ""
}

func (t *transition) join(playerID string) error {
	s := t.s
	if s.IndexOf(playerID) >= 0 {
		return ErrAlreadyJoined
	}
	s.Players = append(s.Players, playerID)
	t.note(model.Notification{Kind: model.NoteJoined, PlayerID: playerID, Players: len(s.Players)})
	return nil
}

func (t *transition) leave(playerID string) error {
	s := t.s
	idx := s.IndexOf(playerID)
	if idx < 0 {
		return ErrNotInRoster
	}
	if s.Running() && idx == s.ActiveIndex {
		return ErrTurnInProgress
	}
	t.dropPlayer(idx)
	t.note(model.Notification{Kind: model.NoteLeft, PlayerID: playerID, Players: len(s.Players)})
	return nil
}

// remove is the operator-forced removal; it may hit the active player.
func (t *transition) remove(playerID string) error {
	s := t.s
	idx := s.IndexOf(playerID)
	if idx < 0 {
		return ErrNotInRoster
	}
	wasActive := s.Running() && idx == s.ActiveIndex
	if wasActive {
		t.record(playerID, model.ResultRemoved, 0)
	}
	t.dropPlayer(idx)
	t.note(model.Notification{Kind: model.NoteRemoved, PlayerID: playerID, Players: len(s.Players)})

	if !wasActive {
		return nil
	}
	if len(s.Players) == 0 {
		t.stop(model.NoteRosterEmpty)
		return nil
	}
	// The player after the removed one slid into idx
	s.ActiveIndex = idx - 1
	t.advance()
	return nil
}

func (t *transition) dropPlayer(idx int) {
	s := t.s
	delete(s.ChangeCounts, s.Players[idx])
	s.Players = append(s.Players[:idx], s.Players[idx+1:]...)
	if s.Running() && idx < s.ActiveIndex {
		s.ActiveIndex--
		// The index is part of the token
		t.schedule(t.remaining())
	}
}

func (t *transition) skip() error {
	s := t.s
	if !s.Running() {
		return ErrNotRunning
	}
	player, _ := s.ActivePlayer()
	t.record(player, model.ResultSkipped, 0)
	t.note(model.Notification{Kind: model.NoteSkipped, PlayerID: player, Turn: s.Turn})
	t.advance()
	return nil
}

func (t *transition) reset() {
	t.deleted = true
	t.cancel()
	t.note(model.Notification{Kind: model.NoteGameReset, ReplacesMessageID: t.s.LastMessageID})
}

// checkTurn rejects turn-scoped actions not addressed to the live turn.
func (t *transition) checkTurn(act model.Action, stage model.TurnStage) error {
	s := t.s
	if !s.Running() {
		return ErrNotRunning
	}
	active, ok := s.ActivePlayer()
	if !ok || act.Actor != active {
		return ErrNotYourTurn
	}
	if act.Target != "" && act.Target != active {
		return ErrNotYourTurn
	}
	if act.Turn != 0 && act.Turn != s.Turn {
		return ErrNotYourTurn
	}
	if s.Stage != stage {
		return ErrWrongStage
	}
	return nil
}

func (t *transition) chooseMode(mode model.Mode) {
	s := t.s
	s.Mode = mode
	s.Stage = model.StageChoosingCategory
	t.schedule(t.remaining())

	player, _ := s.ActivePlayer()
	t.note(model.Notification{
		Kind:         model.NoteChooseVariant,
		PlayerID:     player,
		Turn:         s.Turn,
		Mode:         mode,
		Deadline:     s.Deadline,
		RemainingSec: int(t.remaining() / time.Second),
	})
}

func (t *transition) chooseCategory(category model.Category, pick pickFunc) error {
	s := t.s
	prompt, used, err := pick(s.RecentPrompts[string(category)], "")
	if err != nil {
		return err
	}
	s.Category = category
	s.Prompt = prompt
	s.RecentPrompts[string(category)] = used
	s.Stage = model.StageAwaitingResponse
	t.setDeadline(t.rules.TurnTimeout)
	t.schedule(t.rules.TurnTimeout)

	player, _ := s.ActivePlayer()
	t.note(t.promptNote(model.NotePrompt, player))
	t.note(model.Notification{Kind: model.NotePromptSent, PlayerID: player, Turn: s.Turn, Mode: s.Mode})
	return nil
}

func (t *transition) change(pick pickFunc) error {
	s := t.s
	player, _ := s.ActivePlayer()
	if s.ChangeCounts[player] >= t.rules.MaxChanges {
		return ErrChangeLimitReached
	}
	prompt, used, err := pick(s.RecentPrompts[string(s.Category)], s.Prompt)
	if err != nil {
		return err
	}
	s.Prompt = prompt
	s.RecentPrompts[string(s.Category)] = used
	s.ChangeCounts[player]++

	if t.rules.ChangeTimerPolicy == config.ChangeResetsTimer {
		t.setDeadline(t.rules.TurnTimeout)
	}
	// The token changed with the count, so the countdown is re-armed either way
	t.schedule(t.remaining())

	t.note(t.promptNote(model.NotePromptChanged, player))
	return nil
}

func (t *transition) respond(result model.TurnResult) {
	s := t.s
	player, _ := s.ActivePlayer()

	var points int
	var kind model.NotificationKind
	switch result {
	case model.ResultDone:
		points = t.rules.TruthReward
		if s.Mode == model.ModeDare {
			points = t.rules.DareReward
		}
		kind = model.NoteAnswered
	case model.ResultDeclined:
		points = t.rules.Penalty
		kind = model.NoteDeclined
	default:
		points = t.rules.Penalty
		kind = model.NoteTimedOut
	}

	t.deltas = append(t.deltas, model.ScoreDelta{PlayerID: player, Points: points})
	t.record(player, result, points)
	t.note(model.Notification{Kind: kind, PlayerID: player, Turn: s.Turn, Mode: s.Mode, Points: points})
	t.advance()
}

func (t *transition) record(player string, result model.TurnResult, points int) {
	s := t.s
	t.records = append(t.records, &model.TurnRecord{
		SessionID: s.ID,
		Turn:      s.Turn,
		PlayerID:  player,
		Mode:      s.Mode,
		Category:  s.Category,
		Prompt:    s.Prompt,
		Result:    result,
		Points:    points,
		Changes:   s.ChangeCounts[player],
		EndedAt:   t.now,
	})
}

func (t *transition) promptNote(kind model.NotificationKind, player string) model.Notification {
	s := t.s
	used := s.ChangeCounts[player]
	left := t.rules.MaxChanges - used
	if left < 0 {
		left = 0
	}
	return model.Notification{
		Kind:         kind,
		PlayerID:     player,
		Private:      true,
		Turn:         s.Turn,
		Mode:         s.Mode,
		Category:     s.Category,
		Prompt:       s.Prompt,
		ChangesUsed:  used,
		ChangesLeft:  left,
		Deadline:     s.Deadline,
		RemainingSec: int(t.remaining() / time.Second),
	}
}

// pickFunc draws a prompt given the used set and the prompt to avoid.
type pickFunc func(used []string, exclude string) (string, []string, error)
