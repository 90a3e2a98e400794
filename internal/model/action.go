package model

import "time"

// ActionKind is the tag of an inbound action
type ActionKind string

const (
	ActionStart          ActionKind = "start"
	ActionStop           ActionKind = "stop"
	ActionJoin           ActionKind = "join"
	ActionLeave          ActionKind = "leave"
	ActionRemove         ActionKind = "remove" // Operator-forced roster removal
	ActionReset          ActionKind = "reset"  // Operator deletes the whole session
	ActionSkip           ActionKind = "skip"
	ActionChooseMode     ActionKind = "choose-mode"
	ActionChooseCategory ActionKind = "choose-category"
	ActionDone           ActionKind = "respond-done"
	ActionDecline        ActionKind = "respond-decline"
	ActionChange         ActionKind = "respond-change"
)

var actionKinds = map[ActionKind]bool{
	ActionStart: true, ActionStop: true, ActionJoin: true, ActionLeave: true,
	ActionRemove: true, ActionReset: true, ActionSkip: true,
	ActionChooseMode: true, ActionChooseCategory: true,
	ActionDone: true, ActionDecline: true, ActionChange: true,
}

// Valid reports whether k is a known action kind
func (k ActionKind) Valid() bool {
	return actionKinds[k]
}

// OperatorOnly reports whether the action requires the operator
func (k ActionKind) OperatorOnly() bool {
	switch k {
	case ActionStart, ActionStop, ActionSkip, ActionRemove, ActionReset:
		return true
	}
	return false
}

// TurnScoped reports whether the action must come from the active player
func (k ActionKind) TurnScoped() bool {
	switch k {
	case ActionChooseMode, ActionChooseCategory, ActionDone, ActionDecline, ActionChange:
		return true
	}
	return false
}

// Action is a validated inbound event for one session
type Action struct {
	ID      string     `json:"id,omitempty"` // Correlation id for logs
	Kind    ActionKind `json:"kind"`
	Actor   string     `json:"actor"`
	Target  string     `json:"target,omitempty"`  // Player the action is addressed to
	Mode    Mode       `json:"mode,omitempty"`    // choose-mode
	Variant Variant    `json:"variant,omitempty"` // choose-category
	Turn    int64      `json:"turn,omitempty"`    // Turn the action was issued for; 0 = current
}

// ScoreDelta is one signed change to the ledger
type ScoreDelta struct {
	PlayerID string `json:"playerId"`
	Points   int    `json:"points"`
}

// TurnResult describes how a turn ended
type TurnResult string

const (
	ResultDone     TurnResult = "done"
	ResultDeclined TurnResult = "declined"
	ResultTimeout  TurnResult = "timeout"
	ResultSkipped  TurnResult = "skipped"
	ResultRemoved  TurnResult = "removed"
)

// TurnRecord is the history entry written when a turn resolves
type TurnRecord struct {
	ID        string     `json:"id" bson:"_id,omitempty"`
	SessionID string     `json:"sessionId" bson:"sessionId"`
	Turn      int64      `json:"turn" bson:"turn"`
	PlayerID  string     `json:"playerId" bson:"playerId"`
	Mode      Mode       `json:"mode,omitempty" bson:"mode,omitempty"`
	Category  Category   `json:"category,omitempty" bson:"category,omitempty"`
	Prompt    string     `json:"prompt,omitempty" bson:"prompt,omitempty"`
	Result    TurnResult `json:"result" bson:"result"`
	Points    int        `json:"points" bson:"points"`
	Changes   int        `json:"changes" bson:"changes"`
	EndedAt   time.Time  `json:"endedAt" bson:"endedAt"`
}

// Outcome is returned by a successful action
type Outcome struct {
	Session       *Session       `json:"session,omitempty"`
	Delta         *ScoreDelta    `json:"delta,omitempty"`
	Notifications []Notification `json:"notifications"`
}
