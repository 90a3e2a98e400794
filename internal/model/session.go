package model

import (
	"fmt"
	"time"
)

// SessionStatus is the lifecycle flag of a session
type SessionStatus string

const (
	SessionIdle    SessionStatus = "idle"
	SessionRunning SessionStatus = "running"
	SessionStopped SessionStatus = "stopped"
)

// TurnStage is the stage of the turn state machine
type TurnStage string

const (
	StageIdle             TurnStage = "IDLE"
	StageChoosingMode     TurnStage = "CHOOSING_MODE"
	StageChoosingCategory TurnStage = "CHOOSING_CATEGORY"
	StageAwaitingResponse TurnStage = "AWAITING_RESPONSE"
	StageStopped          TurnStage = "STOPPED"
)

// Mode is the truth/dare selection of a turn
type Mode string

const (
	ModeTruth Mode = "truth"
	ModeDare  Mode = "dare"
)

// Valid reports whether m is a known mode
func (m Mode) Valid() bool {
	return m == ModeTruth || m == ModeDare
}

// Variant selects the prompt audience within a mode
type Variant string

const (
	VariantBoy  Variant = "boy"
	VariantGirl Variant = "girl"
)

// Valid reports whether v is a known variant
func (v Variant) Valid() bool {
	return v == VariantBoy || v == VariantGirl
}

// Category is a (mode, variant) pairing naming one prompt pool, e.g. "truth_boy"
type Category string

const (
	CategoryTruthBoy  Category = "truth_boy"
	CategoryTruthGirl Category = "truth_girl"
	CategoryDareBoy   Category = "dare_boy"
	CategoryDareGirl  Category = "dare_girl"
)

// Categories lists every prompt pool in a stable order
var Categories = []Category{CategoryTruthBoy, CategoryTruthGirl, CategoryDareBoy, CategoryDareGirl}

// NewCategory builds the category key for a mode and variant
func NewCategory(mode Mode, variant Variant) Category {
	return Category(string(mode) + "_" + string(variant))
}

// ParseCategory validates a category key
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Mode returns the mode half of the category
func (c Category) Mode() Mode {
	for _, m := range []Mode{ModeTruth, ModeDare} {
		if len(c) > len(m) && string(c[:len(m)]) == string(m) {
			return m
		}
	}
	return ""
}

// Session is the persisted state of one game bound to one chat/room
type Session struct {
	ID            string              `json:"id" bson:"_id"`
	Players       []string            `json:"players" bson:"players"`         // Turn order, shuffled at start
	ActiveIndex   int                 `json:"activeIndex" bson:"activeIndex"` // -1 when no turn is in progress
	Status        SessionStatus       `json:"status" bson:"status"`
	Stage         TurnStage           `json:"stage" bson:"stage"`
	Turn          int64               `json:"turn" bson:"turn"` // Incremented every time a turn begins
	Mode          Mode                `json:"mode,omitempty" bson:"mode,omitempty"`
	Category      Category            `json:"category,omitempty" bson:"category,omitempty"`
	Prompt        string              `json:"prompt,omitempty" bson:"prompt,omitempty"`
	ChangeCounts  map[string]int      `json:"changeCounts" bson:"changeCounts"`   // Per player, current turn only
	RecentPrompts map[string][]string `json:"recentPrompts" bson:"recentPrompts"` // Per category
	Deadline      *time.Time          `json:"deadline,omitempty" bson:"deadline,omitempty"`
	LastMessageID string              `json:"lastMessageId,omitempty" bson:"lastMessageId,omitempty"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// NewSession returns a fresh idle session
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:            id,
		Players:       []string{},
		ActiveIndex:   -1,
		Status:        SessionIdle,
		Stage:         StageIdle,
		ChangeCounts:  make(map[string]int),
		RecentPrompts: make(map[string][]string),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Running reports whether the session has a turn in progress
func (s *Session) Running() bool {
	return s.Status == SessionRunning
}

// ActivePlayer returns the id of the player whose turn it is
func (s *Session) ActivePlayer() (string, bool) {
	if !s.Running() || s.ActiveIndex < 0 || s.ActiveIndex >= len(s.Players) {
		return "", false
	}
	return s.Players[s.ActiveIndex], true
}

// IndexOf returns the roster position of a player or -1
func (s *Session) IndexOf(playerID string) int {
	for i, p := range s.Players {
		if p == playerID {
			return i
		}
	}
	return -1
}

// ChangesUsed returns how many prompt changes the active player used this turn
func (s *Session) ChangesUsed() int {
	p, ok := s.ActivePlayer()
	if !ok {
		return 0
	}
	return s.ChangeCounts[p]
}

// Token derives the turn token from persisted fields. Any new turn, stage or
// prompt change yields a different token.
func (s *Session) Token() TurnToken {
	return TurnToken{
		Turn:    s.Turn,
		Index:   s.ActiveIndex,
		Stage:   s.Stage,
		Changes: s.ChangesUsed(),
	}
}

// Clone returns a deep copy so callers can mutate without touching the original
func (s *Session) Clone() *Session {
	c := *s
	c.Players = append([]string(nil), s.Players...)
	c.ChangeCounts = make(map[string]int, len(s.ChangeCounts))
	for k, v := range s.ChangeCounts {
		c.ChangeCounts[k] = v
	}
	c.RecentPrompts = make(map[string][]string, len(s.RecentPrompts))
	for k, v := range s.RecentPrompts {
		c.RecentPrompts[k] = append([]string(nil), v...)
	}
	if s.Deadline != nil {
		d := *s.Deadline
		c.Deadline = &d
	}
	return &c
}

// TurnToken identifies one turn/prompt instance for staleness checks
type TurnToken struct {
	Turn    int64     `json:"turn"`
	Index   int       `json:"index"`
	Stage   TurnStage `json:"stage"`
	Changes int       `json:"changes"`
}

func (t TurnToken) String() string {
	return fmt.Sprintf("%d/%d/%s/%d", t.Turn, t.Index, t.Stage, t.Changes)
}
