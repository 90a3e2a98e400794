package model

import "time"

// NotificationKind tells the transport what to render
type NotificationKind string

const (
	NoteJoined        NotificationKind = "player_joined"
	NoteLeft          NotificationKind = "player_left"
	NoteRemoved       NotificationKind = "player_removed"
	NoteGameStarted   NotificationKind = "game_started"
	NoteGameStopped   NotificationKind = "game_stopped"
	NoteGameReset     NotificationKind = "game_reset"
	NoteRosterEmpty   NotificationKind = "roster_empty"
	NoteTurn          NotificationKind = "turn"           // Active player must choose truth/dare
	NoteChooseVariant NotificationKind = "choose_variant" // Active player must choose boy/girl
	NotePrompt        NotificationKind = "prompt"
	NotePromptChanged NotificationKind = "prompt_changed"
	NotePromptSent    NotificationKind = "prompt_sent" // Group notice that the prompt went out privately
	NoteAnswered      NotificationKind = "answered"
	NoteDeclined      NotificationKind = "declined"
	NoteTimedOut      NotificationKind = "timed_out"
	NoteSkipped       NotificationKind = "skipped"
)

// Notification is an outbound descriptor; transports render it
type Notification struct {
	Kind              NotificationKind `json:"kind"`
	SessionID         string           `json:"sessionId"`
	PlayerID          string           `json:"playerId,omitempty"`
	Private           bool             `json:"private,omitempty"` // Deliver to PlayerID only
	Turn              int64            `json:"turn,omitempty"`
	Mode              Mode             `json:"mode,omitempty"`
	Category          Category         `json:"category,omitempty"`
	Prompt            string           `json:"prompt,omitempty"`
	Points            int              `json:"points,omitempty"`
	Players           int              `json:"players,omitempty"`
	ChangesUsed       int              `json:"changesUsed,omitempty"`
	ChangesLeft       int              `json:"changesLeft,omitempty"`
	Deadline          *time.Time       `json:"deadline,omitempty"`
	RemainingSec      int              `json:"remainingSec,omitempty"`
	ReplacesMessageID string           `json:"replacesMessageId,omitempty"`
}
