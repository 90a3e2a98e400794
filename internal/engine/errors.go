package engine

import (
	"errors"
	"fmt"
)

// Kind classifies an engine error for the transports.
type Kind int

const (
	// KindInternal is any error the engine did not classify.
	KindInternal Kind = iota
	// KindAuthorization means a non-operator invoked an operator-only action.
	KindAuthorization
	// KindTurnMismatch means the action came from the wrong player or for a stale turn.
	KindTurnMismatch
	// KindCapacity means a bounded resource ran out (changes, roster, prompts).
	KindCapacity
	// KindConflict means the action does not fit the session lifecycle.
	KindConflict
	// KindValidation means the action payload itself is malformed.
	KindValidation
	// KindPersistence means the store failed; nothing was applied.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindTurnMismatch:
		return "turn_mismatch"
	case KindCapacity:
		return "capacity"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindPersistence:
		return "persistence"
	default:
		return "internal"
	}
}

// Sentinel errors reported back to callers. None of them mutate state.
var (
	ErrNotAuthorized        = newSentinel(KindAuthorization, "only the operator can do that")
	ErrNotYourTurn          = newSentinel(KindTurnMismatch, "not your turn")
	ErrWrongStage           = newSentinel(KindTurnMismatch, "action does not match the current turn stage")
	ErrChangeLimitReached   = newSentinel(KindCapacity, "prompt change limit reached")
	ErrNoQuestionsAvailable = newSentinel(KindCapacity, "no questions available for this category")
	ErrEmptyRoster          = newSentinel(KindCapacity, "no players have joined")
	ErrAlreadyJoined        = newSentinel(KindConflict, "already joined")
	ErrNotInRoster          = newSentinel(KindConflict, "not in the player list")
	ErrAlreadyRunning       = newSentinel(KindConflict, "game already running")
	ErrNotRunning           = newSentinel(KindConflict, "game is not running")
	ErrTurnInProgress       = newSentinel(KindConflict, "cannot leave during your own turn")
	ErrSessionNotFound      = newSentinel(KindConflict, "session not found")
	ErrInvalidAction        = newSentinel(KindValidation, "invalid action")
)

// Error is a classified engine error.
type Error struct {
	kind    Kind
	message string
	cause   error
}

func newSentinel(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the classification of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidAction, fmt.Sprintf(format, args...))
}

func persistence(op string, err error) error {
	return &Error{kind: KindPersistence, message: op, cause: err}
}

// KindOf returns the kind of err, or KindInternal when it is not an engine error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindInternal
}

// IsRetryable reports whether repeating the same action may succeed.
// Only store failures qualify: every other rejection is deterministic.
func IsRetryable(err error) bool {
	return KindOf(err) == KindPersistence
}

// IsUserFacing reports whether the message is safe to show to players.
func IsUserFacing(err error) bool {
	switch KindOf(err) {
	case KindInternal, KindPersistence:
		return false
	}
	return true
}
