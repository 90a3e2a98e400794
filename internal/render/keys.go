package render

import "truthordare/internal/engine"

const (
	keyJoined        = "note.joined"
	keyLeft          = "note.left"
	keyRemoved       = "note.removed"
	keyStarted       = "note.started"
	keyStopped       = "note.stopped"
	keyReset         = "note.reset"
	keyRosterEmpty   = "note.roster_empty"
	keyTurn          = "note.turn"
	keyChooseVariant = "note.choose_variant"
	keyPrompt        = "note.prompt"
	keyPromptChanged = "note.prompt_changed"
	keyPromptSent    = "note.prompt_sent"
	keyAnswered      = "note.answered"
	keyDeclined      = "note.declined"
	keyTimedOut      = "note.timed_out"
	keySkipped       = "note.skipped"

	keyHelp = "help"

	keyModeTruth = "mode.truth"
	keyModeDare  = "mode.dare"

	keyErrNotAuthorized   = "error.not_authorized"
	keyErrNotYourTurn     = "error.not_your_turn"
	keyErrWrongStage      = "error.wrong_stage"
	keyErrChangeLimit     = "error.change_limit"
	keyErrNoQuestions     = "error.no_questions"
	keyErrEmptyRoster     = "error.empty_roster"
	keyErrAlreadyJoined   = "error.already_joined"
	keyErrNotInRoster     = "error.not_in_roster"
	keyErrAlreadyRunning  = "error.already_running"
	keyErrNotRunning      = "error.not_running"
	keyErrTurnInProgress  = "error.turn_in_progress"
	keyErrSessionNotFound = "error.session_not_found"
	keyErrGeneric         = "error.generic"
)

var errorKeys = map[error]string{
	engine.ErrNotAuthorized:        keyErrNotAuthorized,
	engine.ErrNotYourTurn:          keyErrNotYourTurn,
	engine.ErrWrongStage:           keyErrWrongStage,
	engine.ErrChangeLimitReached:   keyErrChangeLimit,
	engine.ErrNoQuestionsAvailable: keyErrNoQuestions,
	engine.ErrEmptyRoster:          keyErrEmptyRoster,
	engine.ErrAlreadyJoined:        keyErrAlreadyJoined,
	engine.ErrNotInRoster:          keyErrNotInRoster,
	engine.ErrAlreadyRunning:       keyErrAlreadyRunning,
	engine.ErrNotRunning:           keyErrNotRunning,
	engine.ErrTurnInProgress:       keyErrTurnInProgress,
	engine.ErrSessionNotFound:      keyErrSessionNotFound,
}
