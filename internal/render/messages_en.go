package render

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	message.SetString(lang, keyJoined, "%s joined the game (%d players).")
	message.SetString(lang, keyLeft, "%s left the game (%d players).")
	message.SetString(lang, keyRemoved, "%s was removed from the game (%d players).")
	message.SetString(lang, keyStarted, "The game has started with %d players!")
	message.SetString(lang, keyStopped, "The game was stopped.")
	message.SetString(lang, keyReset, "The game was reset.")
	message.SetString(lang, keyRosterEmpty, "No players left, the game has stopped.")
	message.SetString(lang, keyTurn, "It's %s's turn! Choose truth or dare. You have %d seconds.")
	message.SetString(lang, keyChooseVariant, "%s chose %s. Now pick boy or girl.")
	message.SetString(lang, keyPrompt, "Your %s: %s\n%d seconds left. Changes left: %d.")
	message.SetString(lang, keyPromptChanged, "New %s: %s\n%d seconds left. Changes used: %d, left: %d.")
	message.SetString(lang, keyPromptSent, "%s's %s was sent privately.")
	message.SetString(lang, keyAnswered, "%s completed the %s and earned %d points!")
	message.SetString(lang, keyDeclined, "%s declined and lost %d points.")
	message.SetString(lang, keyTimedOut, "Time is up for %s! %d points lost.")
	message.SetString(lang, keySkipped, "%s's turn was skipped.")

	message.SetString(lang, keyHelp, "Actions: join, leave, start, stop, skip, remove <player>, reset. "+
		"On your turn pick truth or dare, then boy or girl, and answer with done, decline or change. "+
		"See the leaderboard with /v1/leaderboard and your id with /v1/me.")

	message.SetString(lang, keyModeTruth, "truth")
	message.SetString(lang, keyModeDare, "dare")

	message.SetString(lang, keyErrNotAuthorized, "Only the game admin can do that.")
	message.SetString(lang, keyErrNotYourTurn, "It's not your turn.")
	message.SetString(lang, keyErrWrongStage, "That button is no longer active.")
	message.SetString(lang, keyErrChangeLimit, "You have used all your question changes for this turn.")
	message.SetString(lang, keyErrNoQuestions, "There are no questions in this category.")
	message.SetString(lang, keyErrEmptyRoster, "Nobody has joined yet.")
	message.SetString(lang, keyErrAlreadyJoined, "You have already joined.")
	message.SetString(lang, keyErrNotInRoster, "That player is not in the game.")
	message.SetString(lang, keyErrAlreadyRunning, "The game is already running.")
	message.SetString(lang, keyErrNotRunning, "The game is not running.")
	message.SetString(lang, keyErrTurnInProgress, "You can't leave during your own turn.")
	message.SetString(lang, keyErrSessionNotFound, "There is no game here.")
	message.SetString(lang, keyErrGeneric, "Something went wrong, please try again.")
}
