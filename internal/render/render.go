// Package render turns notification descriptors and engine errors into
// localized chat text.
package render

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"truthordare/internal/engine"
	"truthordare/internal/model"
)

// LangParam is the query parameter used to select a language.
const LangParam = "lang"

var supportedTags = []language.Tag{
	language.English,
	language.Persian,
}

var tagMatcher = language.NewMatcher(supportedTags)

// Default returns the default language tag.
func Default() language.Tag {
	return language.English
}

// ParseTag matches value against the supported languages.
func ParseTag(value string) language.Tag {
	value = strings.TrimSpace(value)
	if value == "" {
		return Default()
	}
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return Default()
	}
	_, idx, conf := tagMatcher.Match(tags...)
	if conf == language.No {
		return Default()
	}
	return supportedTags[idx]
}

// ResolveTag picks the language of a request from the lang query parameter,
// then Accept-Language.
func ResolveTag(r *http.Request) language.Tag {
	if r == nil {
		return Default()
	}
	if v := r.URL.Query().Get(LangParam); v != "" {
		return ParseTag(v)
	}
	return ParseTag(r.Header.Get("Accept-Language"))
}

// Message renders one notification.
func Message(tag language.Tag, n model.Notification) string {
	p := message.NewPrinter(tag)
	mode := p.Sprintf(modeKey(n.Mode))

	switch n.Kind {
	case model.NoteJoined:
		return p.Sprintf(keyJoined, n.PlayerID, n.Players)
	case model.NoteLeft:
		return p.Sprintf(keyLeft, n.PlayerID, n.Players)
	case model.NoteRemoved:
		return p.Sprintf(keyRemoved, n.PlayerID, n.Players)
	case model.NoteGameStarted:
		return p.Sprintf(keyStarted, n.Players)
	case model.NoteGameStopped:
		return p.Sprintf(keyStopped)
	case model.NoteGameReset:
		return p.Sprintf(keyReset)
	case model.NoteRosterEmpty:
		return p.Sprintf(keyRosterEmpty)
	case model.NoteTurn:
		return p.Sprintf(keyTurn, n.PlayerID, n.RemainingSec)
	case model.NoteChooseVariant:
		return p.Sprintf(keyChooseVariant, n.PlayerID, mode)
	case model.NotePrompt:
		return p.Sprintf(keyPrompt, mode, n.Prompt, n.RemainingSec, n.ChangesLeft)
	case model.NotePromptChanged:
		return p.Sprintf(keyPromptChanged, mode, n.Prompt, n.RemainingSec, n.ChangesUsed, n.ChangesLeft)
	case model.NotePromptSent:
		return p.Sprintf(keyPromptSent, n.PlayerID, mode)
	case model.NoteAnswered:
		return p.Sprintf(keyAnswered, n.PlayerID, mode, n.Points)
	case model.NoteDeclined:
		return p.Sprintf(keyDeclined, n.PlayerID, abs(n.Points))
	case model.NoteTimedOut:
		return p.Sprintf(keyTimedOut, n.PlayerID, abs(n.Points))
	case model.NoteSkipped:
		return p.Sprintf(keySkipped, n.PlayerID)
	}
	return string(n.Kind)
}

// Error renders an engine error for players. Errors that are not safe to
// show collapse into a generic retry message.
func Error(tag language.Tag, err error) string {
	p := message.NewPrinter(tag)
	for sentinel, key := range errorKeys {
		if errors.Is(err, sentinel) {
			return p.Sprintf(key)
		}
	}
	if engine.IsUserFacing(err) {
		return err.Error()
	}
	return p.Sprintf(keyErrGeneric)
}

// Help lists the available actions
func Help(tag language.Tag) string {
	return message.NewPrinter(tag).Sprintf(keyHelp)
}

func modeKey(m model.Mode) string {
	if m == model.ModeDare {
		return keyModeDare
	}
	return keyModeTruth
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
