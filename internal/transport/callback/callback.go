// Package callback encodes and parses the compact button payloads used by chat
// clients, e.g. "choose|truth|42|7" or "menu|join".
package callback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"truthordare/internal/model"
)

const sep = "|"

// Payload prefixes
const (
	prefixChoose = "choose"
	prefixSet    = "set"
	prefixResp   = "resp"
	prefixMenu   = "menu"
)

// Responses carried by resp payloads
const (
	RespDone    = "done"
	RespDecline = "no"
	RespChange  = "change"
)

var ErrMalformed = errors.New("malformed callback data")

var menuActions = map[string]model.ActionKind{
	"join":  model.ActionJoin,
	"leave": model.ActionLeave,
	"start": model.ActionStart,
	"stop":  model.ActionStop,
	"skip":  model.ActionSkip,
	"reset": model.ActionReset,
}

var respActions = map[string]model.ActionKind{
	RespDone:    model.ActionDone,
	RespDecline: model.ActionDecline,
	RespChange:  model.ActionChange,
}

// Button is one inline button of an outbound message
type Button struct {
	Label string `json:"label"`
	Data  string `json:"data"`
}

// Parse turns callback data pressed by actor into an action
func Parse(data, actor string) (model.Action, error) {
	parts := strings.Split(strings.TrimSpace(data), sep)
	act := model.Action{Actor: actor}

	switch parts[0] {
	case prefixMenu:
		if len(parts) != 2 {
			return act, fmt.Errorf("%w: %q", ErrMalformed, data)
		}
		kind, ok := menuActions[parts[1]]
		if !ok {
			return act, fmt.Errorf("%w: unknown menu item %q", ErrMalformed, parts[1])
		}
		act.Kind = kind
		return act, nil

	case prefixChoose, prefixSet, prefixResp:
		if len(parts) != 4 {
			return act, fmt.Errorf("%w: %q", ErrMalformed, data)
		}
		turn, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil || turn < 0 {
			return act, fmt.Errorf("%w: bad turn %q", ErrMalformed, parts[3])
		}
		act.Target = parts[2]
		act.Turn = turn
	default:
		return act, fmt.Errorf("%w: unknown prefix %q", ErrMalformed, parts[0])
	}

	switch parts[0] {
	case prefixChoose:
		act.Kind = model.ActionChooseMode
		act.Mode = model.Mode(parts[1])
		if !act.Mode.Valid() {
			return act, fmt.Errorf("%w: unknown mode %q", ErrMalformed, parts[1])
		}
	case prefixSet:
		category, err := model.ParseCategory(parts[1])
		if err != nil {
			return act, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		act.Kind = model.ActionChooseCategory
		act.Mode = category.Mode()
		act.Variant = model.Variant(strings.TrimPrefix(string(category), string(act.Mode)+"_"))
	case prefixResp:
		kind, ok := respActions[parts[1]]
		if !ok {
			return act, fmt.Errorf("%w: unknown response %q", ErrMalformed, parts[1])
		}
		act.Kind = kind
	}
	return act, nil
}

// Choose encodes a mode button for the active player of turn
func Choose(mode model.Mode, playerID string, turn int64) string {
	return strings.Join([]string{prefixChoose, string(mode), playerID, strconv.FormatInt(turn, 10)}, sep)
}

// Set encodes a category button
func Set(category model.Category, playerID string, turn int64) string {
	return strings.Join([]string{prefixSet, string(category), playerID, strconv.FormatInt(turn, 10)}, sep)
}

// Resp encodes a response button
func Resp(resp, playerID string, turn int64) string {
	return strings.Join([]string{prefixResp, resp, playerID, strconv.FormatInt(turn, 10)}, sep)
}

// Menu encodes a lobby button
func Menu(item string) string {
	return prefixMenu + sep + item
}

// Buttons returns the keyboard that goes with a notification
func Buttons(n model.Notification) []Button {
	switch n.Kind {
	case model.NoteTurn:
		return []Button{
			{Label: "truth", Data: Choose(model.ModeTruth, n.PlayerID, n.Turn)},
			{Label: "dare", Data: Choose(model.ModeDare, n.PlayerID, n.Turn)},
		}
	case model.NoteChooseVariant:
		return []Button{
			{Label: "boy", Data: Set(model.NewCategory(n.Mode, model.VariantBoy), n.PlayerID, n.Turn)},
			{Label: "girl", Data: Set(model.NewCategory(n.Mode, model.VariantGirl), n.PlayerID, n.Turn)},
		}
	case model.NotePrompt, model.NotePromptChanged:
		buttons := []Button{
			{Label: "done", Data: Resp(RespDone, n.PlayerID, n.Turn)},
			{Label: "decline", Data: Resp(RespDecline, n.PlayerID, n.Turn)},
		}
		if n.ChangesLeft > 0 {
			buttons = append(buttons, Button{Label: "change", Data: Resp(RespChange, n.PlayerID, n.Turn)})
		}
		return buttons
	case model.NoteGameStopped, model.NoteRosterEmpty, model.NoteGameReset:
		return []Button{{Label: "join", Data: Menu("join")}}
	}
	return nil
}
