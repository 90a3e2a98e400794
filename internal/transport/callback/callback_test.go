package callback

import (
	"errors"
	"testing"

	"truthordare/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		data string
		want model.Action
	}{
		{"menu|join", model.Action{Kind: model.ActionJoin, Actor: "u1"}},
		{"menu|skip", model.Action{Kind: model.ActionSkip, Actor: "u1"}},
		{"choose|dare|u1|3", model.Action{Kind: model.ActionChooseMode, Actor: "u1", Target: "u1", Turn: 3, Mode: model.ModeDare}},
		{"set|truth_girl|u2|4", model.Action{Kind: model.ActionChooseCategory, Actor: "u1", Target: "u2", Turn: 4, Mode: model.ModeTruth, Variant: model.VariantGirl}},
		{"resp|done|u1|9", model.Action{Kind: model.ActionDone, Actor: "u1", Target: "u1", Turn: 9}},
		{"resp|no|u1|9", model.Action{Kind: model.ActionDecline, Actor: "u1", Target: "u1", Turn: 9}},
		{"resp|change|u1|9", model.Action{Kind: model.ActionChange, Actor: "u1", Target: "u1", Turn: 9}},
	}
	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			got, err := Parse(tt.data, "u1")
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	for _, data := range []string{
		"", "menu", "menu|dance", "choose|sing|u1|1", "choose|dare|u1",
		"choose|dare|u1|x", "choose|dare|u1|-2", "set|truth_cat|u1|1", "resp|maybe|u1|1", "open|sesame",
	} {
		if _, err := Parse(data, "u1"); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) err = %v, want malformed", data, err)
		}
	}
}

func TestButtonsRoundTrip(t *testing.T) {
	notes := []model.Notification{
		{Kind: model.NoteTurn, PlayerID: "u1", Turn: 5},
		{Kind: model.NoteChooseVariant, PlayerID: "u1", Turn: 5, Mode: model.ModeDare},
		{Kind: model.NotePrompt, PlayerID: "u1", Turn: 5, ChangesLeft: 1},
	}
	for _, n := range notes {
		for _, b := range Buttons(n) {
			act, err := Parse(b.Data, "u1")
			if err != nil {
				t.Fatalf("parse %q: %v", b.Data, err)
			}
			if act.Target != "u1" || act.Turn != 5 {
				t.Errorf("%q parsed to %+v", b.Data, act)
			}
		}
	}

	if got := Buttons(model.Notification{Kind: model.NotePromptChanged, ChangesLeft: 0}); len(got) != 2 {
		t.Errorf("change button offered with no changes left: %+v", got)
	}
	if got := Buttons(model.Notification{Kind: model.NoteAnswered}); got != nil {
		t.Errorf("answered has buttons: %+v", got)
	}
}
