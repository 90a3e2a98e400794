package render

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"truthordare/internal/engine"
	"truthordare/internal/model"
)

func TestMessageEnglish(t *testing.T) {
	tests := []struct {
		name string
		note model.Notification
		want string
	}{
		{"turn", model.Notification{Kind: model.NoteTurn, PlayerID: "alice", RemainingSec: 100},
			"It's alice's turn! Choose truth or dare. You have 100 seconds."},
		{"answered dare", model.Notification{Kind: model.NoteAnswered, PlayerID: "bob", Mode: model.ModeDare, Points: 2},
			"bob completed the dare and earned 2 points!"},
		{"declined", model.Notification{Kind: model.NoteDeclined, PlayerID: "bob", Points: -1},
			"bob declined and lost 1 points."},
		{"prompt", model.Notification{Kind: model.NotePrompt, Mode: model.ModeTruth, Prompt: "Who?", RemainingSec: 42, ChangesLeft: 2},
			"Your truth: Who?\n42 seconds left. Changes left: 2."},
		{"stopped", model.Notification{Kind: model.NoteGameStopped}, "The game was stopped."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(language.English, tt.note); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMessagePersian(t *testing.T) {
	got := Message(language.Persian, model.Notification{Kind: model.NoteChooseVariant, PlayerID: "alice", Mode: model.ModeDare})
	if !strings.Contains(got, "alice") || !strings.Contains(got, "جرأت") {
		t.Errorf("got %q", got)
	}
}

func TestEveryKindRenders(t *testing.T) {
	kinds := []model.NotificationKind{
		model.NoteJoined, model.NoteLeft, model.NoteRemoved, model.NoteGameStarted,
		model.NoteGameStopped, model.NoteGameReset, model.NoteRosterEmpty, model.NoteTurn,
		model.NoteChooseVariant, model.NotePrompt, model.NotePromptChanged, model.NotePromptSent,
		model.NoteAnswered, model.NoteDeclined, model.NoteTimedOut, model.NoteSkipped,
	}
	for _, tag := range supportedTags {
		for _, k := range kinds {
			got := Message(tag, model.Notification{Kind: k, PlayerID: "p"})
			if got == "" || got == string(k) || strings.Contains(got, "note.") || strings.Contains(got, "%!") {
				t.Errorf("%s/%s rendered %q", tag, k, got)
			}
		}
	}
}

func TestError(t *testing.T) {
	if got := Error(language.English, fmt.Errorf("apply: %w", engine.ErrNotYourTurn)); got != "It's not your turn." {
		t.Errorf("got %q", got)
	}
	if got := Error(language.English, errors.New("redis: connection refused")); got != "Something went wrong, please try again." {
		t.Errorf("internal error leaked: %q", got)
	}
	if got := Error(language.Persian, engine.ErrChangeLimitReached); !strings.Contains(got, "تعویض") {
		t.Errorf("got %q", got)
	}
}

func TestResolveTag(t *testing.T) {
	tests := []struct {
		query, accept string
		want          language.Tag
	}{
		{"", "", language.English},
		{"fa", "", language.Persian},
		{"", "fa-IR,fa;q=0.9", language.Persian},
		{"xx-invalid-!!", "", language.English},
		{"de", "", language.English},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/ws?lang="+tt.query, nil)
		if tt.accept != "" {
			r.Header.Set("Accept-Language", tt.accept)
		}
		if got := ResolveTag(r); got != tt.want {
			t.Errorf("ResolveTag(%q, %q) = %s, want %s", tt.query, tt.accept, got, tt.want)
		}
	}
}

func TestHelp(t *testing.T) {
	en := Help(language.English)
	if !strings.Contains(en, "remove <player>") || !strings.Contains(en, "/v1/me") {
		t.Errorf("english help = %q", en)
	}
	fa := Help(language.Persian)
	if fa == en || !strings.Contains(fa, "/v1/me") {
		t.Errorf("persian help = %q", fa)
	}
}
