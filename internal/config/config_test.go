package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port = %q, want 8080", cfg.Port)
	}
	if cfg.StoreDriver != StoreRedis {
		t.Errorf("store driver = %q, want %q", cfg.StoreDriver, StoreRedis)
	}
	if cfg.Rules != DefaultRules() {
		t.Errorf("rules = %+v, want %+v", cfg.Rules, DefaultRules())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URI", "redis://cache:6380")
	t.Setenv("TURN_TIMEOUT", "30s")
	t.Setenv("MAX_CHANGES_PER_TURN", "3")
	t.Setenv("OPERATOR_IDS", "42, 7")
	t.Setenv("CHANGE_TIMER_POLICY", "keep")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RedisAddr != "cache:6380" {
		t.Errorf("redis addr = %q, want prefix stripped", cfg.RedisAddr)
	}
	if cfg.Rules.TurnTimeout != 30*time.Second {
		t.Errorf("turn timeout = %s, want 30s", cfg.Rules.TurnTimeout)
	}
	if cfg.Rules.MaxChanges != 3 {
		t.Errorf("max changes = %d, want 3", cfg.Rules.MaxChanges)
	}
	if cfg.Rules.ChangeTimerPolicy != ChangeKeepsTimer {
		t.Errorf("policy = %q, want keep", cfg.Rules.ChangeTimerPolicy)
	}
	if !cfg.IsOperator("42") || !cfg.IsOperator("7") {
		t.Error("expected 42 and 7 to be operators")
	}
	if cfg.IsOperator("8") || cfg.IsOperator("") {
		t.Error("unexpected operator match")
	}
	if cfg.PrimaryOperator() != "42" {
		t.Errorf("primary operator = %q, want 42", cfg.PrimaryOperator())
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("SCORE_DARE", "lots")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestRulesValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Rules)
		wantErr bool
	}{
		{name: "defaults", mutate: func(r *Rules) {}},
		{name: "zero timeout", mutate: func(r *Rules) { r.TurnTimeout = 0 }, wantErr: true},
		{name: "negative changes", mutate: func(r *Rules) { r.MaxChanges = -1 }, wantErr: true},
		{name: "zero changes allowed", mutate: func(r *Rules) { r.MaxChanges = 0 }},
		{name: "positive penalty", mutate: func(r *Rules) { r.Penalty = 1 }, wantErr: true},
		{name: "zero reward", mutate: func(r *Rules) { r.TruthReward = 0 }, wantErr: true},
		{name: "no pick attempts", mutate: func(r *Rules) { r.PickAttempts = 0 }, wantErr: true},
		{name: "unknown policy", mutate: func(r *Rules) { r.ChangeTimerPolicy = "extend" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DefaultRules()
			tt.mutate(&r)
			err := r.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "etcd")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown driver error")
	}
}

func TestNeedsMongo(t *testing.T) {
	cases := []struct {
		source  string
		history bool
		want    bool
	}{
		{QuestionsFile, false, false},
		{QuestionsMongo, false, true},
		{QuestionsFile, true, true},
	}
	for _, tc := range cases {
		cfg := &Config{QuestionSource: tc.source, HistoryEnabled: tc.history}
		if got := cfg.NeedsMongo(); got != tc.want {
			t.Errorf("NeedsMongo(%s, %v) = %v, want %v", tc.source, tc.history, got, tc.want)
		}
	}
}
