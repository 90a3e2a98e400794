package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"truthordare/internal/repository"
)

func TestQuestionService(t *testing.T) {
	ctx := context.Background()
	svc := NewQuestionService(repository.NewFileBank(t.TempDir()))

	got, err := svc.List(ctx, "dare_girl")
	if err != nil || len(got) != 0 || got == nil {
		t.Fatalf("empty list = %#v, %v", got, err)
	}

	if err := svc.Add(ctx, "dare_girl", "dance"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.Add(ctx, "dare_girl", "  "); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("blank add err = %v", err)
	}
	if err := svc.Add(ctx, "dare_cat", "x"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("bad category err = %v", err)
	}

	got, _ = svc.List(ctx, "dare_girl")
	if !slices.Equal(got, []string{"dance"}) {
		t.Errorf("list = %v", got)
	}

	if err := svc.Remove(ctx, "dare_girl", "sing"); !errors.Is(err, ErrPromptNotFound) {
		t.Errorf("remove missing err = %v", err)
	}
	if err := svc.Remove(ctx, "dare_girl", "dance"); err != nil {
		t.Errorf("remove: %v", err)
	}
}
