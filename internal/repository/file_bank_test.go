package repository

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"truthordare/internal/model"
)

func TestFileBankSamples(t *testing.T) {
	dir := t.TempDir()
	bank := NewFileBank(dir)

	custom := filepath.Join(dir, "dare_boys.txt")
	if err := os.WriteFile(custom, []byte("sing\n\n  dance  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := bank.EnsureSamples(); err != nil {
		t.Fatalf("ensure samples: %v", err)
	}

	got, err := bank.ListPrompts(context.Background(), model.CategoryDareBoy)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !slices.Equal(got, []string{"sing", "dance"}) {
		t.Errorf("existing file = %v, want untouched and trimmed", got)
	}

	got, _ = bank.ListPrompts(context.Background(), model.CategoryTruthGirl)
	if !slices.Equal(got, model.SamplePrompts[model.CategoryTruthGirl]) {
		t.Errorf("samples = %v", got)
	}
}

func TestFileBankMissingFileIsEmpty(t *testing.T) {
	bank := NewFileBank(t.TempDir())
	got, err := bank.ListPrompts(context.Background(), model.CategoryTruthBoy)
	if err != nil || len(got) != 0 {
		t.Errorf("list = %v, %v; want empty", got, err)
	}
}

func TestFileBankAddRemove(t *testing.T) {
	ctx := context.Background()
	bank := NewFileBank(filepath.Join(t.TempDir(), "nested"))

	for _, q := range []string{"first", "second", "first"} {
		if err := bank.AddPrompt(ctx, model.CategoryTruthBoy, q); err != nil {
			t.Fatalf("add %q: %v", q, err)
		}
	}
	if err := bank.AddPrompt(ctx, model.CategoryTruthBoy, "two\nlines"); err == nil {
		t.Error("multi-line prompt accepted")
	}
	if err := bank.AddPrompt(ctx, model.CategoryTruthBoy, "   "); err == nil {
		t.Error("blank prompt accepted")
	}

	removed, err := bank.RemovePrompt(ctx, model.CategoryTruthBoy, "first")
	if err != nil || !removed {
		t.Fatalf("remove = %v, %v", removed, err)
	}
	removed, _ = bank.RemovePrompt(ctx, model.CategoryTruthBoy, "absent")
	if removed {
		t.Error("removed a prompt that was not there")
	}

	got, _ := bank.ListPrompts(ctx, model.CategoryTruthBoy)
	if !slices.Equal(got, []string{"second"}) {
		t.Errorf("pool = %v, want [second]", got)
	}
}

func TestSeedBankSkipsFilledCategories(t *testing.T) {
	ctx := context.Background()
	bank := NewFileBank(t.TempDir())
	if err := bank.AddPrompt(ctx, model.CategoryDareGirl, "mine"); err != nil {
		t.Fatal(err)
	}

	added, err := SeedBank(ctx, bank, model.SamplePrompts)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	want := 0
	for _, c := range model.Categories {
		if c != model.CategoryDareGirl {
			want += len(model.SamplePrompts[c])
		}
	}
	if added != want {
		t.Errorf("added = %d, want %d", added, want)
	}

	got, _ := bank.ListPrompts(ctx, model.CategoryDareGirl)
	if !slices.Equal(got, []string{"mine"}) {
		t.Errorf("filled category changed: %v", got)
	}

	// A second run adds nothing
	if added, err := SeedBank(ctx, bank, model.SamplePrompts); err != nil || added != 0 {
		t.Errorf("reseed = %d, %v", added, err)
	}
}
