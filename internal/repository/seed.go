package repository

import (
	"context"
	"fmt"

	"truthordare/internal/model"
)

// SeedBank fills every empty category of bank from prompts and returns the
// number of prompts added. Categories that already hold prompts are left alone.
func SeedBank(ctx context.Context, bank QuestionBank, prompts map[model.Category][]string) (int, error) {
	added := 0
	for _, category := range model.Categories {
		existing, err := bank.ListPrompts(ctx, category)
		if err != nil {
			return added, fmt.Errorf("list %s: %w", category, err)
		}
		if len(existing) > 0 {
			continue
		}
		for _, text := range prompts[category] {
			if err := bank.AddPrompt(ctx, category, text); err != nil {
				return added, fmt.Errorf("add to %s: %w", category, err)
			}
			added++
		}
	}
	return added, nil
}
