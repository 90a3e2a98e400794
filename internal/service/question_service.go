package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"truthordare/internal/model"
	"truthordare/internal/repository"
)

var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrEmptyPrompt     = errors.New("prompt text is required")
	ErrPromptNotFound  = errors.New("prompt not found")
)

// QuestionService edits the question bank out of band of the engine
type QuestionService struct {
	bank repository.QuestionBank
}

// NewQuestionService creates a question service
func NewQuestionService(bank repository.QuestionBank) *QuestionService {
	return &QuestionService{bank: bank}
}

func parseCategory(raw string) (model.Category, error) {
	c, err := model.ParseCategory(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, raw)
	}
	return c, nil
}

// List returns the prompts of a category in bank order
func (s *QuestionService) List(ctx context.Context, category string) ([]string, error) {
	c, err := parseCategory(category)
	if err != nil {
		return nil, err
	}
	prompts, err := s.bank.ListPrompts(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("failed to list prompts: %w", err)
	}
	if prompts == nil {
		prompts = []string{}
	}
	return prompts, nil
}

// Add appends a prompt to a category
func (s *QuestionService) Add(ctx context.Context, category, text string) error {
	c, err := parseCategory(category)
	if err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return ErrEmptyPrompt
	}
	return s.bank.AddPrompt(ctx, c, text)
}

// Remove deletes every copy of a prompt from a category
func (s *QuestionService) Remove(ctx context.Context, category, text string) error {
	c, err := parseCategory(category)
	if err != nil {
		return err
	}
	removed, err := s.bank.RemovePrompt(ctx, c, text)
	if err != nil {
		return fmt.Errorf("failed to remove prompt: %w", err)
	}
	if !removed {
		return ErrPromptNotFound
	}
	return nil
}
