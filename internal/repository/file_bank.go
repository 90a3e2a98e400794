package repository

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"truthordare/internal/model"
)

// FileBank stores one prompt per line in a text file per category
type FileBank struct {
	mu  sync.RWMutex
	dir string
}

func NewFileBank(dir string) *FileBank {
	return &FileBank{dir: dir}
}

// Path returns the file backing a category, e.g. truth_boys.txt
func (b *FileBank) Path(category model.Category) string {
	return filepath.Join(b.dir, string(category)+"s.txt")
}

// EnsureSamples creates missing category files with the sample prompts
func (b *FileBank) EnsureSamples() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create question dir: %w", err)
	}
	for _, c := range model.Categories {
		path := b.Path(c)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := writeLines(path, model.SamplePrompts[c]); err != nil {
			return err
		}
	}
	return nil
}

func (b *FileBank) ListPrompts(ctx context.Context, category model.Category) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return readLines(b.Path(category))
}

func (b *FileBank) AddPrompt(ctx context.Context, category model.Category, text string) error {
	text = strings.TrimSpace(text)
	if text == "" || strings.ContainsAny(text, "\r\n") {
		return fmt.Errorf("prompt must be a single non-empty line")
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	lines, err := readLines(b.Path(category))
	if err != nil {
		return err
	}
	return writeLines(b.Path(category), append(lines, text))
}

func (b *FileBank) RemovePrompt(ctx context.Context, category model.Category, text string) (bool, error) {
	text = strings.TrimSpace(text)
	b.mu.Lock()
	defer b.mu.Unlock()

	lines, err := readLines(b.Path(category))
	if err != nil {
		return false, err
	}
	kept := lines[:0]
	for _, l := range lines {
		if l != text {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(lines) {
		return false, nil
	}
	return true, writeLines(b.Path(category), kept)
}

// readLines returns the trimmed non-empty lines; a missing file is an empty pool
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if l := strings.TrimSpace(sc.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	return lines, sc.Err()
}

func writeLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
