package engine

import (
	"math/rand/v2"
	"sync"
)

// Picker selects prompts from a category pool. It avoids repeating the
// prompt just shown and cycles through the whole pool before reusing any
// entry.
type Picker struct {
	mu       sync.Mutex
	rng      *rand.Rand
	attempts int
}

// NewPicker creates a picker. attempts bounds the resampling done to avoid
// the excluded prompt.
func NewPicker(rng *rand.Rand, attempts int) *Picker {
	if attempts < 1 {
		attempts = 1
	}
	return &Picker{rng: rng, attempts: attempts}
}

// Pick chooses a prompt uniformly among the entries of pool not yet in used.
// It returns the prompt and the new used set, which is cleared once it
// covers every distinct entry of the pool.
func (p *Picker) Pick(pool []string, exclude string, used []string) (string, []string, error) {
	distinct := make(map[string]bool, len(pool))
	for _, q := range pool {
		distinct[q] = true
	}
	if len(distinct) == 0 {
		return "", used, ErrNoQuestionsAvailable
	}

	// Drop entries removed from the bank since they were used
	seen := make(map[string]bool, len(used))
	kept := make([]string, 0, len(used))
	for _, q := range used {
		if distinct[q] && !seen[q] {
			seen[q] = true
			kept = append(kept, q)
		}
	}

	candidates := make([]string, 0, len(pool))
	for _, q := range pool {
		if !seen[q] {
			candidates = append(candidates, q)
		}
	}
	if len(candidates) == 0 {
		kept = kept[:0]
		seen = map[string]bool{}
		candidates = pool
	}

	p.mu.Lock()
	choice := candidates[p.rng.IntN(len(candidates))]
	if len(distinct) > 1 {
		for i := 1; i < p.attempts && choice == exclude; i++ {
			choice = candidates[p.rng.IntN(len(candidates))]
		}
	}
	p.mu.Unlock()

	if !seen[choice] {
		kept = append(kept, choice)
	}
	if len(kept) >= len(distinct) {
		kept = nil
	}
	return choice, kept, nil
}

// Shuffle permutes players in place.
func (p *Picker) Shuffle(players []string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rng.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
}
