package pipeline

import (
	"github.com/abhisek/itemsmith/internal/bank"
	"github.com/abhisek/itemsmith/internal/itemgen"
)

// Config controls the behavior of the Generator.
type Config struct {
	// Validators are the per-record checks run at each parse boundary.
	Validators itemgen.Validators

	// MaxTokens is the token budget for each call. Batched stages emit one
	// record per job, so this needs to cover the largest batch size.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// Vocab is the vocabulary table deterministic distractors are drawn
	// from. Only vocabulary-list runs use it; when empty, the run's own word
	// list serves as the table.
	Vocab []bank.VocabEntry
}

// DefaultConfig returns a Config with the standard validator chains and
// recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators:  itemgen.DefaultValidators(),
		MaxTokens:   8192,
		Temperature: 0.7,
	}
}
