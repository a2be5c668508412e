package session

import (
	"github.com/abhisek/itemsmith/internal/bank"
	"github.com/abhisek/itemsmith/internal/itemgen"
)

// DefaultTopic is used when a request leaves the topic blank.
const DefaultTopic = "General"

// PlanRequest describes one batch to generate.
type PlanRequest struct {
	Total    int
	Type     itemgen.QuestionType
	CEFR     itemgen.Level
	Foci     []string
	Topic    string
	Strategy itemgen.Strategy
}

// VocabListRequest describes a run over a supplied word list. Every word
// becomes one job, so the list length is the batch size.
type VocabListRequest struct {
	Words []bank.VocabEntry
	CEFR  itemgen.Level
	Form  string
	Topic string

	// Strategy must be blank or the sequential batch strategy; the
	// deterministic distractors only exist in that pipeline.
	Strategy itemgen.Strategy
	// BatchSize, when set, must equal len(Words).
	BatchSize int
}
