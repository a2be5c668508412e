package session

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/itemsmith/internal/catalog"
	"github.com/abhisek/itemsmith/internal/itemgen"
)

// Plan expands req into exactly req.Total jobs with IDs 0..Total-1. Foci
// are assigned round-robin so every selected focus is covered before any
// repeats.
func Plan(req PlanRequest) ([]itemgen.Job, error) {
	foci := cleanFoci(req.Foci)
	if len(foci) == 0 {
		return nil, &itemgen.PlanningError{Reason: "select at least one assessment focus"}
	}
	if req.Total < 1 {
		return nil, &itemgen.PlanningError{Reason: fmt.Sprintf("batch size must be at least 1, got %d", req.Total)}
	}
	if req.Type == "" {
		return nil, &itemgen.PlanningError{Reason: "question type is required"}
	}
	if req.CEFR == "" {
		return nil, &itemgen.PlanningError{Reason: "CEFR level is required"}
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = DefaultTopic
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = itemgen.StrategySequentialBatch
	}

	jobs := make([]itemgen.Job, req.Total)
	for i := range jobs {
		jobs[i] = itemgen.Job{
			ID:       i,
			CEFR:     req.CEFR,
			Type:     req.Type,
			Focus:    foci[i%len(foci)],
			Topic:    topic,
			Strategy: strategy,
		}
	}
	return jobs, nil
}

// PlanVocabList makes one vocabulary job per word in the list. A list
// longer than the largest batch size is rejected, as every stage sends the
// whole list in one call.
func PlanVocabList(req VocabListRequest) ([]itemgen.Job, error) {
	words := req.Words
	if len(words) == 0 {
		return nil, &itemgen.PlanningError{Reason: "vocabulary list is empty"}
	}
	if maxWords := slices.Max(catalog.BatchSizes); len(words) > maxWords {
		return nil, &itemgen.PlanningError{
			Reason: fmt.Sprintf("vocabulary list has %d words, at most %d per run; split the list", len(words), maxWords),
		}
	}
	if req.BatchSize != 0 && req.BatchSize != len(words) {
		return nil, &itemgen.PlanningError{
			Reason: fmt.Sprintf("batch size %d does not match the %d words in the vocabulary list", req.BatchSize, len(words)),
		}
	}
	if req.Strategy != "" && req.Strategy != itemgen.StrategySequentialBatch {
		return nil, &itemgen.PlanningError{
			Reason: fmt.Sprintf("vocabulary-list runs use the %s strategy, not %s", itemgen.StrategySequentialBatch, req.Strategy),
		}
	}
	if req.CEFR == "" {
		return nil, &itemgen.PlanningError{Reason: "CEFR level is required"}
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		topic = DefaultTopic
	}

	jobs := make([]itemgen.Job, len(words))
	for i, w := range words {
		jobs[i] = itemgen.Job{
			ID:           i,
			CEFR:         req.CEFR,
			Type:         itemgen.Vocabulary,
			Focus:        "Vocabulary: " + w.Word,
			Topic:        topic,
			Strategy:     itemgen.StrategySequentialBatch,
			Word:         w.Word,
			PartOfSpeech: w.PartOfSpeech,
			QuestionForm: req.Form,
		}
	}
	return jobs, nil
}

func cleanFoci(foci []string) []string {
	out := make([]string, 0, len(foci))
	for _, f := range foci {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
