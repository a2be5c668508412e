package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/itemsmith/internal/bank"
	"github.com/abhisek/itemsmith/internal/distractor"
	"github.com/abhisek/itemsmith/internal/itemgen"
	"github.com/abhisek/itemsmith/internal/prompt"
	"github.com/abhisek/itemsmith/internal/session"
)

// runBatch is the three-call strategy: every stage covers the whole batch
// and must return one record per job.
func (g *Generator) runBatch(ctx context.Context, st *session.State, jobs []itemgen.Job) (*Result, error) {
	n := len(jobs)
	vs := g.config.Validators
	st.Tracef("NEW SEQUENTIAL BATCH MODE - STARTING")
	st.Tracef("Batch size: %d questions", n)

	st.Tracef("--- STAGE 1: SENTENCE GENERATION ---")
	s1, err := g.stage1(ctx, jobs)
	if err != nil {
		return nil, err
	}
	st.SetStage1(s1)
	st.Tracef("Stage 1: Generated %d sentences", len(s1))

	st.Tracef("--- STAGE 2: CANDIDATE GENERATION ---")
	qt := jobs[0].Type
	st.Tracef("Question type: %s", qt)

	var (
		p      prompt.Pair
		slots  = itemgen.CandidateSlots
		s2vs   = vs.Stage2
		picked [][]string
	)
	switch {
	case jobs[0].IsVocabList():
		var needed []int
		picked, needed = g.preselect(jobs)
		for i, job := range jobs {
			st.Tracef("Item %s: %d preselected, %d needed from LLM", job.ItemNumber(), len(picked[i]), needed[i])
		}
		p = prompt.Stage2VocabList(s1, jobs, picked, needed)
		slots = itemgen.VocabListPoolSlots
		s2vs = []itemgen.Validator[itemgen.Stage2Record]{singleWordFill(jobs, picked)}
	case qt == itemgen.Vocabulary:
		p = prompt.Stage2Vocabulary(s1, jobs)
	default:
		p = prompt.Stage2Grammar(s1, jobs)
	}

	raw, err := g.call(ctx, itemgen.Stage2, p)
	if err != nil {
		return nil, err
	}
	s2, err := itemgen.DecodeStage2(raw, jobs, slots, s2vs)
	if err != nil {
		return nil, err
	}
	for i := range s2 {
		if i < len(picked) {
			s2[i].Candidates = overlay(s2[i].Candidates, picked[i])
		}
	}
	st.SetStage2(s2)
	st.Tracef("Stage 2: Generated %d candidate sets", len(s2))

	st.Tracef("--- STAGE 3: VALIDATION & FILTERING ---")
	if qt == itemgen.Vocabulary {
		p = prompt.Stage3Vocabulary(s1, s2, jobs)
	} else {
		p = prompt.Stage3Grammar(s1, s2, jobs)
	}
	raw, err = g.call(ctx, itemgen.Stage3, p)
	if err != nil {
		return nil, err
	}
	s3vs := append(slices.Clone(vs.Stage3), selectedFromPool(jobs, s2))
	s3, err := itemgen.DecodeStage3(raw, jobs, s3vs)
	if err != nil {
		return nil, err
	}
	st.SetStage3(s3)
	st.Tracef("Stage 3: Validated %d distractor sets", len(s3))

	st.Tracef("--- FINAL ASSEMBLY ---")
	qs, err := itemgen.Assemble(s1, s3, g.rng)
	if err != nil {
		return nil, err
	}
	for i := range qs {
		st.Tracef("Assembled question %d", i+1)
	}
	st.Tracef("TOTAL ASSEMBLED: %d", len(qs))

	return &Result{Questions: qs}, nil
}

// stage1 uses the single-job prompt for a batch of one.
func (g *Generator) stage1(ctx context.Context, jobs []itemgen.Job) ([]itemgen.Stage1Record, error) {
	vs := g.config.Validators.Stage1
	examples := g.examples(jobs[0])

	if len(jobs) == 1 {
		raw, err := g.call(ctx, itemgen.Stage1, prompt.SequentialStage1(jobs[0], examples))
		if err != nil {
			return nil, err
		}
		rec, err := itemgen.DecodeStage1Single(raw, jobs[0], vs)
		if err != nil {
			return nil, err
		}
		return []itemgen.Stage1Record{rec}, nil
	}

	raw, err := g.call(ctx, itemgen.Stage1, prompt.Stage1(jobs, examples))
	if err != nil {
		return nil, err
	}
	return itemgen.DecodeStage1(raw, jobs, vs)
}

// preselect draws the deterministic part of each job's pool. Without a
// configured table the list being run is the table.
func (g *Generator) preselect(jobs []itemgen.Job) ([][]string, []int) {
	table := g.config.Vocab
	if len(table) == 0 {
		table = make([]bank.VocabEntry, len(jobs))
		for i, job := range jobs {
			table[i] = bank.VocabEntry{Word: job.Word, PartOfSpeech: job.PartOfSpeech}
		}
	}

	picked := make([][]string, len(jobs))
	needed := make([]int, len(jobs))
	for i, job := range jobs {
		sel := distractor.Select(table, job.Word, job.PartOfSpeech, g.rng)
		picked[i] = sel.Picked()
		needed[i] = sel.NeededFromLLM
	}
	return picked, needed
}

// overlay writes the preselected words over the first slots, so the pool
// holds them even when the model paraphrased its copy.
func overlay(cands, picked []string) []string {
	for i, w := range picked {
		if i < len(cands) {
			cands[i] = w
		}
	}
	return cands
}

// singleWordFill checks the slots the model filled itself.
func singleWordFill(jobs []itemgen.Job, picked [][]string) itemgen.Validator[itemgen.Stage2Record] {
	fixed := make(map[itemgen.ItemNumber]int, len(jobs))
	for i, job := range jobs {
		fixed[job.ItemNumber()] = len(picked[i])
	}
	return itemgen.ValidatorFunc[itemgen.Stage2Record]{
		ValidatorName: "single-word-fill",
		Fn: func(rec *itemgen.Stage2Record, job itemgen.Job) *itemgen.ValidationError {
			for i := fixed[job.ItemNumber()]; i < len(rec.Candidates) && i < itemgen.VocabListPoolSlots; i++ {
				c := strings.TrimSpace(rec.Candidates[i])
				if c == "" {
					return &itemgen.ValidationError{
						Validator: "single-word-fill",
						Message:   fmt.Sprintf("Candidate %s is empty", itemgen.CandidateLetters[i]),
					}
				}
				if len(strings.Fields(c)) > 1 {
					return &itemgen.ValidationError{
						Validator: "single-word-fill",
						Message:   fmt.Sprintf("Candidate %s %q is not a single word", itemgen.CandidateLetters[i], c),
					}
				}
			}
			return nil
		},
	}
}

// selectedFromPool requires every selected distractor to come from the
// record's stage 2 pool. In vocabulary-list runs the pool carries the
// preselected words, so the model cannot swap them for its own.
func selectedFromPool(jobs []itemgen.Job, s2 []itemgen.Stage2Record) itemgen.Validator[itemgen.Stage3Record] {
	pools := make(map[itemgen.ItemNumber]map[string]bool, len(jobs))
	for i, job := range jobs {
		pool := make(map[string]bool)
		if i < len(s2) {
			for _, c := range s2[i].Candidates {
				pool[poolKey(c)] = true
			}
		}
		pools[job.ItemNumber()] = pool
	}
	return itemgen.ValidatorFunc[itemgen.Stage3Record]{
		ValidatorName: "selected-from-pool",
		Fn: func(rec *itemgen.Stage3Record, job itemgen.Job) *itemgen.ValidationError {
			pool := pools[job.ItemNumber()]
			for i, d := range rec.Distractors() {
				if !pool[poolKey(d)] {
					return &itemgen.ValidationError{
						Validator: "selected-from-pool",
						Message:   fmt.Sprintf("Selected Distractor %s %q is not one of the candidates", itemgen.OptionLetters[i], d),
					}
				}
			}
			return nil
		},
	}
}

func poolKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
