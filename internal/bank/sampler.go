package bank

import (
	"encoding/json"
	"math/rand/v2"
	"strings"

	"github.com/abhisek/itemsmith/internal/itemgen"
)

// ExamplesPerPrompt is how many few-shot examples a prompt carries.
const ExamplesPerPrompt = 2

// Sampler picks few-shot examples from the banks.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a Sampler. A nil rng uses the global source.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

type exampleJSON struct {
	QuestionPrompt string `json:"Question Prompt"`
	AnswerA        string `json:"Answer A"`
	AnswerB        string `json:"Answer B"`
	AnswerC        string `json:"Answer C"`
	AnswerD        string `json:"Answer D"`
	CorrectAnswer  string `json:"Correct Answer"`
}

// Block returns up to two formatted examples for the job. Rows at the
// job's CEFR level are preferred; with fewer than two, the whole bank is
// sampled; with fewer than two there either, the block is empty.
func (s *Sampler) Block(job itemgen.Job, banks Banks) string {
	b := banks.For(job.Type)
	if b.Len() < ExamplesPerPrompt {
		return ""
	}

	var pool []int
	for i, row := range b.Rows {
		if strings.EqualFold(strings.TrimSpace(row.CEFR), string(job.CEFR)) {
			pool = append(pool, i)
		}
	}
	if len(pool) < ExamplesPerPrompt {
		pool = pool[:0]
		for i := range b.Rows {
			pool = append(pool, i)
		}
	}

	var out strings.Builder
	for _, idx := range s.pick(pool, ExamplesPerPrompt) {
		row := b.Rows[idx]
		data, _ := json.Marshal(exampleJSON{
			QuestionPrompt: orNA(row.QuestionPrompt),
			AnswerA:        orNA(row.AnswerA),
			AnswerB:        orNA(row.AnswerB),
			AnswerC:        orNA(row.AnswerC),
			AnswerD:        orNA(row.AnswerD),
			CorrectAnswer:  orNA(row.CorrectAnswer),
		})
		out.WriteString("### EXAMPLE:\n")
		out.Write(data)
		out.WriteString("\n\n")
	}
	return out.String()
}

// pick draws n indices from pool without replacement. pool is consumed.
func (s *Sampler) pick(pool []int, n int) []int {
	intN := rand.IntN
	if s.rng != nil {
		intN = s.rng.IntN
	}
	for i := 0; i < n; i++ {
		j := i + intN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
