package itemgen

import (
	"fmt"
	"strings"
)

// Validator checks one decoded record against the job it belongs to.
// Implementations should be stateless and safe for concurrent use.
type Validator[T any] interface {
	// Name returns a short identifier for error messages and logging,
	// e.g. "answer-in-sentence".
	Name() string

	// Validate returns nil if the record passes.
	Validate(rec *T, job Job) *ValidationError
}

// ValidationError describes why a record failed validation.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc[T any] struct {
	ValidatorName string
	Fn            func(rec *T, job Job) *ValidationError
}

func (f ValidatorFunc[T]) Name() string { return f.ValidatorName }

func (f ValidatorFunc[T]) Validate(rec *T, job Job) *ValidationError {
	return f.Fn(rec, job)
}

// Validators holds the ordered validator chain for each record kind. The
// first failure stops the chain.
type Validators struct {
	Stage1   []Validator[Stage1Record]
	Stage2   []Validator[Stage2Record]
	Stage3   []Validator[Stage3Record]
	Question []Validator[FinalQuestion]
}

// DefaultValidators returns the standard chains.
func DefaultValidators() Validators {
	return Validators{
		Stage1:   []Validator[Stage1Record]{&AnswerInSentenceValidator{}},
		Stage2:   []Validator[Stage2Record]{&CandidateLengthValidator{MaxWords: 3}},
		Stage3:   []Validator[Stage3Record]{&DistinctSelectionValidator{}},
		Question: []Validator[FinalQuestion]{&OptionSetValidator{}},
	}
}

func runValidators[T any](vs []Validator[T], rec *T, job Job) *ValidationError {
	for _, v := range vs {
		if verr := v.Validate(rec, job); verr != nil {
			return verr
		}
	}
	return nil
}

// AnswerInSentenceValidator requires the correct answer to appear verbatim
// in the complete sentence, since assembly blanks it out by substring.
type AnswerInSentenceValidator struct{}

func (v *AnswerInSentenceValidator) Name() string { return "answer-in-sentence" }

func (v *AnswerInSentenceValidator) Validate(rec *Stage1Record, _ Job) *ValidationError {
	if !strings.Contains(rec.CompleteSentence, rec.CorrectAnswer) {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("correct answer %q does not appear in %q", rec.CorrectAnswer, rec.CompleteSentence),
		}
	}
	return nil
}

// CandidateLengthValidator caps each candidate at MaxWords words.
type CandidateLengthValidator struct {
	MaxWords int
}

func (v *CandidateLengthValidator) Name() string { return "candidate-length" }

func (v *CandidateLengthValidator) Validate(rec *Stage2Record, _ Job) *ValidationError {
	for i, c := range rec.Candidates {
		if c == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("%s is empty", candidateKey(i)),
			}
		}
		if n := len(strings.Fields(c)); v.MaxWords > 0 && n > v.MaxWords {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("%s %q has %d words, max %d", candidateKey(i), c, n, v.MaxWords),
			}
		}
	}
	return nil
}

// DistinctSelectionValidator requires three non-empty, distinct selections.
type DistinctSelectionValidator struct{}

func (v *DistinctSelectionValidator) Name() string { return "distinct-selection" }

func (v *DistinctSelectionValidator) Validate(rec *Stage3Record, _ Job) *ValidationError {
	seen := make(map[string]bool, 3)
	for i, d := range rec.Distractors() {
		key := normalizeOption(d)
		if key == "" {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("Selected Distractor %s is empty", OptionLetters[i]),
			}
		}
		if seen[key] {
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("distractor %q selected twice", d),
			}
		}
		seen[key] = true
	}
	return nil
}

// OptionSetValidator requires four distinct non-empty answers and a correct
// letter in A-D.
type OptionSetValidator struct{}

func (v *OptionSetValidator) Name() string { return "option-set" }

func (v *OptionSetValidator) Validate(q *FinalQuestion, _ Job) *ValidationError {
	if strings.TrimSpace(q.QuestionPrompt) == "" {
		return &ValidationError{Validator: v.Name(), Message: "question prompt is empty"}
	}
	if letterIndex(q.CorrectAnswer) < 0 {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("correct answer %q is not one of A, B, C, D", q.CorrectAnswer),
		}
	}
	if err := distinctOptions(q.Answers()); err != "" {
		return &ValidationError{Validator: v.Name(), Message: err}
	}
	return nil
}

func distinctOptions(opts []string) string {
	seen := make(map[string]bool, len(opts))
	for i, o := range opts {
		key := normalizeOption(o)
		if key == "" {
			return fmt.Sprintf("Answer %s is empty", OptionLetters[i])
		}
		if seen[key] {
			return fmt.Sprintf("option %q appears twice", o)
		}
		seen[key] = true
	}
	return ""
}

func normalizeOption(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
