package itemgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/itemsmith/internal/llm"
)

// DecodeStage1 decodes a batched sentence response. It must hold exactly
// one record per job.
func DecodeStage1(raw string, jobs []Job, vs []Validator[Stage1Record]) ([]Stage1Record, error) {
	return decodeBatch(Stage1, raw, KeyQuestions, Stage1Schema, jobs, vs)
}

// DecodeStage1Single decodes a single-job sentence response. A bare object
// and a one-element "questions" array are both accepted.
func DecodeStage1Single(raw string, job Job, vs []Validator[Stage1Record]) (Stage1Record, error) {
	var rec Stage1Record
	v, err := ParseResponse(raw)
	if err != nil {
		return rec, withStage(err, Stage1)
	}
	item, err := singleObject(Stage1, v, KeyQuestions, "Complete Sentence")
	if err != nil {
		return rec, err
	}
	if err := decodeRecord(Stage1, raw, item, Stage1Schema, &rec); err != nil {
		return rec, err
	}
	if verr := runValidators(vs, &rec, job); verr != nil {
		return rec, &ParseError{Stage: Stage1, Raw: raw, Err: verr}
	}
	return rec, nil
}

// DecodeStage2 decodes a batched candidate response where every record
// fills slots candidates.
func DecodeStage2(raw string, jobs []Job, slots int, vs []Validator[Stage2Record]) ([]Stage2Record, error) {
	recs, err := decodeBatch(Stage2, raw, KeyCandidates, Stage2Schema(slots), jobs, vs)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		if len(recs[i].Candidates) > slots {
			recs[i].Candidates = recs[i].Candidates[:slots]
		}
	}
	return recs, nil
}

// DecodeStage3 decodes a batched selection response.
func DecodeStage3(raw string, jobs []Job, vs []Validator[Stage3Record]) ([]Stage3Record, error) {
	recs, err := decodeBatch(Stage3, raw, KeyValidated, Stage3Schema, jobs, vs)
	if err != nil {
		return nil, err
	}
	for i := range recs {
		recs[i].SelectedA = strings.TrimSpace(recs[i].SelectedA)
		recs[i].SelectedB = strings.TrimSpace(recs[i].SelectedB)
		recs[i].SelectedC = strings.TrimSpace(recs[i].SelectedC)
	}
	return recs, nil
}

// DecodeQuestion decodes a complete question written in one call. A
// correct answer given as option text is converted to its letter, and
// labels the model omitted are filled from the job.
func DecodeQuestion(stage Stage, raw string, job Job, vs []Validator[FinalQuestion]) (FinalQuestion, error) {
	var q FinalQuestion
	v, err := ParseResponse(raw)
	if err != nil {
		return q, withStage(err, stage)
	}
	item, err := singleObject(stage, v, KeyQuestions, "Question Prompt")
	if err != nil {
		return q, err
	}
	if err := decodeRecord(stage, raw, item, QuestionSchema, &q); err != nil {
		return q, err
	}

	q.CorrectAnswer = correctLetter(q.CorrectAnswer, q.Answers())
	if q.ItemNumber == "" {
		q.ItemNumber = job.ItemNumber()
	}
	if q.AssessmentFocus == "" {
		q.AssessmentFocus = job.Focus
	}
	if q.CEFR == "" {
		q.CEFR = string(job.CEFR)
	}
	if q.Category == "" {
		q.Category = string(job.Type)
	}

	if verr := runValidators(vs, &q, job); verr != nil {
		return q, &ParseError{Stage: stage, Raw: raw, Err: verr}
	}
	return q, nil
}

// DecodeStem decodes the second segmented call.
func DecodeStem(raw string, job Job, vs []Validator[FinalQuestion]) (FinalQuestion, error) {
	return DecodeQuestion(StageStem, raw, job, vs)
}

// DecodeOptions decodes the first segmented call.
func DecodeOptions(raw string) (OptionSet, error) {
	var o OptionSet
	v, err := ParseResponse(raw)
	if err != nil {
		return o, withStage(err, StageOptions)
	}
	item, err := singleObject(StageOptions, v, "options", "Answer A")
	if err != nil {
		return o, err
	}
	if err := decodeRecord(StageOptions, raw, item, OptionsSchema, &o); err != nil {
		return o, err
	}

	opts := []string{o.AnswerA, o.AnswerB, o.AnswerC, o.AnswerD}
	o.CorrectAnswer = correctLetter(o.CorrectAnswer, opts)
	if letterIndex(o.CorrectAnswer) < 0 {
		return o, &ParseError{Stage: StageOptions, Raw: raw,
			Err: fmt.Errorf("correct answer %q is not one of A, B, C, D", o.CorrectAnswer)}
	}
	if msg := distinctOptions(opts); msg != "" {
		return o, &ParseError{Stage: StageOptions, Raw: raw, Err: errors.New(msg)}
	}
	return o, nil
}

func decodeBatch[T any](stage Stage, raw, key string, schema *llm.Schema, jobs []Job, vs []Validator[T]) ([]T, error) {
	v, err := ParseResponse(raw)
	if err != nil {
		return nil, withStage(err, stage)
	}
	items, err := ExtractArray(v, key)
	if err != nil {
		return nil, withStage(err, stage)
	}
	if len(items) != len(jobs) {
		return nil, &CountMismatch{Stage: stage, Want: len(jobs), Got: len(items)}
	}

	out := make([]T, len(items))
	for i, item := range items {
		if err := decodeRecord(stage, raw, item, schema, &out[i]); err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Err = fmt.Errorf("record %d: %w", i+1, pe.Err)
			}
			return nil, err
		}
		if verr := runValidators(vs, &out[i], jobs[i]); verr != nil {
			return nil, &ParseError{Stage: stage, Raw: raw, Err: fmt.Errorf("record %d: %w", i+1, verr)}
		}
	}
	return out, nil
}

// decodeRecord checks item against schema, then decodes it into dst.
func decodeRecord(stage Stage, raw string, item any, schema *llm.Schema, dst any) error {
	if err := llm.ValidateValue(schema, item); err != nil {
		return &ParseError{Stage: stage, Raw: raw, Err: err}
	}
	b, err := json.Marshal(item)
	if err != nil {
		return &ParseError{Stage: stage, Raw: raw, Err: err}
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return &ParseError{Stage: stage, Raw: raw, Err: err}
	}
	return nil
}

// singleObject returns v when it is the record itself (it has marker), or
// the only element of its record array.
func singleObject(stage Stage, v any, key, marker string) (any, error) {
	if obj, ok := v.(map[string]any); ok {
		if _, ok := obj[marker]; ok {
			return obj, nil
		}
	}
	items, err := ExtractArray(v, key)
	if err != nil {
		return nil, withStage(err, stage)
	}
	if len(items) != 1 {
		return nil, &CountMismatch{Stage: stage, Want: 1, Got: len(items)}
	}
	return items[0], nil
}

// correctLetter returns the letter for answer, which may be a letter, a
// "B)" style label, or the text of one of opts. An uppercase letter wins
// over option text; option text wins over a lowercase letter, so "a" in an
// articles item resolves to the option reading "a".
func correctLetter(answer string, opts []string) string {
	a := strings.TrimSpace(answer)
	label := strings.TrimRight(a, ").:")
	if len(label) == 1 && label == strings.ToUpper(label) {
		if idx := letterIndex(label); idx >= 0 {
			return OptionLetters[idx]
		}
	}
	key := normalizeOption(a)
	for i, o := range opts {
		if normalizeOption(o) == key {
			return OptionLetters[i]
		}
	}
	if idx := letterIndex(label); idx >= 0 {
		return OptionLetters[idx]
	}
	return a
}

func withStage(err error, stage Stage) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Stage = stage
	}
	var ee *ExtractionError
	if errors.As(err, &ee) {
		ee.Stage = stage
	}
	return err
}
