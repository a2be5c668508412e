package itemgen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Level is a CEFR proficiency level. Only A1 through C1 are generated.
type Level string

const (
	A1 Level = "A1"
	A2 Level = "A2"
	B1 Level = "B1"
	B2 Level = "B2"
	C1 Level = "C1"
)

// Levels lists the supported levels in ascending order.
var Levels = []Level{A1, A2, B1, B2, C1}

// ParseLevel normalizes case and surrounding whitespace.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Levels {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown CEFR level %q (want one of A1, A2, B1, B2, C1)", s)
}

// QuestionType selects the kind of item being written.
type QuestionType string

const (
	Grammar    QuestionType = "Grammar"
	Vocabulary QuestionType = "Vocabulary"
)

// ParseQuestionType accepts the display name, its lowercase form or "vocab".
func ParseQuestionType(s string) (QuestionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grammar":
		return Grammar, nil
	case "vocabulary", "vocab":
		return Vocabulary, nil
	}
	return "", fmt.Errorf("unknown question type %q (want Grammar or Vocabulary)", s)
}

// BankKey is the key of the example bank holding this type's rows.
func (t QuestionType) BankKey() string {
	if t == Vocabulary {
		return "vocab"
	}
	return strings.ToLower(string(t))
}

// Strategy names a generation strategy.
type Strategy string

const (
	StrategySequentialBatch Strategy = "Sequential Batch (3-Call)"
	StrategyHolistic        Strategy = "Holistic (1-Call)"
	StrategySegmented       Strategy = "Segmented (2-Call)"
)

// Strategies lists every strategy, default first.
var Strategies = []Strategy{StrategySequentialBatch, StrategyHolistic, StrategySegmented}

// ParseStrategy accepts a full strategy name or a short alias.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "batch", "sequential", strings.ToLower(string(StrategySequentialBatch)):
		return StrategySequentialBatch, nil
	case "holistic", strings.ToLower(string(StrategyHolistic)):
		return StrategyHolistic, nil
	case "segmented", strings.ToLower(string(StrategySegmented)):
		return StrategySegmented, nil
	}
	return "", fmt.Errorf("unknown strategy %q (want batch, holistic or segmented)", s)
}

// Stage identifies the pipeline step that produced an error or a record.
type Stage string

const (
	StagePlanning Stage = "planning"
	Stage1        Stage = "stage1"
	Stage2        Stage = "stage2"
	Stage3        Stage = "stage3"
	StageAssembly Stage = "assembly"
	StageHolistic Stage = "holistic"
	StageOptions  Stage = "options"
	StageStem     Stage = "stem"
)

// Top-level keys each batched stage wraps its records in.
const (
	KeyQuestions  = "questions"
	KeyCandidates = "candidates"
	KeyValidated  = "validated"
)

// Job is one planned question. Stage outputs align with jobs by position.
type Job struct {
	ID       int
	CEFR     Level
	Type     QuestionType
	Focus    string
	Topic    string
	Strategy Strategy

	// Set only for vocabulary-list jobs.
	Word         string
	PartOfSpeech string
	QuestionForm string
}

// ItemNumber is the 1-based label shown to reviewers.
func (j Job) ItemNumber() ItemNumber {
	return ItemNumber(strconv.Itoa(j.ID + 1))
}

// HasDistinction reports whether a grammar focus contrasts two forms ("X vs Y").
func (j Job) HasDistinction() bool {
	return j.Type == Grammar && strings.Contains(strings.ToLower(j.Focus), "vs")
}

// IsVocabList reports whether the job targets a word from a supplied list.
func (j Job) IsVocabList() bool {
	return j.Word != ""
}

// ItemNumber is decoded from either a JSON string or a JSON number.
type ItemNumber string

func (n *ItemNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = ItemNumber(strings.TrimSpace(s))
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("item number: %w", err)
	}
	*n = ItemNumber(num.String())
	return nil
}

// Stage1Record is a complete sentence with the correct answer embedded.
type Stage1Record struct {
	ItemNumber             ItemNumber `json:"Item Number"`
	AssessmentFocus        string     `json:"Assessment Focus"`
	CompleteSentence       string     `json:"Complete Sentence"`
	CorrectAnswer          string     `json:"Correct Answer"`
	ContextClueLocation    string     `json:"Context Clue Location,omitempty"`
	ContextClueExplanation string     `json:"Context Clue Explanation,omitempty"`
	CEFR                   string     `json:"CEFR rating"`
	Category               string     `json:"Category"`
}

// Stage2Record is the candidate pool for one sentence.
type Stage2Record struct {
	ItemNumber ItemNumber
	Candidates []string
}

// CandidateLetters labels candidate slots. Vocabulary-list pools use all
// eight; every other pool uses the first five.
var CandidateLetters = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

// Pool sizes.
const (
	CandidateSlots     = 5
	VocabListPoolSlots = 8
)

func candidateKey(i int) string {
	return "Candidate " + CandidateLetters[i]
}

// MarshalJSON writes the flat "Candidate X" shape used in prompts.
func (r Stage2Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`{"Item Number":`)
	num, err := json.Marshal(string(r.ItemNumber))
	if err != nil {
		return nil, err
	}
	b.Write(num)
	for i, c := range r.Candidates {
		if i >= len(CandidateLetters) {
			break
		}
		key, _ := json.Marshal(candidateKey(i))
		val, err := json.Marshal(c)
		if err != nil {
			return nil, err
		}
		b.WriteByte(',')
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// UnmarshalJSON reads "Candidate A" onwards, stopping at the first gap.
func (r *Stage2Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var out Stage2Record
	if raw, ok := fields["Item Number"]; ok {
		if err := out.ItemNumber.UnmarshalJSON(raw); err != nil {
			return err
		}
	}
	for i := range CandidateLetters {
		raw, ok := fields[candidateKey(i)]
		if !ok {
			break
		}
		var c string
		if err := json.Unmarshal(raw, &c); err != nil {
			return fmt.Errorf("%s: %w", candidateKey(i), err)
		}
		out.Candidates = append(out.Candidates, strings.TrimSpace(c))
	}
	*r = out
	return nil
}

// Stage3Record holds the three distractors chosen for one sentence.
type Stage3Record struct {
	ItemNumber      ItemNumber `json:"Item Number"`
	SelectedA       string     `json:"Selected Distractor A"`
	SelectedB       string     `json:"Selected Distractor B"`
	SelectedC       string     `json:"Selected Distractor C"`
	ValidationNotes string     `json:"Validation Notes,omitempty"`
}

// Distractors returns the three selections in order.
func (r Stage3Record) Distractors() []string {
	return []string{r.SelectedA, r.SelectedB, r.SelectedC}
}

// FinalQuestion is an assembled four-option item. JSON names match the
// export columns.
type FinalQuestion struct {
	ItemNumber      ItemNumber `json:"Item Number"`
	AssessmentFocus string     `json:"Assessment Focus"`
	QuestionPrompt  string     `json:"Question Prompt"`
	AnswerA         string     `json:"Answer A"`
	AnswerB         string     `json:"Answer B"`
	AnswerC         string     `json:"Answer C"`
	AnswerD         string     `json:"Answer D"`
	CorrectAnswer   string     `json:"Correct Answer"`
	CEFR            string     `json:"CEFR rating"`
	Category        string     `json:"Category"`
}

// OptionLetters labels the four answer slots.
var OptionLetters = []string{"A", "B", "C", "D"}

// Answers returns the four options in letter order.
func (q FinalQuestion) Answers() []string {
	return []string{q.AnswerA, q.AnswerB, q.AnswerC, q.AnswerD}
}

// CorrectText returns the text of the option the correct letter points at,
// or "" when the letter is not one of A-D.
func (q FinalQuestion) CorrectText() string {
	idx := letterIndex(q.CorrectAnswer)
	if idx < 0 {
		return ""
	}
	return q.Answers()[idx]
}

func letterIndex(letter string) int {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	for i, l := range OptionLetters {
		if l == letter {
			return i
		}
	}
	return -1
}

// OptionSet is the first call of the segmented strategy: four options and
// the letter of the correct one.
type OptionSet struct {
	AnswerA       string `json:"Answer A"`
	AnswerB       string `json:"Answer B"`
	AnswerC       string `json:"Answer C"`
	AnswerD       string `json:"Answer D"`
	CorrectAnswer string `json:"Correct Answer"`
}
