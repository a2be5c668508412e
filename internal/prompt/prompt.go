// Package prompt builds the system and user instructions for every
// generation call. All functions are pure: the same inputs always give the
// same text.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/itemsmith/internal/itemgen"
)

// Pair is one call's instructions.
type Pair struct {
	System string
	User   string
}

// jobSpec is the per-job description embedded in batched prompts.
type jobSpec struct {
	ItemNumber itemgen.ItemNumber `json:"item_number"`
	CEFR       itemgen.Level      `json:"cefr"`
	Type       string             `json:"type"`
	Focus      string             `json:"focus"`
	Topic      string             `json:"topic"`

	Word         string `json:"target_word,omitempty"`
	PartOfSpeech string `json:"part_of_speech,omitempty"`
	QuestionForm string `json:"question_form,omitempty"`
}

func specsFor(jobs []itemgen.Job) []jobSpec {
	out := make([]jobSpec, len(jobs))
	for i, j := range jobs {
		out[i] = jobSpec{
			ItemNumber: j.ItemNumber(),
			CEFR:       j.CEFR,
			Type:       string(j.Type),
			Focus:      j.Focus,
			Topic:      j.Topic,

			Word:         j.Word,
			PartOfSpeech: j.PartOfSpeech,
			QuestionForm: j.QuestionForm,
		}
	}
	return out
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

func hasDistinction(jobs []itemgen.Job) bool {
	for _, j := range jobs {
		if j.HasDistinction() {
			return true
		}
	}
	return false
}

func hasVocabulary(jobs []itemgen.Job) bool {
	for _, j := range jobs {
		if j.Type == itemgen.Vocabulary {
			return true
		}
	}
	return false
}

func hasVocabList(jobs []itemgen.Job) bool {
	for _, j := range jobs {
		if j.IsVocabList() {
			return true
		}
	}
	return false
}

// numbered renders rules as "1. ...", blank-line separated.
func numbered(rules []string) string {
	var b strings.Builder
	for i, r := range rules {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. %s", i+1, r)
	}
	return b.String()
}

// outputShape renders the wrapped-array format block for a batched stage.
func outputShape(key string, fields []string, n int, unit string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "{\n  %q: [\n    {\n", key)
	for i, f := range fields {
		sep := ","
		if i == len(fields)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "      %q: \"...\"%s\n", f, sep)
	}
	fmt.Fprintf(&b, "    },\n    ... (exactly %d %s in total)\n  ]\n}", n, unit)
	return b.String()
}

// objectShape renders a single-object format block. Fixed values are
// shown filled in.
func objectShape(fields []string, fixed map[string]string) string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, f := range fields {
		sep := ","
		if i == len(fields)-1 {
			sep = ""
		}
		v, ok := fixed[f]
		if !ok {
			v = "..."
		}
		fmt.Fprintf(&b, "  %q: %q%s\n", f, v, sep)
	}
	b.WriteString("}")
	return b.String()
}

var (
	stage1Fields = []string{
		"Item Number", "Assessment Focus", "Complete Sentence", "Correct Answer",
		"Context Clue Location", "Context Clue Explanation", "CEFR rating", "Category",
	}
	stage3Fields = []string{
		"Item Number", "Selected Distractor A", "Selected Distractor B",
		"Selected Distractor C", "Validation Notes",
	}
	questionFields = []string{
		"Item Number", "Assessment Focus", "Question Prompt", "Answer A", "Answer B",
		"Answer C", "Answer D", "Correct Answer", "CEFR rating", "Category",
	}
	optionFields = []string{"Answer A", "Answer B", "Answer C", "Answer D", "Correct Answer"}
)

func candidateFields(slots int) []string {
	out := []string{"Item Number"}
	for i := 0; i < slots && i < len(itemgen.CandidateLetters); i++ {
		out = append(out, "Candidate "+itemgen.CandidateLetters[i])
	}
	return out
}

// jobLabels pre-fills the labels a single-job response must echo.
func jobLabels(job itemgen.Job) map[string]string {
	return map[string]string{
		"Item Number":      string(job.ItemNumber()),
		"Assessment Focus": job.Focus,
		"CEFR rating":      string(job.CEFR),
		"Category":         string(job.Type),
	}
}
