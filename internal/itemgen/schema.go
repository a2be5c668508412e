package itemgen

import (
	"fmt"
	"sync"

	"github.com/abhisek/itemsmith/internal/llm"
)

var (
	itemNumberProp = map[string]any{
		"type":        []any{"string", "integer"},
		"description": "1-based item label",
	}
	nonEmpty = func(desc string) map[string]any {
		return map[string]any{"type": "string", "minLength": 1, "description": desc}
	}
	optional = func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}
)

// Stage1Schema validates one sentence record.
var Stage1Schema = &llm.Schema{
	Name:        "stage1-record",
	Description: "A complete sentence with the correct answer embedded",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Item Number":              itemNumberProp,
			"Assessment Focus":         nonEmpty("The focus this item tests"),
			"Complete Sentence":        nonEmpty("Sentence with the answer visible"),
			"Correct Answer":           nonEmpty("Exact substring of the sentence that will be blanked"),
			"Context Clue Location":    optional("Which phrase or clause is the clue"),
			"Context Clue Explanation": optional("Why the clue eliminates alternatives"),
			"CEFR rating":              nonEmpty("CEFR level"),
			"Category":                 nonEmpty("Grammar or Vocabulary"),
		},
		"required": []any{"Item Number", "Assessment Focus", "Complete Sentence", "Correct Answer", "CEFR rating", "Category"},
	},
}

var stage2Schemas sync.Map // map[int]*llm.Schema

// Stage2Schema validates one candidate pool with the given number of slots.
func Stage2Schema(slots int) *llm.Schema {
	if s, ok := stage2Schemas.Load(slots); ok {
		return s.(*llm.Schema)
	}

	props := map[string]any{"Item Number": itemNumberProp}
	required := []any{"Item Number"}
	for i := 0; i < slots && i < len(CandidateLetters); i++ {
		props[candidateKey(i)] = nonEmpty("Replacement for the correct answer")
		required = append(required, candidateKey(i))
	}

	s := &llm.Schema{
		Name:        fmt.Sprintf("stage2-record-%d", slots),
		Description: "Candidate distractors for one sentence",
		Definition: map[string]any{
			"type":       "object",
			"properties": props,
			"required":   required,
		},
	}
	actual, _ := stage2Schemas.LoadOrStore(slots, s)
	return actual.(*llm.Schema)
}

// Stage3Schema validates one selection record.
var Stage3Schema = &llm.Schema{
	Name:        "stage3-record",
	Description: "Three validated distractors for one sentence",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Item Number":           itemNumberProp,
			"Selected Distractor A": nonEmpty("First selected distractor"),
			"Selected Distractor B": nonEmpty("Second selected distractor"),
			"Selected Distractor C": nonEmpty("Third selected distractor"),
			"Validation Notes":      optional("Which candidates passed or failed and why"),
		},
		"required": []any{"Item Number", "Selected Distractor A", "Selected Distractor B", "Selected Distractor C"},
	},
}

// QuestionSchema validates a complete four-option question.
var QuestionSchema = &llm.Schema{
	Name:        "final-question",
	Description: "A four-option multiple choice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Item Number":      itemNumberProp,
			"Assessment Focus": optional("The focus this item tests"),
			"Question Prompt":  nonEmpty("Stem with a blank"),
			"Answer A":         nonEmpty("Option A"),
			"Answer B":         nonEmpty("Option B"),
			"Answer C":         nonEmpty("Option C"),
			"Answer D":         nonEmpty("Option D"),
			"Correct Answer":   nonEmpty("Letter of the correct option, or its text"),
			"CEFR rating":      optional("CEFR level"),
			"Category":         optional("Grammar or Vocabulary"),
		},
		"required": []any{"Question Prompt", "Answer A", "Answer B", "Answer C", "Answer D", "Correct Answer"},
	},
}

// OptionsSchema validates the first segmented call.
var OptionsSchema = &llm.Schema{
	Name:        "option-set",
	Description: "Four answer options and the correct letter",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"Answer A":       nonEmpty("Option A"),
			"Answer B":       nonEmpty("Option B"),
			"Answer C":       nonEmpty("Option C"),
			"Answer D":       nonEmpty("Option D"),
			"Correct Answer": nonEmpty("Letter of the correct option"),
		},
		"required": []any{"Answer A", "Answer B", "Answer C", "Answer D", "Correct Answer"},
	},
}
