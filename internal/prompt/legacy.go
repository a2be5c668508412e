package prompt

import (
	"fmt"
	"strings"

	"github.com/abhisek/itemsmith/internal/itemgen"
)

// Holistic asks for a complete four-option question in one call.
func Holistic(job itemgen.Job, examples string) Pair {
	system := "You are an expert ELT item writer. You will write exactly 1 complete multiple-choice question with four options and one correct answer."

	rules := []string{
		fmt.Sprintf("Write a sentence with one gap marked %q. Only one option may correctly fill it.", itemgen.BlankMarker),
		"The three wrong options must be plausible for a learner at this CEFR level and at most 3 words each.",
		"Include a context clue in the sentence that rules out every wrong option.",
		"At most two clauses. No grammar or vocabulary terminology in the sentence.",
		"\"Correct Answer\" is the letter (A, B, C or D) of the right option.",
	}

	var b strings.Builder
	b.WriteString(jobHeader(job, examples))
	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString(numbered(rules))
	b.WriteString("\n\nOUTPUT FORMAT (a single JSON object, no prose):\n")
	b.WriteString(objectShape(questionFields, jobLabels(job)))

	return Pair{System: system, User: b.String()}
}

// Options is the first segmented call: four options and the correct
// letter, with no sentence yet.
func Options(job itemgen.Job) Pair {
	system := "You are an expert ELT item writer. You will write exactly 1 set of four answer options for a gap-fill question, before the sentence exists."

	rules := []string{
		"Write one correct answer and three distractors that test the assessment focus at the given CEFR level.",
		"All four options have the same word class and are at most 3 words each.",
		"No two options may be the same.",
		"\"Correct Answer\" is the letter (A, B, C or D) of the right option.",
	}

	var b strings.Builder
	b.WriteString(jobHeader(job, ""))
	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString(numbered(rules))
	b.WriteString("\n\nOUTPUT FORMAT (a single JSON object, no prose):\n")
	b.WriteString(objectShape(optionFields, nil))

	return Pair{System: system, User: b.String()}
}

// Stem is the second segmented call: a sentence for options that already
// exist.
func Stem(job itemgen.Job, optionsJSON, examples string) Pair {
	system := "You are an expert ELT item writer. You will write exactly 1 question sentence for a fixed set of four options."

	rules := []string{
		fmt.Sprintf("Write a sentence with one gap marked %q that only the correct option can fill.", itemgen.BlankMarker),
		"Copy the four options and the correct letter unchanged.",
		"Include a context clue that rules out each of the three distractors.",
		"At most two clauses. No grammar or vocabulary terminology in the sentence.",
	}

	var b strings.Builder
	b.WriteString(jobHeader(job, examples))
	b.WriteString("FIXED OPTIONS:\n")
	b.WriteString(optionsJSON)
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString(numbered(rules))
	b.WriteString("\n\nOUTPUT FORMAT (a single JSON object, no prose):\n")
	b.WriteString(objectShape(questionFields, jobLabels(job)))

	return Pair{System: system, User: b.String()}
}

func jobHeader(job itemgen.Job, examples string) string {
	var b strings.Builder
	b.WriteString("JOB SPECIFICATION:\n")
	b.WriteString(indentJSON(specsFor([]itemgen.Job{job})[0]))
	b.WriteString("\n\n")
	if examples != "" {
		b.WriteString("STYLE REFERENCE:\n")
		b.WriteString(examples)
		b.WriteString("\n")
	}
	if job.HasDistinction() {
		b.WriteString(grammarExclusivity)
		b.WriteString("\n\n")
	}
	if job.Type == itemgen.Vocabulary {
		b.WriteString(semanticExclusivity)
		b.WriteString("\n\n")
	}
	if job.IsVocabList() {
		b.WriteString(vocabListBlock)
		b.WriteString("\n\n")
	}
	return b.String()
}
