package prompt

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/itemsmith/internal/itemgen"
)

type stage2Input struct {
	ItemNumber       itemgen.ItemNumber `json:"Item Number"`
	AssessmentFocus  string             `json:"Assessment Focus"`
	CEFR             string             `json:"CEFR rating"`
	CompleteSentence string             `json:"Complete Sentence"`
	CorrectAnswer    string             `json:"Correct Answer"`
	Preselected      []string           `json:"Preselected Distractors,omitempty"`
	Needed           *int               `json:"Needed From You,omitempty"`
}

func stage2Inputs(recs []itemgen.Stage1Record) []stage2Input {
	out := make([]stage2Input, len(recs))
	for i, r := range recs {
		out[i] = stage2Input{
			ItemNumber:       r.ItemNumber,
			AssessmentFocus:  r.AssessmentFocus,
			CEFR:             r.CEFR,
			CompleteSentence: r.CompleteSentence,
			CorrectAnswer:    r.CorrectAnswer,
		}
	}
	return out
}

var grammarStage2Rules = []string{
	"LENGTH: each candidate is at most 3 words.",
	"PARALLELISM: every candidate matches the word count and construction type of the correct answer. If the correct answer is two words, so is each candidate.",
	"NO OVERLAP: a candidate must not use any word that appears after the blank in the sentence, and must not share the root of the correct answer unless the focus is about word form.",
	"INFLECTIONS PERMITTED: you may change verb forms, add or remove inflections and adjust derivations to produce the error.",
	"LEARNER ERRORS: prefer common interlanguage patterns, such as a missing infinitive marker (\"is going rain\"), a wrong auxiliary combination (\"will be rain\"), an agreement slip (\"he go\"), tense confusion between similar forms (\"has went\") or a wrong inflection (\"will rains\").",
	"CEFR DIFFICULTY: the error each candidate causes must suit the item's CEFR rating. B2 and C1 items need subtle form confusions inside complex structures, not elementary slips.",
	"DISTINCTIONS: for a focus of the form \"X vs Y\", candidates must cover both sides of the distinction.",
	"ANTI-REPETITION: do not reuse the same candidate words across items in this batch unless the focus requires it.",
}

var vocabularyStage2Rules = []string{
	"LENGTH: each candidate is at most 3 words.",
	"FORM MATCH: every candidate has the same word class and inflectional form as the correct answer (same tense marking, number, person and voice). After \"to\", a modal or a plural subject the answer is a base form, so every candidate is a base form too.",
	"SEMANTIC FIELD: draw candidates from the same semantic field as the correct answer, so that each is wrong through register, collocation or idiom rather than being obviously unrelated.",
	"PHONETIC ALTERNATIVE: for B1 and above, include at least one candidate that sounds or looks like the correct answer at the same lexical level (\"possess\" or \"position\" for \"postpone\").",
	"NO OVERLAP: a candidate must not use any form or the root of the correct answer.",
	"CEFR DIFFICULTY: the candidates must suit the item's CEFR rating.",
	"ANTI-REPETITION: do not reuse the same candidate words across items in this batch.",
}

// Stage2Grammar asks for five candidates per record that make the sentence
// ungrammatical.
func Stage2Grammar(recs []itemgen.Stage1Record, jobs []itemgen.Job) Pair {
	return stage2(recs, jobs,
		"Each candidate, placed in the blank, must make the sentence grammatically wrong in a specific, nameable way (wrong tense, agreement, aspect, word order, form).",
		"grammar", grammarStage2Rules)
}

// Stage2Vocabulary asks for five candidates per record that stay
// grammatical but break meaning or collocation.
func Stage2Vocabulary(recs []itemgen.Stage1Record, jobs []itemgen.Job) Pair {
	return stage2(recs, jobs,
		"Each candidate, placed in the blank, must keep the sentence grammatical but make it contextually or collocationally wrong.",
		"vocabulary", vocabularyStage2Rules)
}

func stage2(recs []itemgen.Stage1Record, jobs []itemgen.Job, errorRule, kind string, kindRules []string) Pair {
	n := len(jobs)
	slots := itemgen.CandidateSlots
	system := fmt.Sprintf(
		"You are an expert ELT distractor writer. For each of the %d sentences below you will propose exactly %d %s distractor candidates.",
		n, slots, kind)

	rules := slices.Concat([]string{errorRule}, kindRules)
	rules = append(rules, fmt.Sprintf("COUNT: return exactly %d records, each with exactly %d candidates, in the same order as the input.", n, slots))

	var b strings.Builder
	b.WriteString("SENTENCES:\n")
	b.WriteString(indentJSON(stage2Inputs(recs)))
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString(numbered(rules))
	b.WriteString("\n\nMANDATORY OUTPUT FORMAT (JSON only, no prose):\n")
	b.WriteString(outputShape(itemgen.KeyCandidates, candidateFields(slots), n, "records"))
	fmt.Fprintf(&b, "\n\nCHECK: the %q array must contain exactly %d objects.", itemgen.KeyCandidates, n)

	return Pair{System: system, User: b.String()}
}

// Stage2VocabList builds the eight-slot pool prompt. preselected[i] holds
// the deterministic picks for record i, listed first; needed[i] is how many
// single-word items the model must add.
func Stage2VocabList(recs []itemgen.Stage1Record, jobs []itemgen.Job, preselected [][]string, needed []int) Pair {
	n := len(jobs)
	slots := itemgen.VocabListPoolSlots
	system := fmt.Sprintf(
		"You are an expert ELT distractor writer. For each of the %d sentences below you will complete a pool of exactly %d single-word distractor candidates.",
		n, slots)

	inputs := stage2Inputs(recs)
	for i := range inputs {
		if i < len(preselected) {
			inputs[i].Preselected = preselected[i]
		}
		if i < len(needed) {
			k := needed[i]
			inputs[i].Needed = &k
		}
	}

	rules := []string{
		"PRESELECTED: copy the \"Preselected Distractors\" of each record, in order, into its first candidate slots unchanged.",
		"FILL: add exactly \"Needed From You\" further items for that record. Prefer antonyms of the correct answer first, then synonyms of the preselected words.",
		"LENGTH: every item you add is a single word.",
		"FORM MATCH: every item you add has the same part of speech and inflectional form as the correct answer.",
		"NO DUPLICATES: no item may repeat the correct answer, a preselected word or another added item.",
		"ANTI-REPETITION: do not add the same word to more than one record in this batch.",
		fmt.Sprintf("COUNT: return exactly %d records, each with exactly %d candidates, in the same order as the input.", n, slots),
	}

	var b strings.Builder
	b.WriteString("SENTENCES:\n")
	b.WriteString(indentJSON(inputs))
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString(numbered(rules))
	b.WriteString("\n\nMANDATORY OUTPUT FORMAT (JSON only, no prose):\n")
	b.WriteString(outputShape(itemgen.KeyCandidates, candidateFields(slots), n, "records"))
	fmt.Fprintf(&b, "\n\nCHECK: the %q array must contain exactly %d objects.", itemgen.KeyCandidates, n)

	return Pair{System: system, User: b.String()}
}
