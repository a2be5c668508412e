package prompt

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/itemsmith/internal/itemgen"
)

type stage3Input struct {
	ItemNumber       itemgen.ItemNumber `json:"Item Number"`
	AssessmentFocus  string             `json:"Assessment Focus"`
	CEFR             string             `json:"CEFR rating"`
	CompleteSentence string             `json:"Complete Sentence"`
	CorrectAnswer    string             `json:"Correct Answer"`
	Candidates       []string           `json:"Candidates"`
}

func stage3Inputs(recs []itemgen.Stage1Record, cands []itemgen.Stage2Record) []stage3Input {
	out := make([]stage3Input, len(recs))
	for i, r := range recs {
		out[i] = stage3Input{
			ItemNumber:       r.ItemNumber,
			AssessmentFocus:  r.AssessmentFocus,
			CEFR:             r.CEFR,
			CompleteSentence: r.CompleteSentence,
			CorrectAnswer:    r.CorrectAnswer,
		}
		if i < len(cands) {
			out[i].Candidates = cands[i].Candidates
		}
	}
	return out
}

// Stage3Grammar asks the model to substitution-test each candidate and keep
// three.
func Stage3Grammar(recs []itemgen.Stage1Record, cands []itemgen.Stage2Record, jobs []itemgen.Job) Pair {
	return stage3(recs, cands, jobs, []string{
		"SUBSTITUTION TEST: put each candidate into the sentence in place of the correct answer and read the full result.",
		"GRAMMAR CHECK: answer YES if the result obeys English grammar, whether or not it suits the context, and NO if it breaks a structural rule. \"Look at those clouds, it will rain\" is YES; \"Look at those clouds, it will be rain\" is NO.",
		"REJECT every candidate that produces a grammatically correct sentence (a YES). Such a candidate creates a second right answer.",
		"PROFICIENCY CHECK: REJECT every candidate whose error is too easy for the item's CEFR rating. A C1 modal item with \"didn't needed to do\" is rejected as an A2 error, as is a B2 conditional with \"If I will know\"; \"couldn't have done\" suits C1, and \"goed\" suits A2.",
		"RANK the survivors by plausibility as learner errors, variety of error types and fit with the focus. For a focus of the form \"X vs Y\", keep both sides represented.",
	})
}

// Stage3Vocabulary applies the dual validation check for meaning-based items.
func Stage3Vocabulary(recs []itemgen.Stage1Record, cands []itemgen.Stage2Record, jobs []itemgen.Job) Pair {
	return stage3(recs, cands, jobs, []string{
		"SUBSTITUTION TEST: put each candidate into the sentence in place of the correct answer and read the full result.",
		"DUAL VALIDATION: the result must stay grammatical, and it must be clearly wrong in meaning or collocation given the context clue.",
		"UNIQUENESS: reject any candidate that a fluent English judge would accept as a reasonable answer in this context.",
	})
}

func stage3(recs []itemgen.Stage1Record, cands []itemgen.Stage2Record, jobs []itemgen.Job, checks []string) Pair {
	n := len(jobs)
	system := fmt.Sprintf(
		"You are an expert ELT item reviewer. For each of the %d sentences below you will test every candidate independently and select exactly 3 distractors.",
		n)

	rules := slices.Concat(checks, []string{
		"SELECT exactly 3 surviving candidates per record, choosing the set with the most varied error types that a learner at this CEFR level could plausibly choose.",
		"Copy the selected candidates exactly as written from that record's \"Candidates\" list; never invent a new distractor. Summarise the rejected candidates and your reasons in \"Validation Notes\".",
		fmt.Sprintf("COUNT: return exactly %d records, in the same order as the input.", n),
	})

	var b strings.Builder
	b.WriteString("ITEMS AND CANDIDATES:\n")
	b.WriteString(indentJSON(stage3Inputs(recs, cands)))
	b.WriteString("\n\nINSTRUCTIONS:\n")
	b.WriteString(numbered(rules))
	b.WriteString("\n\nMANDATORY OUTPUT FORMAT (JSON only, no prose):\n")
	b.WriteString(outputShape(itemgen.KeyValidated, stage3Fields, n, "records"))
	fmt.Fprintf(&b, "\n\nCHECK: the %q array must contain exactly %d objects.", itemgen.KeyValidated, n)

	return Pair{System: system, User: b.String()}
}
