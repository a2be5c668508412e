package prompt

import (
	"fmt"
	"strings"

	"github.com/abhisek/itemsmith/internal/itemgen"
)

const grammarExclusivity = `GRAMMATICAL EXCLUSIVITY (for every focus of the form "X vs Y"):
- The sentence must carry a structural signal (a time marker such as "yesterday", "since 2019", "ever", "last week", or an equivalent frame) that makes ONLY the correct form grammatical.
- Name that signal in "Context Clue Location" and explain in "Context Clue Explanation" why the competing form fails.
- Without such a signal both forms could be accepted, and the item would have two right answers.`

const semanticExclusivity = `SEMANTIC EXCLUSIVITY (for every Vocabulary item):
- The sentence must carry a semantic or collocational clue that rules out near-synonyms of the correct answer.
- Name that clue in "Context Clue Location" and explain in "Context Clue Explanation" why close alternatives do not fit.
- Grade the clue to the level:
  - A1-A2: category membership, clear antonyms, basic verb-noun collocations.
  - B1-B2: connotation, phrasal verb meaning, word form requirements, collocation violations.
  - C1: precise semantic distinctions, idiomatic expressions, academic collocations.`

const vocabListBlock = `TARGET WORDS (for every job with a "target_word"):
- "Correct Answer" must be the target word itself, in the part of speech given.
- Shape the sentence to the job's "question_form". "Random Mix" leaves the form to you; vary it across the batch.`

// Stage1 asks for one complete sentence per job, with the correct answer
// embedded verbatim.
func Stage1(jobs []itemgen.Job, examples string) Pair {
	n := len(jobs)
	system := fmt.Sprintf(
		"You are an expert ELT content writer. You will write exactly %d complete test sentences, one for each job specification, in a single response. Every sentence must be different in scenario and wording from every other sentence in the batch.",
		n)

	rules := []string{
		fmt.Sprintf("ANTI-REPETITION: the %d sentences must cover different scenarios, characters and settings. Do not reuse a sentence frame, subject or time marker across items.", n),
		"INTEGRATED CONSTRUCTION: write the whole sentence with the correct answer already in place. The answer must appear verbatim in \"Complete Sentence\" exactly as given in \"Correct Answer\".",
		"MULTI-WORD CONSTRUCTIONS (Grammar items): when the tested form spans several words (\"going to\", \"have to\", \"used to\"), you may place part of it in the sentence and leave the rest as the answer when that makes the structure enforce the choice. In \"It's ____ rain\" the contracted auxiliary rules out \"will\", so the answer is \"going to\".",
		"CONTEXT CLUE: every sentence needs a clue that makes the correct answer the only acceptable choice. Grammar items use a structural signal; Vocabulary items use a meaning or collocation signal.",
		"METALINGUISTIC REFLECTION: before finalising, state where the clue is (\"Context Clue Location\") and why the alternatives fail (\"Context Clue Explanation\").",
		"LENGTH: at most two clauses, and never more than two sentences.",
		"NO METALANGUAGE: the sentence itself must not contain grammar or vocabulary terminology such as \"past simple\", \"verb\" or \"adjective\".",
		"LOGICAL COHERENCE: the sentence must make sense in the real world and suit the given topic and CEFR level.",
		"LABELS: copy \"Item Number\", \"Assessment Focus\", \"CEFR rating\" and \"Category\" from the job specification unchanged.",
		fmt.Sprintf("COUNT: return exactly %d records, in the same order as the job specifications.", n),
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Write %d test sentences for the following job specifications.\n\n", n)
	b.WriteString("JOB SPECIFICATIONS:\n")
	b.WriteString(indentJSON(specsFor(jobs)))
	b.WriteString("\n\n")
	if examples != "" {
		b.WriteString("STYLE REFERENCE (match the register and difficulty, do not copy content):\n")
		b.WriteString(examples)
		b.WriteString("\n")
	}
	if hasDistinction(jobs) {
		b.WriteString(grammarExclusivity)
		b.WriteString("\n\n")
	}
	if hasVocabulary(jobs) {
		b.WriteString(semanticExclusivity)
		b.WriteString("\n\n")
	}
	if hasVocabList(jobs) {
		b.WriteString(vocabListBlock)
		b.WriteString("\n\n")
	}
	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString(numbered(rules))
	b.WriteString("\n\nMANDATORY OUTPUT FORMAT (JSON only, no prose):\n")
	b.WriteString(outputShape(itemgen.KeyQuestions, stage1Fields, n, "records"))
	fmt.Fprintf(&b, "\n\nCHECK: the %q array must contain exactly %d objects.", itemgen.KeyQuestions, n)

	return Pair{System: system, User: b.String()}
}

// SequentialStage1 is the single-job form of Stage1. The response is one
// object, not a wrapped array.
func SequentialStage1(job itemgen.Job, examples string) Pair {
	system := "You are an expert ELT content writer. You will write exactly 1 complete test sentence for the job specification below."

	rules := []string{
		"Write the whole sentence with the correct answer already in place; the answer must appear verbatim in \"Complete Sentence\".",
		"Include a clue that makes the correct answer the only acceptable choice, and describe it in \"Context Clue Location\" and \"Context Clue Explanation\".",
		"At most two clauses. No grammar or vocabulary terminology inside the sentence.",
		"The sentence must be logical and suit the topic and CEFR level.",
	}

	var b strings.Builder
	b.WriteString(jobHeader(job, examples))
	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString(numbered(rules))
	b.WriteString("\n\nOUTPUT FORMAT (a single JSON object, no prose):\n")
	b.WriteString(objectShape(stage1Fields, jobLabels(job)))

	return Pair{System: system, User: b.String()}
}
