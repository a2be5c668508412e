package itemgen

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
)

// BlankMarker replaces the correct answer in the question prompt.
const BlankMarker = "____"

// Assemble merges sentences with their selected distractors into
// four-option questions. Records pair by position; a length difference is
// a CountMismatch. rng may be nil to use the global source.
func Assemble(s1 []Stage1Record, s3 []Stage3Record, rng *rand.Rand) ([]FinalQuestion, error) {
	if len(s3) != len(s1) {
		return nil, &CountMismatch{Stage: StageAssembly, Want: len(s1), Got: len(s3)}
	}

	out := make([]FinalQuestion, 0, len(s1))
	for i := range s1 {
		q, err := AssembleOne(s1[i], s3[i], rng)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
		out = append(out, q)
	}
	return out, nil
}

// AssembleOne builds a single question.
func AssembleOne(s1 Stage1Record, s3 Stage3Record, rng *rand.Rand) (FinalQuestion, error) {
	answer := s1.CorrectAnswer
	if answer == "" || !strings.Contains(s1.CompleteSentence, answer) {
		return FinalQuestion{}, &ParseError{
			Stage: StageAssembly,
			Err:   fmt.Errorf("correct answer %q not found in sentence %q", answer, s1.CompleteSentence),
		}
	}
	prompt := blankAnswer(s1.CompleteSentence, answer)

	options := append(s3.Distractors(), answer)
	if msg := distinctOptions(options); msg != "" {
		return FinalQuestion{}, &ParseError{Stage: StageAssembly, Err: errors.New(msg)}
	}

	shuffle(rng, len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correct := ""
	for i, o := range options {
		if o == answer {
			correct = OptionLetters[i]
			break
		}
	}

	return FinalQuestion{
		ItemNumber:      s1.ItemNumber,
		AssessmentFocus: s1.AssessmentFocus,
		QuestionPrompt:  prompt,
		AnswerA:         options[0],
		AnswerB:         options[1],
		AnswerC:         options[2],
		AnswerD:         options[3],
		CorrectAnswer:   correct,
		CEFR:            s1.CEFR,
		Category:        s1.Category,
	}, nil
}

// blankAnswer replaces the first whole-word occurrence of answer, so "a" in
// "She has a cat." blanks the article and not the inside of "has". When the
// answer never stands as a whole word, the first literal match is used.
func blankAnswer(sentence, answer string) string {
	pattern := regexp.QuoteMeta(answer)
	if isWordByte(answer[0]) {
		pattern = `\b` + pattern
	}
	if isWordByte(answer[len(answer)-1]) {
		pattern += `\b`
	}
	if loc := regexp.MustCompile(pattern).FindStringIndex(sentence); loc != nil {
		return sentence[:loc[0]] + BlankMarker + sentence[loc[1]:]
	}
	return strings.Replace(sentence, answer, BlankMarker, 1)
}

// isWordByte matches the ASCII word characters \b is defined over.
func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func shuffle(rng *rand.Rand, n int, swap func(i, j int)) {
	if rng == nil {
		rand.Shuffle(n, swap)
		return
	}
	rng.Shuffle(n, swap)
}
