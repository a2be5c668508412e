// Package catalog holds the fixed menus offered when requesting a batch:
// assessment foci, topic suggestions, batch sizes and question forms.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/abhisek/itemsmith/internal/itemgen"
)

var grammarFoci = map[itemgen.Level][]string{
	itemgen.A1: {
		"Present Simple ('be'/'have')",
		"Prepositions of Time ('on'/'in'/'at')",
		"Prepositions of Place ('on'/'in'/'at')",
		"Possessive Adjectives",
		"Articles (a/an/the)",
		"this/that/these/those",
		"Plurals (regular/irregular)",
		"Modals ('can'/'can't' for ability)",
	},
	itemgen.A2: {
		"Past Simple (regular/irregular)",
		"Countable/Uncountable Nouns (some/any)",
		"Comparatives & Superlatives",
		"Present Continuous",
		"Future ('going to' vs. 'will')",
		"like vs. would like",
		"Adverbs of Frequency",
		"Modals ('should'/'have to' for advice/obligation)",
	},
	itemgen.B1: {
		"Past Simple vs. Present Perfect",
		"Conditionals (Type 1 & 2)",
		"Modals of Obligation (must/have to/should)",
		"Reported Speech (basic statements/questions)",
		"Passive Voice (simple present/past)",
		"Gerunds & Infinitives (basic)",
		"Future Continuous",
		"Common Phrasal Verbs",
	},
	itemgen.B2: {
		"Conditionals (Type 3 & Mixed)",
		"Passive (Causative - have/get something done)",
		"Passive (all tenses)",
		"Modals of Speculation (past/present)",
		"Relative Clauses (defining/non-defining)",
		"Reported Speech (advanced - suggest, advise)",
		"Future Perfect",
		"Gerunds & Infinitives (after specific verbs/prepositions)",
	},
	itemgen.C1: {
		"Inversion (e.g., 'Not only...')",
		"Conditionals (Advanced Mixed, implied)",
		"Passive (Advanced Forms, impersonal)",
		"Modals (subtle meaning, nuance)",
		"Future (Future Perfect Continuous)",
		"Cleft Sentences (e.g., 'What I need is...')",
		"Ellipsis",
		"Advanced Phrasal Verbs & Idioms",
	},
}

var vocabularyFoci = map[itemgen.Level][]string{
	itemgen.A1: {
		"Category Membership",
		"Basic Antonym",
		"Meaning-in-Sentence (Context Clue)",
		"Basic Collocation (e.g., 'have breakfast')",
	},
	itemgen.A2: {
		"Meaning-in-Sentence (Context Clue)",
		"Collocation (Verb+Noun)",
		"Word Form (noun/verb/adj)",
		"Functional Usage (e.g., 'What for?')",
		"Basic Synonym",
	},
	itemgen.B1: {
		"Meaning-in-Sentence (Inference)",
		"Collocation (Adverb+Adj)",
		"Word Form (Affixes - un, re, able)",
		"Functional Usage (e.g., 'I'd rather...')",
		"Phrasal Verbs (common, separable/inseparable)",
	},
	itemgen.B2: {
		"Synonym (subtle difference)",
		"Collocation (idiomatic, e.g., 'take into account')",
		"Functional Usage (formal/informal register)",
		"Phrasal Verbs (less common)",
		"Word Form (noun/adj suffixes -tion, -ive)",
	},
	itemgen.C1: {
		"Synonym (high-level, low-frequency)",
		"Idiomatic Expressions",
		"Functional Usage (advanced nuance, persuasion)",
		"Register Trap (formal vs. academic)",
		"Collocation (academic, e.g., 'conduct research')",
	},
}

var topics = map[itemgen.Level][]string{
	itemgen.A1: {"Personal Information", "Family", "Food & Drink", "My Home", "Days & Times"},
	itemgen.A2: {"Daily Routines", "Past Holidays", "Shopping", "Friends & Hobbies", "My Town", "Jobs"},
	itemgen.B1: {"Work & Jobs", "The Environment", "Travel & Tourism", "Technology", "Health & Fitness", "Education"},
	itemgen.B2: {"Media & News", "Crime & Society", "The Future", "Education Systems", "Business & Finance", "Global Issues"},
	itemgen.C1: {"Philosophy & Ethics", "Scientific Research", "Global Politics", "Art & Literature", "Psychology"},
}

// Foci returns the assessment foci offered for a type and level.
func Foci(t itemgen.QuestionType, level itemgen.Level) []string {
	if t == itemgen.Vocabulary {
		return slices.Clone(vocabularyFoci[level])
	}
	return slices.Clone(grammarFoci[level])
}

// Topics returns topic suggestions for a level.
func Topics(level itemgen.Level) []string {
	return slices.Clone(topics[level])
}

// BatchSizes are the batch sizes a request may use.
var BatchSizes = []int{1, 2, 5, 10, 20, 30, 40, 50}

// DefaultBatchSize is used when none is given.
const DefaultBatchSize = 5

// ValidateBatchSize rejects sizes outside BatchSizes.
func ValidateBatchSize(n int) error {
	if slices.Contains(BatchSizes, n) {
		return nil
	}
	return fmt.Errorf("batch size %d not allowed (choose from %v)", n, BatchSizes)
}

// Question forms for vocabulary-list items.
const (
	FormRandomMix          = "Random Mix"
	FormSentenceCompletion = "Sentence Completion"
	FormDefinitionMatch    = "Definition Match"
	FormSynonymInContext   = "Synonym in Context"
	FormCollocation        = "Collocation"
	FormDialogueCompletion = "Dialogue Completion"
)

// QuestionForms lists the forms, default first.
var QuestionForms = []string{
	FormRandomMix,
	FormSentenceCompletion,
	FormDefinitionMatch,
	FormSynonymInContext,
	FormCollocation,
	FormDialogueCompletion,
}

// ParseQuestionForm matches a form name case-insensitively. Blank selects
// Random Mix.
func ParseQuestionForm(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return FormRandomMix, nil
	}
	for _, f := range QuestionForms {
		if strings.EqualFold(f, s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown question form %q", s)
}
