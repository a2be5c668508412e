// Package distractor picks vocabulary-list distractors from the word table
// without calling a model.
package distractor

import (
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/abhisek/itemsmith/internal/bank"
)

// Pool sizing for vocabulary-list items.
const (
	PoolSize     = 8
	MaxByPOS     = 4
	MaxByInitial = 4
)

var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// phoneticFallbacks lists, per initial, the spellings tried after an exact
// initial-letter match runs short.
var phoneticFallbacks = map[string][]string{
	"c":  {"k", "q"},
	"k":  {"c", "q"},
	"q":  {"c", "k"},
	"s":  {"z"},
	"z":  {"s"},
	"f":  {"ph"},
	"ph": {"f"},
	"j":  {"g"},
	"g":  {"j"},
	"i":  {"y"},
	"y":  {"i"},
}

// headword strips parenthetical content and returns the lowercased first
// token: "belong (to)" -> "belong".
func headword(word string) string {
	fields := strings.Fields(parenthetical.ReplaceAllString(word, " "))
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// InitialLetter returns the first letter of the word's first token after
// stripping parenthetical content: "belong (to)" -> "b", "add on" -> "a".
func InitialLetter(word string) string {
	h := headword(word)
	for _, r := range h {
		return string(r)
	}
	return ""
}

// fallbacksFor returns the phonetic spellings related to word's initial.
func fallbacksFor(word string) []string {
	if strings.HasPrefix(headword(word), "ph") {
		return phoneticFallbacks["ph"]
	}
	return phoneticFallbacks[InitialLetter(word)]
}

func sameWord(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func normalizePOS(pos string) string {
	return strings.ToLower(strings.Join(strings.Fields(pos), " "))
}

// SelectByPartOfSpeech returns up to max words whose part of speech
// matches pos, excluding target. Matches are sampled uniformly.
func SelectByPartOfSpeech(table []bank.VocabEntry, target, pos string, max int, rng *rand.Rand) []string {
	want := normalizePOS(pos)
	seen := map[string]bool{strings.ToLower(strings.TrimSpace(target)): true}
	var pool []string
	for _, e := range table {
		key := strings.ToLower(strings.TrimSpace(e.Word))
		if key == "" || seen[key] || normalizePOS(e.PartOfSpeech) != want {
			continue
		}
		seen[key] = true
		pool = append(pool, strings.TrimSpace(e.Word))
	}
	return sample(pool, max, rng)
}

// SelectByInitialLetter returns up to max words sharing target's initial
// letter, skipping target and anything in exclude. When the exact letter
// runs short, each phonetic fallback spelling is tried in turn.
func SelectByInitialLetter(table []bank.VocabEntry, target string, max int, exclude []string, rng *rand.Rand) []string {
	if max <= 0 {
		return nil
	}

	taken := map[string]bool{strings.ToLower(strings.TrimSpace(target)): true}
	for _, x := range exclude {
		taken[strings.ToLower(strings.TrimSpace(x))] = true
	}

	prefixes := append([]string{InitialLetter(target)}, fallbacksFor(target)...)
	var out []string
	for _, prefix := range prefixes {
		if prefix == "" || len(out) >= max {
			continue
		}
		var pool []string
		for _, e := range table {
			key := strings.ToLower(strings.TrimSpace(e.Word))
			if key == "" || taken[key] || !strings.HasPrefix(headword(e.Word), prefix) {
				continue
			}
			taken[key] = true
			pool = append(pool, strings.TrimSpace(e.Word))
		}
		out = append(out, sample(pool, max-len(out), rng)...)
	}
	return out
}

// Selection is the deterministic part of a vocabulary-list pool.
type Selection struct {
	ByPartOfSpeech []string
	ByInitial      []string
	// NeededFromLLM is how many more single words the model must supply
	// to fill the pool.
	NeededFromLLM int
}

// Picked returns every deterministic pick, part-of-speech matches first.
func (s Selection) Picked() []string {
	out := make([]string, 0, len(s.ByPartOfSpeech)+len(s.ByInitial))
	out = append(out, s.ByPartOfSpeech...)
	return append(out, s.ByInitial...)
}

// Select combines part-of-speech and initial-letter picks and reports how
// many slots of the PoolSize pool remain for the model.
func Select(table []bank.VocabEntry, target, pos string, rng *rand.Rand) Selection {
	byPOS := SelectByPartOfSpeech(table, target, pos, MaxByPOS, rng)
	byInitial := SelectByInitialLetter(table, target, MaxByInitial, byPOS, rng)
	return Selection{
		ByPartOfSpeech: byPOS,
		ByInitial:      byInitial,
		NeededFromLLM:  max(PoolSize-len(byPOS)-len(byInitial), 0),
	}
}

// sample draws up to n items uniformly without replacement. pool is
// reordered in place.
func sample(pool []string, n int, rng *rand.Rand) []string {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	shuffle := rand.Shuffle
	if rng != nil {
		shuffle = rng.Shuffle
	}
	shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > n {
		pool = pool[:n]
	}
	return pool
}
