package distractor

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/abhisek/itemsmith/internal/bank"
)

func vocab(pairs ...string) []bank.VocabEntry {
	out := make([]bank.VocabEntry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, bank.VocabEntry{Word: pairs[i], PartOfSpeech: pairs[i+1]})
	}
	return out
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 99))
}

func TestInitialLetter(t *testing.T) {
	tests := map[string]string{
		"belong (to)":  "b",
		"add on":       "a",
		"(be) Able":    "a",
		"  Zebra":      "z",
		"":             "",
		"(only paren)": "",
	}
	for in, want := range tests {
		if got := InitialLetter(in); got != want {
			t.Errorf("InitialLetter(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSelectByPartOfSpeech(t *testing.T) {
	table := vocab(
		"run", "verb", "walk", "Verb ", "jump", "verb", "swim", "verb",
		"climb", "verb", "happy", "adjective", "Run", "verb",
	)

	rng := testRand()
	for range 50 {
		got := SelectByPartOfSpeech(table, "run", "verb", 3, rng)
		if len(got) != 3 {
			t.Fatalf("pool has 4 verbs besides target, want exactly 3, got %v", got)
		}
		for _, w := range got {
			if strings.EqualFold(w, "run") {
				t.Fatalf("returned the target word: %v", got)
			}
			if w == "happy" {
				t.Fatalf("returned a non-verb: %v", got)
			}
		}
	}

	small := SelectByPartOfSpeech(table, "happy", "adjective", 4, testRand())
	if len(small) != 0 {
		t.Errorf("only adjective is the target, got %v", small)
	}

	all := SelectByPartOfSpeech(table, "run", "verb", 10, testRand())
	if len(all) != 4 {
		t.Errorf("smaller pool should return everything, got %v", all)
	}
}

func TestSelectByInitialLetter_PhoneticFallback(t *testing.T) {
	table := vocab(
		"cat", "noun",
		"cup", "noun",
		"kite", "noun",
		"king", "noun",
		"queen", "noun",
		"dog", "noun",
	)

	got := SelectByInitialLetter(table, "cat", 3, nil, testRand())
	if len(got) != 3 {
		t.Fatalf("got %v, want 3 words", got)
	}
	if got[0] != "cup" {
		t.Errorf("exact-letter match should come first, got %v", got)
	}
	for _, w := range got[1:] {
		if w[0] != 'k' && w[0] != 'q' {
			t.Errorf("fallback word %q not from k/q", w)
		}
	}
}

func TestSelectByInitialLetter_ExcludeAndMax(t *testing.T) {
	table := vocab("sing", "verb", "sit", "verb", "zoom", "verb", "zip", "verb", "zap", "verb", "sew", "verb")

	for range 30 {
		got := SelectByInitialLetter(table, "sew", 4, []string{"sit"}, testRand())
		if len(got) != 4 {
			t.Fatalf("got %v, want 4", got)
		}
		seen := map[string]bool{}
		for _, w := range got {
			if w == "sit" || w == "sew" {
				t.Fatalf("returned excluded word %q", w)
			}
			if seen[w] {
				t.Fatalf("duplicate %q", w)
			}
			seen[w] = true
		}
		if !seen["sing"] {
			t.Fatalf("exact match sing missing from %v", got)
		}
	}
}

func TestSelectByInitialLetter_FPh(t *testing.T) {
	table := vocab("phone", "noun", "photo", "noun", "fish", "noun")
	got := SelectByInitialLetter(table, "fork", 4, nil, testRand())
	if len(got) != 3 {
		t.Fatalf("got %v, want fish plus two ph words", got)
	}
	if got[0] != "fish" {
		t.Errorf("exact match first, got %v", got)
	}
}

func TestSelect_NeededFromLLM(t *testing.T) {
	table := vocab(
		"cheerful", "adjective", "calm", "adjective", "brave", "adjective",
		"kind", "adjective", "clever", "adjective", "tall", "adjective",
		"cook", "verb",
	)

	sel := Select(table, "cheerful", "adjective", testRand())
	if len(sel.ByPartOfSpeech) != MaxByPOS {
		t.Fatalf("by POS = %v", sel.ByPartOfSpeech)
	}
	picked := sel.Picked()
	seen := map[string]bool{}
	for _, w := range picked {
		if seen[w] {
			t.Fatalf("duplicate pick %q in %v", w, picked)
		}
		seen[w] = true
	}
	if sel.NeededFromLLM != PoolSize-len(picked) {
		t.Errorf("needed = %d, picked %d", sel.NeededFromLLM, len(picked))
	}

	empty := Select(nil, "cheerful", "adjective", nil)
	if empty.NeededFromLLM != PoolSize {
		t.Errorf("empty table needs %d, want %d", empty.NeededFromLLM, PoolSize)
	}
}
