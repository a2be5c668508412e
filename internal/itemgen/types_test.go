package itemgen

import (
	"encoding/json"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"b1": B1, " C1 ": C1, "A2": A2} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("C2"); err == nil {
		t.Error("expected error for C2")
	}
}

func TestParseStrategy(t *testing.T) {
	tests := map[string]Strategy{
		"":                          StrategySequentialBatch,
		"batch":                     StrategySequentialBatch,
		"Sequential Batch (3-Call)": StrategySequentialBatch,
		"HOLISTIC":                  StrategyHolistic,
		"segmented (2-call)":        StrategySegmented,
	}
	for in, want := range tests {
		got, err := ParseStrategy(in)
		if err != nil || got != want {
			t.Errorf("ParseStrategy(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseStrategy("parallel"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func TestQuestionType(t *testing.T) {
	v, err := ParseQuestionType("vocab")
	if err != nil || v != Vocabulary {
		t.Fatalf("ParseQuestionType(vocab) = %q, %v", v, err)
	}
	if v.BankKey() != "vocab" || Grammar.BankKey() != "grammar" {
		t.Errorf("bank keys = %q, %q", v.BankKey(), Grammar.BankKey())
	}
}

func TestJob_HasDistinction(t *testing.T) {
	tests := []struct {
		job  Job
		want bool
	}{
		{Job{Type: Grammar, Focus: "Past Simple vs. Present Perfect"}, true},
		{Job{Type: Grammar, Focus: "Future ('going to' VS 'will')"}, true},
		{Job{Type: Grammar, Focus: "Articles (a/an/the)"}, false},
		{Job{Type: Vocabulary, Focus: "Register Trap (formal vs. academic)"}, false},
	}
	for _, tt := range tests {
		if got := tt.job.HasDistinction(); got != tt.want {
			t.Errorf("%q: HasDistinction = %v, want %v", tt.job.Focus, got, tt.want)
		}
	}
}

func TestItemNumber_Unmarshal(t *testing.T) {
	var rec struct {
		N ItemNumber `json:"n"`
	}
	for raw, want := range map[string]ItemNumber{
		`{"n":3}`:      "3",
		`{"n":" 7 "}`:  "7",
		`{"n":null}`:   "",
		`{"n":"Q-12"}`: "Q-12",
	} {
		rec.N = "stale"
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		if rec.N != want {
			t.Errorf("%s: got %q, want %q", raw, rec.N, want)
		}
	}
}
