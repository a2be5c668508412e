package session

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/itemsmith/internal/bank"
	"github.com/abhisek/itemsmith/internal/itemgen"
)

func TestPlan_ExactCountAndIDs(t *testing.T) {
	for _, n := range []int{1, 2, 5, 10, 20, 30, 40, 50} {
		jobs, err := Plan(PlanRequest{
			Total: n,
			Type:  itemgen.Grammar,
			CEFR:  itemgen.B1,
			Foci:  []string{"Past Simple vs. Present Perfect", "Future Continuous"},
		})
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		if len(jobs) != n {
			t.Fatalf("n=%d: got %d jobs", n, len(jobs))
		}
		for i, j := range jobs {
			if j.ID != i {
				t.Errorf("n=%d: job %d has ID %d", n, i, j.ID)
			}
		}
	}
}

func TestPlan_RoundRobinFoci(t *testing.T) {
	foci := []string{"Articles (a/an/the)", "Plurals (regular/irregular)", "Possessive Adjectives"}
	jobs, err := Plan(PlanRequest{Total: 7, Type: itemgen.Grammar, CEFR: itemgen.A1, Foci: foci})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, j := range jobs {
		if j.Focus != foci[i%3] {
			t.Errorf("job %d focus = %q, want %q", i, j.Focus, foci[i%3])
		}
	}
}

func TestPlan_Defaults(t *testing.T) {
	jobs, err := Plan(PlanRequest{Total: 2, Type: itemgen.Vocabulary, CEFR: itemgen.A2, Foci: []string{"Basic Synonym"}, Topic: "  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, j := range jobs {
		if j.Topic != DefaultTopic {
			t.Errorf("topic = %q, want %q", j.Topic, DefaultTopic)
		}
		if j.Strategy != itemgen.StrategySequentialBatch {
			t.Errorf("strategy = %q", j.Strategy)
		}
		if j.Type != itemgen.Vocabulary || j.CEFR != itemgen.A2 {
			t.Errorf("job = %+v", j)
		}
	}
}

func TestPlan_Failures(t *testing.T) {
	tests := []struct {
		name string
		req  PlanRequest
	}{
		{"no foci", PlanRequest{Total: 5, Type: itemgen.Grammar, CEFR: itemgen.B1}},
		{"blank foci", PlanRequest{Total: 5, Type: itemgen.Grammar, CEFR: itemgen.B1, Foci: []string{"", "  "}}},
		{"zero total", PlanRequest{Total: 0, Type: itemgen.Grammar, CEFR: itemgen.B1, Foci: []string{"x"}}},
		{"no type", PlanRequest{Total: 1, CEFR: itemgen.B1, Foci: []string{"x"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(tt.req)
			var pe *itemgen.PlanningError
			if !errors.As(err, &pe) {
				t.Fatalf("expected PlanningError, got %T (%v)", err, err)
			}
		})
	}
}

func TestPlanVocabList(t *testing.T) {
	words := []bank.VocabEntry{
		{Word: "belong (to)", PartOfSpeech: "verb"},
		{Word: "cheerful", PartOfSpeech: "adjective"},
	}
	jobs, err := PlanVocabList(VocabListRequest{Words: words, CEFR: itemgen.B1, Form: "Collocation"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("got %d jobs", len(jobs))
	}
	if jobs[0].Focus != "Vocabulary: belong (to)" || !jobs[0].IsVocabList() {
		t.Errorf("job 0 = %+v", jobs[0])
	}
	if jobs[1].PartOfSpeech != "adjective" || jobs[1].QuestionForm != "Collocation" || jobs[1].ID != 1 {
		t.Errorf("job 1 = %+v", jobs[1])
	}

	if jobs[0].Topic != DefaultTopic || jobs[0].Strategy != itemgen.StrategySequentialBatch {
		t.Errorf("job 0 defaults = %q / %q", jobs[0].Topic, jobs[0].Strategy)
	}
}

func TestPlanVocabList_Failures(t *testing.T) {
	words := []bank.VocabEntry{{Word: "belong (to)", PartOfSpeech: "verb"}, {Word: "cheerful", PartOfSpeech: "adjective"}}
	long := make([]bank.VocabEntry, 51)
	for i := range long {
		long[i] = bank.VocabEntry{Word: fmt.Sprintf("word%d", i), PartOfSpeech: "noun"}
	}

	tests := []struct {
		name    string
		req     VocabListRequest
		wantMsg string
	}{
		{"empty list", VocabListRequest{CEFR: itemgen.B1}, "empty"},
		{"list over the largest batch", VocabListRequest{Words: long, CEFR: itemgen.B1}, "51 words, at most 50"},
		{"holistic strategy", VocabListRequest{Words: words, CEFR: itemgen.B1, Strategy: itemgen.StrategyHolistic}, "Holistic"},
		{"batch size differs from list", VocabListRequest{Words: words, CEFR: itemgen.B1, BatchSize: 5}, "batch size 5"},
		{"no level", VocabListRequest{Words: words}, "CEFR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanVocabList(tt.req)
			var pe *itemgen.PlanningError
			if !errors.As(err, &pe) {
				t.Fatalf("expected PlanningError, got %T (%v)", err, err)
			}
			if !strings.Contains(pe.Reason, tt.wantMsg) {
				t.Errorf("reason %q does not mention %q", pe.Reason, tt.wantMsg)
			}
		})
	}

	explicit := VocabListRequest{Words: words, CEFR: itemgen.B1, Strategy: itemgen.StrategySequentialBatch, BatchSize: 2}
	if _, err := PlanVocabList(explicit); err != nil {
		t.Errorf("matching batch size and strategy should be accepted: %v", err)
	}
}
