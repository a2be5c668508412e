package bank

import (
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/abhisek/itemsmith/internal/itemgen"
)

func testBanks(rows ...ExampleRow) Banks {
	return Banks{"grammar": &Bank{Rows: rows}}
}

func TestSampler_PrefersMatchingLevel(t *testing.T) {
	banks := testBanks(
		ExampleRow{CEFR: "A1", QuestionPrompt: "a1-one"},
		ExampleRow{CEFR: " a1 ", QuestionPrompt: "a1-two"},
		ExampleRow{CEFR: "B1", QuestionPrompt: "b1-one"},
		ExampleRow{CEFR: "B1", QuestionPrompt: "b1-two"},
	)
	s := NewSampler(rand.New(rand.NewPCG(7, 7)))

	for range 20 {
		block := s.Block(itemgen.Job{Type: itemgen.Grammar, CEFR: itemgen.A1}, banks)
		if strings.Count(block, "### EXAMPLE:\n") != 2 {
			t.Fatalf("block = %q", block)
		}
		if strings.Contains(block, "b1-") {
			t.Fatalf("sampled a B1 row for an A1 job: %q", block)
		}
		if !strings.Contains(block, "a1-one") || !strings.Contains(block, "a1-two") {
			t.Fatalf("expected both A1 rows: %q", block)
		}
	}
}

func TestSampler_FallsBackToWholeBank(t *testing.T) {
	banks := testBanks(
		ExampleRow{CEFR: "C1", QuestionPrompt: "c1"},
		ExampleRow{CEFR: "B2", QuestionPrompt: "b2"},
		ExampleRow{CEFR: "B2", QuestionPrompt: "b2-other"},
	)
	s := NewSampler(rand.New(rand.NewPCG(1, 2)))
	block := s.Block(itemgen.Job{Type: itemgen.Grammar, CEFR: itemgen.C1}, banks)
	if strings.Count(block, "### EXAMPLE:") != 2 {
		t.Fatalf("expected two examples from the whole bank, got %q", block)
	}
}

func TestSampler_EmptyCases(t *testing.T) {
	s := NewSampler(nil)
	job := itemgen.Job{Type: itemgen.Grammar, CEFR: itemgen.A1}

	if got := s.Block(job, Banks{}); got != "" {
		t.Errorf("missing bank: %q", got)
	}
	if got := s.Block(job, testBanks(ExampleRow{CEFR: "A1"})); got != "" {
		t.Errorf("single row bank: %q", got)
	}
}

func TestSampler_FormatAndNoMutation(t *testing.T) {
	rows := []ExampleRow{
		{CEFR: "A1", QuestionPrompt: "She ____ to school.", AnswerA: "go", AnswerB: "goes", AnswerC: "gone", AnswerD: "going", CorrectAnswer: "B"},
		{CEFR: "A1", QuestionPrompt: "They ____ happy.", AnswerA: "is", AnswerB: "am", AnswerC: "are", CorrectAnswer: "C"},
	}
	before := slices.Clone(rows)
	banks := testBanks(rows...)

	block := NewSampler(nil).Block(itemgen.Job{Type: itemgen.Grammar, CEFR: itemgen.A1}, banks)
	if !strings.Contains(block, `{"Question Prompt":"She ____ to school.","Answer A":"go","Answer B":"goes","Answer C":"gone","Answer D":"going","Correct Answer":"B"}`) {
		t.Errorf("unexpected formatting: %q", block)
	}
	if !strings.Contains(block, `"Answer D":"N/A"`) {
		t.Errorf("missing answer should render as N/A: %q", block)
	}
	if !slices.Equal(banks["grammar"].Rows, before) {
		t.Error("Block mutated the bank")
	}
}
