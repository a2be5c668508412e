package catalog

import (
	"testing"

	"github.com/abhisek/itemsmith/internal/itemgen"
)

func TestFoci_EveryLevel(t *testing.T) {
	for _, lvl := range itemgen.Levels {
		if n := len(Foci(itemgen.Grammar, lvl)); n != 8 {
			t.Errorf("grammar %s: %d foci, want 8", lvl, n)
		}
		if n := len(Foci(itemgen.Vocabulary, lvl)); n < 4 || n > 5 {
			t.Errorf("vocabulary %s: %d foci, want 4-5", lvl, n)
		}
		if len(Topics(lvl)) == 0 {
			t.Errorf("no topics for %s", lvl)
		}
	}
}

func TestFoci_ReturnsCopy(t *testing.T) {
	f := Foci(itemgen.Grammar, itemgen.B1)
	f[0] = "changed"
	if Foci(itemgen.Grammar, itemgen.B1)[0] != "Past Simple vs. Present Perfect" {
		t.Error("catalog was mutated through returned slice")
	}
}

func TestValidateBatchSize(t *testing.T) {
	if err := ValidateBatchSize(DefaultBatchSize); err != nil {
		t.Errorf("default rejected: %v", err)
	}
	for _, n := range []int{0, 3, 51} {
		if ValidateBatchSize(n) == nil {
			t.Errorf("size %d accepted", n)
		}
	}
}

func TestParseQuestionForm(t *testing.T) {
	if f, _ := ParseQuestionForm(""); f != FormRandomMix {
		t.Errorf("blank = %q", f)
	}
	if f, err := ParseQuestionForm("dialogue completion"); err != nil || f != FormDialogueCompletion {
		t.Errorf("got %q, %v", f, err)
	}
	if _, err := ParseQuestionForm("essay"); err == nil {
		t.Error("expected error")
	}
}
