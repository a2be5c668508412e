package bank

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/itemsmith/internal/itemgen"
)

const grammarCSV = ` CEFR rating ,Question Prompt,Answer A,Answer B,Answer C,Answer D,Correct Answer, GSE Score
A1,She ____ to school.,go,goes,gone,going,B,22
A1,They ____ happy.,is,am,are,be,C,24
B1,I ____ Rome last year.,visited,have visited,visit,was visit,A,45
`

func TestLoadBank_TrimsHeadersAndDropsUnknownColumns(t *testing.T) {
	b, err := LoadBank(strings.NewReader(grammarCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Len() != 3 {
		t.Fatalf("got %d rows, want 3", b.Len())
	}
	row := b.Rows[0]
	if row.CEFR != "A1" || row.QuestionPrompt != "She ____ to school." || row.CorrectAnswer != "B" {
		t.Errorf("row = %+v", row)
	}
}

func TestLoadBanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "grammar.csv")
	if err := os.WriteFile(path, []byte(grammarCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	banks, err := LoadBanks(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if banks.For(itemgen.Grammar).Len() != 3 {
		t.Error("grammar bank not loaded")
	}
	if banks.For(itemgen.Vocabulary) != nil {
		t.Error("vocab bank should be absent")
	}

	if _, err := LoadBanks(filepath.Join(dir, "missing.csv"), ""); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadVocab(t *testing.T) {
	csv := "Base Vocabulary Item , Part of Speech\nbelong (to),verb\n,noun\ncheerful, adjective \n"
	entries, err := LoadVocab(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[1].Word != "cheerful" || entries[1].PartOfSpeech != "adjective" {
		t.Errorf("entry = %+v", entries[1])
	}
}

func TestLoadVocab_MissingColumns(t *testing.T) {
	if _, err := LoadVocab(strings.NewReader("Word,POS\nrun,verb\n")); err == nil {
		t.Error("expected error for missing columns")
	}
}
