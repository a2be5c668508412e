// Package bank loads the few-shot example banks and vocabulary tables and
// samples examples for prompts.
package bank

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abhisek/itemsmith/internal/itemgen"
)

// ExampleRow is one reference question from an example bank.
type ExampleRow struct {
	CEFR           string
	QuestionPrompt string
	AnswerA        string
	AnswerB        string
	AnswerC        string
	AnswerD        string
	CorrectAnswer  string
}

// Bank is a read-only table of example rows for one question type.
type Bank struct {
	Rows []ExampleRow
}

// Len returns the number of rows, treating a nil bank as empty.
func (b *Bank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Rows)
}

// Banks maps a bank key ("grammar", "vocab") to its bank.
type Banks map[string]*Bank

// For returns the bank for a question type, or nil.
func (bs Banks) For(t itemgen.QuestionType) *Bank {
	return bs[t.BankKey()]
}

// Header names recognized in bank files, after trimming and lowercasing.
var exampleColumns = map[string]func(*ExampleRow, string){
	"cefr rating":     func(r *ExampleRow, v string) { r.CEFR = v },
	"question prompt": func(r *ExampleRow, v string) { r.QuestionPrompt = v },
	"answer a":        func(r *ExampleRow, v string) { r.AnswerA = v },
	"answer b":        func(r *ExampleRow, v string) { r.AnswerB = v },
	"answer c":        func(r *ExampleRow, v string) { r.AnswerC = v },
	"answer d":        func(r *ExampleRow, v string) { r.AnswerD = v },
	"correct answer":  func(r *ExampleRow, v string) { r.CorrectAnswer = v },
}

// LoadBank reads an example bank CSV. Unrecognized columns, including
// "GSE Score", are ignored.
func LoadBank(r io.Reader) (*Bank, error) {
	records, err := readTable(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return &Bank{}, nil
	}

	setters := make([]func(*ExampleRow, string), len(records[0]))
	for i, h := range records[0] {
		setters[i] = exampleColumns[normalizeHeader(h)]
	}

	b := &Bank{Rows: make([]ExampleRow, 0, len(records)-1)}
	for _, rec := range records[1:] {
		var row ExampleRow
		for i, v := range rec {
			if i < len(setters) && setters[i] != nil {
				setters[i](&row, strings.TrimSpace(v))
			}
		}
		b.Rows = append(b.Rows, row)
	}
	return b, nil
}

// LoadBankFile reads an example bank from path.
func LoadBankFile(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bank: %w", err)
	}
	defer f.Close()
	b, err := LoadBank(f)
	if err != nil {
		return nil, fmt.Errorf("load bank %s: %w", path, err)
	}
	return b, nil
}

// LoadBanks loads the grammar and vocabulary banks. An empty path leaves
// that bank out, and sampling for its type then yields no examples.
func LoadBanks(grammarPath, vocabPath string) (Banks, error) {
	banks := Banks{}
	for key, path := range map[string]string{
		itemgen.Grammar.BankKey():    grammarPath,
		itemgen.Vocabulary.BankKey(): vocabPath,
	} {
		if path == "" {
			continue
		}
		b, err := LoadBankFile(path)
		if err != nil {
			return nil, err
		}
		banks[key] = b
	}
	return banks, nil
}

// VocabEntry is one row of a vocabulary table.
type VocabEntry struct {
	Word         string
	PartOfSpeech string
}

// LoadVocab reads a vocabulary table with "Base Vocabulary Item" and
// "Part of Speech" columns. Rows with an empty word are skipped.
func LoadVocab(r io.Reader) ([]VocabEntry, error) {
	records, err := readTable(r)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("vocabulary table is empty")
	}

	wordCol, posCol := -1, -1
	for i, h := range records[0] {
		switch normalizeHeader(h) {
		case "base vocabulary item":
			wordCol = i
		case "part of speech":
			posCol = i
		}
	}
	if wordCol < 0 || posCol < 0 {
		return nil, errors.New(`vocabulary table needs "Base Vocabulary Item" and "Part of Speech" columns`)
	}

	var out []VocabEntry
	for _, rec := range records[1:] {
		if wordCol >= len(rec) {
			continue
		}
		e := VocabEntry{Word: strings.TrimSpace(rec[wordCol])}
		if posCol < len(rec) {
			e.PartOfSpeech = strings.TrimSpace(rec[posCol])
		}
		if e.Word != "" {
			out = append(out, e)
		}
	}
	return out, nil
}

// LoadVocabFile reads a vocabulary table from path.
func LoadVocabFile(path string) ([]VocabEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vocabulary list: %w", err)
	}
	defer f.Close()
	entries, err := LoadVocab(f)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary list %s: %w", path, err)
	}
	return entries, nil
}

func readTable(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return records, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}
