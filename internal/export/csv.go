// Package export reads and writes question batches as CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abhisek/itemsmith/internal/itemgen"
)

// Columns is the header row, in order.
var Columns = []string{
	"Item Number",
	"Assessment Focus",
	"Question Prompt",
	"Answer A",
	"Answer B",
	"Answer C",
	"Answer D",
	"Correct Answer",
	"CEFR rating",
	"Category",
}

// ErrMissingColumn is returned by Read when a required header is absent.
var ErrMissingColumn = errors.New("missing column")

func row(q itemgen.FinalQuestion) []string {
	return []string{
		string(q.ItemNumber),
		q.AssessmentFocus,
		q.QuestionPrompt,
		q.AnswerA,
		q.AnswerB,
		q.AnswerC,
		q.AnswerD,
		q.CorrectAnswer,
		q.CEFR,
		q.Category,
	}
}

// Write writes the header and one row per question.
func Write(w io.Writer, qs []itemgen.FinalQuestion) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, q := range qs {
		if err := cw.Write(row(q)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes qs to path, replacing any existing file.
func WriteFile(path string, qs []itemgen.FinalQuestion) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, qs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read parses a batch CSV. Header cells are trimmed and may appear in any
// order; extra columns are ignored. Rows without an item number are
// numbered by position.
func Read(r io.Reader) ([]itemgen.FinalQuestion, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: empty file")
	}

	idx := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		idx[strings.ToLower(h)] = i
	}
	for _, c := range Columns {
		if _, ok := idx[strings.ToLower(c)]; !ok && c != "Item Number" {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, c)
		}
	}

	var out []itemgen.FinalQuestion
	for n, rec := range records[1:] {
		get := func(col string) string {
			i, ok := idx[strings.ToLower(col)]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		if isBlank(rec) {
			continue
		}
		q := itemgen.FinalQuestion{
			ItemNumber:      itemgen.ItemNumber(get("Item Number")),
			AssessmentFocus: get("Assessment Focus"),
			QuestionPrompt:  get("Question Prompt"),
			AnswerA:         get("Answer A"),
			AnswerB:         get("Answer B"),
			AnswerC:         get("Answer C"),
			AnswerD:         get("Answer D"),
			CorrectAnswer:   strings.ToUpper(get("Correct Answer")),
			CEFR:            get("CEFR rating"),
			Category:        get("Category"),
		}
		if q.ItemNumber == "" {
			q.ItemNumber = itemgen.ItemNumber(fmt.Sprint(n + 1))
		}
		out = append(out, q)
	}
	return out, nil
}

// ReadFile reads a batch CSV from path.
func ReadFile(path string) ([]itemgen.FinalQuestion, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
