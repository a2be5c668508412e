// Package review implements the terminal Refinement Workshop: browse a batch
// of assembled questions, edit any field, and save the batch back to CSV.
package review

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/itemsmith/internal/export"
	"github.com/abhisek/itemsmith/internal/itemgen"
	"github.com/abhisek/itemsmith/internal/logger"
)

// Workshop is the state shared by the list and detail screens.
type Workshop struct {
	path      string
	questions []itemgen.FinalQuestion
	edited    map[int]bool
	rev       int // bumped on every edit
	save      func(string, []itemgen.FinalQuestion) error
}

// NewWorkshop wraps qs for editing; saves go to path.
func NewWorkshop(path string, qs []itemgen.FinalQuestion) *Workshop {
	return &Workshop{
		path:      path,
		questions: qs,
		edited:    make(map[int]bool),
		save:      export.WriteFile,
	}
}

// Open reads path and returns a workshop over its questions.
func Open(path string) (*Workshop, error) {
	qs, err := export.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewWorkshop(path, qs), nil
}

// Len returns the number of questions.
func (w *Workshop) Len() int { return len(w.questions) }

// Question returns a copy of question i.
func (w *Workshop) Question(i int) itemgen.FinalQuestion { return w.questions[i] }

// Questions returns a copy of all questions in order.
func (w *Workshop) Questions() []itemgen.FinalQuestion {
	return append([]itemgen.FinalQuestion(nil), w.questions...)
}

// Dirty reports whether any question changed since the last save.
func (w *Workshop) Dirty() bool { return len(w.edited) > 0 }

// Edited reports whether question i changed since the last save.
func (w *Workshop) Edited(i int) bool { return w.edited[i] }

// Path returns the save destination.
func (w *Workshop) Path() string { return w.path }

// Set replaces field f of question i with value. The result must still be a
// well-formed four-option item; otherwise the question is left untouched.
func (w *Workshop) Set(i int, f Field, value string) error {
	if f.ReadOnly {
		return fmt.Errorf("%s cannot be edited", f.Name)
	}

	q := w.questions[i]
	value = strings.TrimSpace(value)
	if f.Name == "Correct Answer" {
		value = strings.ToUpper(value)
	}
	if *f.ref(&q) == value {
		return nil
	}
	*f.ref(&q) = value

	if verr := (&itemgen.OptionSetValidator{}).Validate(&q, itemgen.Job{}); verr != nil {
		return verr
	}

	w.questions[i] = q
	w.edited[i] = true
	w.rev++
	return nil
}

// Save writes every question to the workshop path and clears the edit marks.
func (w *Workshop) Save() error {
	if err := w.write(w.questions); err != nil {
		return err
	}
	w.markSaved(w.rev)
	return nil
}

func (w *Workshop) write(qs []itemgen.FinalQuestion) error {
	if err := w.save(w.path, qs); err != nil {
		logger.Get().Error("Failed to save workshop",
			zap.String("path", w.path), zap.Error(err))
		return err
	}
	logger.Get().Info("Saved workshop",
		zap.String("path", w.path), zap.Int("questions", len(qs)))
	return nil
}

// markSaved clears the edit marks unless something changed after rev.
func (w *Workshop) markSaved(rev int) {
	if w.rev == rev {
		w.edited = make(map[int]bool)
	}
}

// Field is one editable column of a question.
type Field struct {
	Name     string
	ReadOnly bool
	ref      func(*itemgen.FinalQuestion) *string
}

// Value returns the field's current text in q.
func (f Field) Value(q itemgen.FinalQuestion) string {
	return *f.ref(&q)
}

// Fields lists the question columns in export order.
var Fields = []Field{
	{Name: "Item Number", ReadOnly: true, ref: func(q *itemgen.FinalQuestion) *string { return (*string)(&q.ItemNumber) }},
	{Name: "Assessment Focus", ref: func(q *itemgen.FinalQuestion) *string { return &q.AssessmentFocus }},
	{Name: "Question Prompt", ref: func(q *itemgen.FinalQuestion) *string { return &q.QuestionPrompt }},
	{Name: "Answer A", ref: func(q *itemgen.FinalQuestion) *string { return &q.AnswerA }},
	{Name: "Answer B", ref: func(q *itemgen.FinalQuestion) *string { return &q.AnswerB }},
	{Name: "Answer C", ref: func(q *itemgen.FinalQuestion) *string { return &q.AnswerC }},
	{Name: "Answer D", ref: func(q *itemgen.FinalQuestion) *string { return &q.AnswerD }},
	{Name: "Correct Answer", ref: func(q *itemgen.FinalQuestion) *string { return &q.CorrectAnswer }},
	{Name: "CEFR rating", ref: func(q *itemgen.FinalQuestion) *string { return &q.CEFR }},
	{Name: "Category", ref: func(q *itemgen.FinalQuestion) *string { return &q.Category }},
}
