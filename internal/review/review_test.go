package review

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/itemsmith/internal/export"
	"github.com/abhisek/itemsmith/internal/itemgen"
	"github.com/abhisek/itemsmith/internal/router"
)

func testQuestions() []itemgen.FinalQuestion {
	return []itemgen.FinalQuestion{
		{
			ItemNumber: "1", AssessmentFocus: "Present Simple", QuestionPrompt: "She ____ to school every day.",
			AnswerA: "goes", AnswerB: "go", AnswerC: "going", AnswerD: "gone",
			CorrectAnswer: "A", CEFR: "A2", Category: "Grammar",
		},
		{
			ItemNumber: "2", AssessmentFocus: "Past Simple", QuestionPrompt: "They ____ the film last night.",
			AnswerA: "see", AnswerB: "saw", AnswerC: "seen", AnswerD: "seeing",
			CorrectAnswer: "B", CEFR: "A2", Category: "Grammar",
		},
	}
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func fieldIndex(t *testing.T, name string) int {
	t.Helper()
	for i, f := range Fields {
		if f.Name == name {
			return i
		}
	}
	t.Fatalf("no field %q", name)
	return -1
}

func TestWorkshopSet(t *testing.T) {
	ws := NewWorkshop("out.csv", testQuestions())

	if err := ws.Set(0, Fields[fieldIndex(t, "Answer B")], "  went "); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := ws.Question(0).AnswerB; got != "went" {
		t.Errorf("AnswerB = %q, want trimmed %q", got, "went")
	}
	if !ws.Edited(0) || ws.Edited(1) || !ws.Dirty() {
		t.Error("expected only question 0 to be marked edited")
	}
}

func TestWorkshopSetCorrectAnswerUppercased(t *testing.T) {
	ws := NewWorkshop("out.csv", testQuestions())
	if err := ws.Set(1, Fields[fieldIndex(t, "Correct Answer")], "c"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := ws.Question(1).CorrectAnswer; got != "C" {
		t.Errorf("CorrectAnswer = %q, want C", got)
	}
}

func TestWorkshopSetRejectsBrokenQuestion(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
	}{
		{"letter out of range", "Correct Answer", "E"},
		{"duplicate option", "Answer B", "goes"},
		{"empty option", "Answer C", "   "},
		{"empty prompt", "Question Prompt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := NewWorkshop("out.csv", testQuestions())
			before := ws.Question(0)

			err := ws.Set(0, Fields[fieldIndex(t, tt.field)], tt.value)
			var verr *itemgen.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %T (%v)", err, err)
			}
			if ws.Question(0) != before {
				t.Error("rejected edit must leave the question untouched")
			}
			if ws.Dirty() {
				t.Error("rejected edit must not mark the workshop dirty")
			}
		})
	}
}

func TestWorkshopSetReadOnly(t *testing.T) {
	ws := NewWorkshop("out.csv", testQuestions())
	if err := ws.Set(0, Fields[fieldIndex(t, "Item Number")], "9"); err == nil {
		t.Fatal("expected error editing item number")
	}
}

func TestWorkshopSetUnchangedIsNotAnEdit(t *testing.T) {
	ws := NewWorkshop("out.csv", testQuestions())
	if err := ws.Set(0, Fields[fieldIndex(t, "Answer A")], "goes"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ws.Dirty() {
		t.Error("setting the same value should not mark the workshop dirty")
	}
}

func TestWorkshopSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.csv")
	if err := export.WriteFile(path, testQuestions()); err != nil {
		t.Fatal(err)
	}

	ws, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if ws.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ws.Len())
	}
	if err := ws.Set(1, Fields[fieldIndex(t, "Category")], "Tenses"); err != nil {
		t.Fatal(err)
	}
	if err := ws.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ws.Dirty() {
		t.Error("save should clear edit marks")
	}

	got, err := export.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got[1].Category != "Tenses" {
		t.Errorf("saved Category = %q, want Tenses", got[1].Category)
	}
}

func TestWorkshopSaveFailureKeepsMarks(t *testing.T) {
	ws := NewWorkshop("out.csv", testQuestions())
	ws.save = func(string, []itemgen.FinalQuestion) error { return errors.New("disk full") }

	if err := ws.Set(0, Fields[fieldIndex(t, "Category")], "Tenses"); err != nil {
		t.Fatal(err)
	}
	if err := ws.Save(); err == nil {
		t.Fatal("expected save error")
	}
	if !ws.Dirty() {
		t.Error("failed save must keep edit marks")
	}
}

func TestSaveCmdEditDuringSaveStaysDirty(t *testing.T) {
	ws := NewWorkshop("out.csv", testQuestions())
	ws.save = func(string, []itemgen.FinalQuestion) error { return nil }

	if err := ws.Set(0, Fields[fieldIndex(t, "Category")], "Tenses"); err != nil {
		t.Fatal(err)
	}
	cmd := saveCmd(ws)
	if err := ws.Set(1, Fields[fieldIndex(t, "Category")], "Past"); err != nil {
		t.Fatal(err)
	}

	msg := cmd().(savedMsg)
	if text := msg.apply(ws); !strings.Contains(text, "Saved 2 questions") {
		t.Errorf("unexpected message %q", text)
	}
	if !ws.Dirty() {
		t.Error("edit made after the snapshot must stay marked")
	}
}

func TestListScreenOpensDetail(t *testing.T) {
	s := New(NewWorkshop("out.csv", testQuestions()))

	s.Update(specialKey(tea.KeyDown))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected command on enter")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	detail, ok := push.Screen.(*DetailScreen)
	if !ok {
		t.Fatalf("expected *DetailScreen, got %T", push.Screen)
	}
	if detail.index != 1 {
		t.Errorf("detail index = %d, want 1", detail.index)
	}
}

func TestListScreenQuitConfirmWhenDirty(t *testing.T) {
	ws := NewWorkshop("out.csv", testQuestions())
	s := New(ws)

	if _, cmd := s.Update(keyPress('q')); cmd == nil {
		t.Fatal("clean workshop should quit immediately")
	}

	if err := ws.Set(0, Fields[fieldIndex(t, "Category")], "Tenses"); err != nil {
		t.Fatal(err)
	}
	if _, cmd := s.Update(keyPress('q')); cmd != nil {
		t.Fatal("dirty workshop should ask before quitting")
	}
	if !s.confirmQuit {
		t.Fatal("expected quit confirmation")
	}
	if _, cmd := s.Update(keyPress('n')); cmd != nil || s.confirmQuit {
		t.Error("n should cancel the confirmation")
	}
}

func TestDetailScreenEditFlow(t *testing.T) {
	ws := NewWorkshop("out.csv", testQuestions())
	s := NewDetail(ws, 0)
	s.field = fieldIndex(t, "Correct Answer")

	s.Update(specialKey(tea.KeyEnter))
	if !s.Capturing() {
		t.Fatal("expected edit mode after enter")
	}

	s.Update(specialKey(tea.KeyBackspace))
	s.Update(keyPress('x')) // filtered: not an option letter
	s.Update(keyPress('d'))
	s.Update(specialKey(tea.KeyEnter))

	if s.Capturing() {
		t.Fatalf("expected edit mode to end, error: %q", s.errMsg)
	}
	if got := ws.Question(0).CorrectAnswer; got != "D" {
		t.Errorf("CorrectAnswer = %q, want D", got)
	}
}

func TestDetailScreenEditRejected(t *testing.T) {
	ws := NewWorkshop("out.csv", testQuestions())
	s := NewDetail(ws, 0)
	s.field = fieldIndex(t, "Answer A")

	s.Update(specialKey(tea.KeyEnter))
	for range len("goes") {
		s.Update(specialKey(tea.KeyBackspace))
	}
	for _, r := range "go" {
		s.Update(keyPress(r))
	}
	s.Update(specialKey(tea.KeyEnter))

	if !s.Capturing() {
		t.Fatal("duplicate option should keep the editor open")
	}
	if s.errMsg == "" {
		t.Error("expected an error message")
	}

	s.Update(specialKey(tea.KeyEscape))
	if s.Capturing() {
		t.Error("esc should cancel editing")
	}
	if ws.Question(0).AnswerA != "goes" {
		t.Error("cancelled edit must not change the question")
	}
}

func TestDetailScreenNavigation(t *testing.T) {
	ws := NewWorkshop("out.csv", testQuestions())
	s := NewDetail(ws, 0)
	s.field = fieldIndex(t, "Answer B")

	_, cmd := s.Update(specialKey(tea.KeyRight))
	if cmd == nil {
		t.Fatal("expected command on right")
	}
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	next, ok := replace.Screen.(*DetailScreen)
	if !ok {
		t.Fatalf("expected *DetailScreen, got %T", replace.Screen)
	}
	if next.index != 1 {
		t.Errorf("next index = %d, want 1", next.index)
	}
	if next.field != s.field {
		t.Errorf("next field = %d, want %d", next.field, s.field)
	}
	if _, cmd := next.Update(specialKey(tea.KeyRight)); cmd != nil {
		t.Error("right on the last question should do nothing")
	}
	if _, cmd := s.Update(specialKey(tea.KeyLeft)); cmd != nil {
		t.Error("left on the first question should do nothing")
	}

	s.field = 0
	s.Update(specialKey(tea.KeyEnter))
	if s.Capturing() {
		t.Error("read-only field must not open the editor")
	}
	if s.errMsg == "" {
		t.Error("expected read-only message")
	}
}

func TestDetailScreenView(t *testing.T) {
	s := NewDetail(NewWorkshop("out.csv", testQuestions()), 0)
	view := s.View(100, 30)
	for _, want := range []string{"Question 1 of 2", "Assessment Focus", "She ____ to school every day.", "goes"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
