package review

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/itemsmith/internal/itemgen"
	"github.com/abhisek/itemsmith/internal/router"
	"github.com/abhisek/itemsmith/internal/screen"
	"github.com/abhisek/itemsmith/internal/ui/components"
	"github.com/abhisek/itemsmith/internal/ui/layout"
	"github.com/abhisek/itemsmith/internal/ui/theme"
)

// DetailScreen shows one question field by field and edits the selected
// field in place.
type DetailScreen struct {
	ws      *Workshop
	index   int
	field   int
	editing bool
	input   components.TextInput
	errMsg  string
	message string
}

var _ screen.Screen = (*DetailScreen)(nil)
var _ screen.KeyHintProvider = (*DetailScreen)(nil)
var _ screen.StatusProvider = (*DetailScreen)(nil)
var _ screen.Capturing = (*DetailScreen)(nil)

// NewDetail opens question index of ws.
func NewDetail(ws *Workshop, index int) *DetailScreen {
	return &DetailScreen{ws: ws, index: index, field: 1}
}

func (s *DetailScreen) Init() tea.Cmd { return nil }

func (s *DetailScreen) Title() string {
	return fmt.Sprintf("Item %s", s.ws.Question(s.index).ItemNumber)
}

func (s *DetailScreen) Status() string { return status(s.ws) }

func (s *DetailScreen) Capturing() bool { return s.editing }

func (s *DetailScreen) KeyHints() []layout.KeyHint {
	if s.editing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "Enter", Description: "Edit"},
		{Key: "←→", Description: "Prev/Next item"},
		{Key: "S", Description: "Save"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.message = msg.apply(s.ws)
		return s, nil
	case tea.KeyMsg:
		if s.editing {
			return s.updateEditing(msg)
		}
		return s.updateBrowsing(msg)
	}

	if s.editing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *DetailScreen) updateBrowsing(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	s.message = ""
	switch msg.String() {
	case "up", "k":
		if s.field > 0 {
			s.field--
		}
	case "down", "j":
		if s.field < len(Fields)-1 {
			s.field++
		}
	case "left", "p":
		return s, s.step(-1)
	case "right", "n":
		return s, s.step(1)
	case "s", "ctrl+s":
		return s, saveCmd(s.ws)
	case "enter", "e":
		f := Fields[s.field]
		if f.ReadOnly {
			s.errMsg = fmt.Sprintf("%s cannot be edited", f.Name)
			return s, nil
		}
		s.errMsg = ""
		s.editing = true
		s.input = components.NewTextInput(f.Name, f.Value(s.ws.Question(s.index)), 0)
		if f.Name == "Correct Answer" {
			s.input.Allowed = strings.Join(itemgen.OptionLetters, "")
		}
		return s, s.input.Init()
	}
	return s, nil
}

// step swaps this screen for the neighbouring question, keeping the field
// cursor. It returns nil at either end of the batch.
func (s *DetailScreen) step(delta int) tea.Cmd {
	i := s.index + delta
	if i < 0 || i >= s.ws.Len() {
		return nil
	}
	next := NewDetail(s.ws, i)
	next.field = s.field
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *DetailScreen) updateEditing(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.editing = false
		s.errMsg = ""
		return s, nil
	case "enter":
		if err := s.ws.Set(s.index, Fields[s.field], s.input.Value()); err != nil {
			s.input.Submit(false)
			s.errMsg = err.Error()
			return s, nil
		}
		s.editing = false
		s.errMsg = ""
		return s, nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *DetailScreen) View(width, height int) string {
	q := s.ws.Question(s.index)
	var b strings.Builder

	pos := fmt.Sprintf("  Question %d of %d", s.index+1, s.ws.Len())
	if s.ws.Edited(s.index) {
		pos += theme.Dirty.Render("  (edited)")
	}
	b.WriteString(theme.Title.Render(pos) + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))) + "\n")

	valueWidth := width - 26
	for i, f := range Fields {
		prefix := "    "
		label := theme.Label.Render(f.Name)
		value := layout.Truncate(f.Value(q), valueWidth)
		if i == s.field {
			prefix = "  ▸ "
			label = theme.Label.Foreground(theme.Primary).Bold(true).Render(f.Name)
			if s.editing {
				value = s.input.View()
			}
		}
		b.WriteString(prefix + label + theme.Body.Render(value) + "\n")
	}

	preview := theme.Body.Render(q.QuestionPrompt) + "\n\n" +
		components.OptionList{Options: q.Answers(), Correct: q.CorrectAnswer}.View()
	b.WriteString("\n" + theme.Card.Width(max(width-4, 20)).Render(strings.TrimRight(preview, "\n")) + "\n")

	switch {
	case s.errMsg != "":
		b.WriteString(theme.Incorrect.Render("  " + s.errMsg))
	case s.message != "":
		b.WriteString(theme.Hint.Render("  " + s.message))
	}
	return b.String()
}
