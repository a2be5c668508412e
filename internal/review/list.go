package review

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/itemsmith/internal/router"
	"github.com/abhisek/itemsmith/internal/screen"
	"github.com/abhisek/itemsmith/internal/ui/components"
	"github.com/abhisek/itemsmith/internal/ui/layout"
	"github.com/abhisek/itemsmith/internal/ui/theme"
)

// ListScreen shows every question in the batch, one line each.
type ListScreen struct {
	ws          *Workshop
	menu        components.Menu
	message     string
	confirmQuit bool
}

var _ screen.Screen = (*ListScreen)(nil)
var _ screen.KeyHintProvider = (*ListScreen)(nil)
var _ screen.StatusProvider = (*ListScreen)(nil)

// New returns the workshop's root screen.
func New(ws *Workshop) *ListScreen {
	s := &ListScreen{ws: ws}
	s.refresh()
	return s
}

func (s *ListScreen) Init() tea.Cmd { return nil }

func (s *ListScreen) Title() string { return "Refinement Workshop" }

func (s *ListScreen) Status() string { return status(s.ws) }

func (s *ListScreen) KeyHints() []layout.KeyHint {
	if s.confirmQuit {
		return []layout.KeyHint{
			{Key: "Y", Description: "Quit without saving"},
			{Key: "N", Description: "Keep editing"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "S", Description: "Save"},
		{Key: "Q", Description: "Quit"},
	}
}

// refresh rebuilds the menu labels, keeping the selection.
func (s *ListScreen) refresh() {
	items := make([]components.MenuItem, s.ws.Len())
	for i := range items {
		q := s.ws.Question(i)
		idx := i
		items[i] = components.MenuItem{
			Label:  fmt.Sprintf("%3s. [%s] %s", q.ItemNumber, q.AssessmentFocus, q.QuestionPrompt),
			Marked: s.ws.Edited(i),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: NewDetail(s.ws, idx)}
				}
			},
		}
	}
	selected := s.menu.Selected
	s.menu = components.NewMenu(items)
	if selected < len(items) {
		s.menu.Selected = selected
	}
}

func (s *ListScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		s.message = msg.apply(s.ws)
		s.refresh()
		return s, nil

	case tea.KeyMsg:
		key := msg.String()
		if s.confirmQuit {
			s.confirmQuit = false
			if key == "y" || key == "Y" {
				return s, tea.Quit
			}
			return s, nil
		}
		switch key {
		case "s", "ctrl+s":
			return s, saveCmd(s.ws)
		case "q":
			if s.ws.Dirty() {
				s.confirmQuit = true
				return s, nil
			}
			return s, tea.Quit
		}
	}

	// Detail edits land in the shared workshop; pick them up on return.
	s.refresh()
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *ListScreen) View(width, height int) string {
	var b strings.Builder

	heading := fmt.Sprintf("  %d questions", s.ws.Len())
	if n := len(s.ws.edited); n > 0 {
		heading += theme.Dirty.Render(fmt.Sprintf("  (%d edited)", n))
	}
	b.WriteString(theme.Title.Render(heading) + "\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))) + "\n")

	if s.ws.Len() == 0 {
		b.WriteString(theme.Hint.Render("  The file has no questions.") + "\n")
	} else {
		rows := height - 5
		labelWidth := width - 6
		for i := range s.menu.Items {
			s.menu.Items[i].Label = layout.Truncate(s.menu.Items[i].Label, labelWidth)
		}
		b.WriteString(s.menu.View(rows))
	}

	b.WriteString("\n")
	switch {
	case s.confirmQuit:
		b.WriteString(theme.Dirty.Render("  Unsaved changes. Quit anyway? (y/n)"))
	case s.message != "":
		b.WriteString(theme.Hint.Render("  " + s.message))
	}
	return b.String()
}
