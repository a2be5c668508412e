package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/itemsmith/internal/ui/theme"
)

// MenuItem represents a single row in a list menu.
type MenuItem struct {
	Label  string
	Marked bool // rendered with the dirty style
	Action func() tea.Cmd
}

// Menu is a vertical list that scrolls to keep the selection visible.
type Menu struct {
	Items    []MenuItem
	Selected int
	offset   int
}

// NewMenu creates a new menu with the given items.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.Items) == 0 {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
	case "home", "g":
		m.Selected = 0
	case "end", "G":
		m.Selected = len(m.Items) - 1
	case "enter":
		if item := m.Items[m.Selected]; item.Action != nil {
			return m, item.Action()
		}
	}

	return m, nil
}

// View renders at most height rows.
func (m *Menu) View(height int) string {
	if height < 1 {
		height = 1
	}
	if m.Selected < m.offset {
		m.offset = m.Selected
	}
	if m.Selected >= m.offset+height {
		m.offset = m.Selected - height + 1
	}

	end := m.offset + height
	if end > len(m.Items) {
		end = len(m.Items)
	}

	var b strings.Builder
	for i := m.offset; i < end; i++ {
		item := m.Items[i]
		style := lipgloss.NewStyle().Foreground(theme.Text)
		prefix := "    "
		if item.Marked {
			style = theme.Dirty
		}
		if i == m.Selected {
			style = style.Foreground(theme.Primary).Bold(true)
			prefix = "  ▸ "
		}
		b.WriteString(style.Render(prefix+item.Label) + "\n")
	}
	return b.String()
}
