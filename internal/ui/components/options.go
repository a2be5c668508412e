package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/itemsmith/internal/ui/theme"
)

// OptionList renders the four lettered answers of a question with the
// keyed answer highlighted.
type OptionList struct {
	Options []string
	Correct string // letter, A-D
}

// View renders one line per option.
func (o OptionList) View() string {
	var b strings.Builder
	for i, opt := range o.Options {
		letter := string(rune('A' + i))
		line := fmt.Sprintf("%s)  %s", letter, opt)
		if strings.EqualFold(letter, strings.TrimSpace(o.Correct)) {
			b.WriteString(theme.Correct.Render("✓ "+line) + "\n")
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render("  "+line) + "\n")
	}
	return b.String()
}
