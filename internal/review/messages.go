package review

import (
	"fmt"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
)

// savedMsg reports the outcome of a save.
type savedMsg struct {
	n   int
	rev int
	err error
}

// saveCmd writes a snapshot of the workshop off the update loop.
func saveCmd(w *Workshop) tea.Cmd {
	qs, rev := w.Questions(), w.rev
	return func() tea.Msg {
		return savedMsg{n: len(qs), rev: rev, err: w.write(qs)}
	}
}

// apply records a finished save and returns the line to show the user.
func (m savedMsg) apply(w *Workshop) string {
	if m.err != nil {
		return fmt.Sprintf("Save failed: %v", m.err)
	}
	w.markSaved(m.rev)
	return fmt.Sprintf("Saved %d questions to %s", m.n, filepath.Base(w.Path()))
}

func status(w *Workshop) string {
	s := filepath.Base(w.Path())
	if w.Dirty() {
		s += " *"
	}
	return s + "  "
}
