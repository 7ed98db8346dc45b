// Package tui renders the interactive review session in the terminal. It is
// a pure adapter: every decision goes through review.Session, which persists
// it before the screen updates, so killing the terminal mid-review is always
// safe.
package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"winnow/internal/review"
)

// Model is the bubbletea state for one review session.
type Model struct {
	session  *review.Session
	progress progress.Model
	width    int

	confirming bool
	finished   bool
	quitting   bool
	err        error
}

// New builds the TUI model over an already-loaded session.
func New(session *review.Session) Model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 48
	return Model{
		session:  session,
		progress: bar,
	}
}

// Finished reports whether the user completed the review rather than
// suspending it.
func (m Model) Finished() bool { return m.finished }

// Err returns the error that terminated the session, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return nil
}

// Run drives the session to completion or suspension. It reports whether the
// review was finished, so the caller can suggest `winnow execute` next.
func Run(session *review.Session) (bool, error) {
	program := tea.NewProgram(New(session))
	final, err := program.Run()
	if err != nil {
		return false, err
	}
	model, ok := final.(Model)
	if !ok {
		return false, nil
	}
	if model.err != nil {
		return false, model.err
	}
	return model.finished, nil
}
