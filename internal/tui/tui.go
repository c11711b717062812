// Package tui implements the interactive commit message picker.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/commitsense/commitsense/internal/models"
)

// ErrNoActivity is returned when the activity window is empty.
var ErrNoActivity = errors.New("no recent activity")

// Flow supplies the work behind each stage of the picker.
type Flow struct {
	ReadActivity func() ([]models.LogEntry, error)
	Generate     func(ctx context.Context, entries []models.LogEntry) (*models.CommitMessage, error)
	Copy         func(message string) error
	Commit       func(message string) (string, error)
}

// Action is what the user did with the suggestion.
type Action string

// Result actions.
const (
	ActionNone      Action = ""
	ActionCopied    Action = "copied"
	ActionCommitted Action = "committed"
	// ActionCopiedFallback means the commit failed and the message went to
	// the clipboard instead.
	ActionCopiedFallback Action = "copied-fallback"
)

// Outcome is the final state of a picker run.
type Outcome struct {
	Message    *models.CommitMessage
	Action     Action
	CommitHash string
	// ActionErr is the commit or copy failure behind a fallback or a failed action.
	ActionErr error
	// Err ends the run before a suggestion could be shown.
	Err error
}

// Summary describes a completed action in one line.
func (o Outcome) Summary() string {
	switch o.Action {
	case ActionCopied:
		return "Commit message copied to clipboard"
	case ActionCommitted:
		return fmt.Sprintf("Committed %s", shortHash(o.CommitHash))
	case ActionCopiedFallback:
		return fmt.Sprintf("Could not commit (%v). Message copied to clipboard instead", o.ActionErr)
	}
	if o.ActionErr != nil {
		return o.ActionErr.Error()
	}
	return ""
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}

// Run drives the picker until the user acts on a suggestion or quits.
func Run(ctx context.Context, flow Flow, opts ...tea.ProgramOption) (Outcome, error) {
	p := tea.NewProgram(NewModel(ctx, flow), opts...)
	final, err := p.Run()
	if err != nil {
		return Outcome{}, err
	}
	return final.(Model).Outcome(), nil
}
