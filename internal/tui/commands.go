package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/commitsense/commitsense/internal/models"
)

func readActivityCmd(flow Flow) tea.Cmd {
	return func() tea.Msg {
		entries, err := flow.ReadActivity()
		return activityLoadedMsg{entries: entries, err: err}
	}
}

func generateCmd(ctx context.Context, flow Flow, entries []models.LogEntry) tea.Cmd {
	return func() tea.Msg {
		msg, err := flow.Generate(ctx, entries)
		return generatedMsg{message: msg, err: err}
	}
}

func copyCmd(flow Flow, outcome Outcome) tea.Cmd {
	return func() tea.Msg {
		if err := flow.Copy(outcome.Message.Message); err != nil {
			outcome.ActionErr = fmt.Errorf("failed to copy to clipboard: %w", err)
			return actionDoneMsg{outcome: outcome}
		}
		outcome.Action = ActionCopied
		return actionDoneMsg{outcome: outcome}
	}
}

// commitCmd commits the staged changes and falls back to the clipboard.
func commitCmd(flow Flow, outcome Outcome) tea.Cmd {
	return func() tea.Msg {
		hash, err := flow.Commit(outcome.Message.Message)
		if err == nil {
			outcome.Action = ActionCommitted
			outcome.CommitHash = hash
			return actionDoneMsg{outcome: outcome}
		}

		if copyErr := flow.Copy(outcome.Message.Message); copyErr != nil {
			outcome.ActionErr = fmt.Errorf("commit failed (%v) and copy to clipboard failed: %w", err, copyErr)
			return actionDoneMsg{outcome: outcome}
		}
		outcome.ActionErr = err
		outcome.Action = ActionCopiedFallback
		return actionDoneMsg{outcome: outcome}
	}
}
