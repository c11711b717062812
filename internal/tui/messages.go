package tui

import "github.com/commitsense/commitsense/internal/models"

// activityLoadedMsg carries the entries that feed the prompt.
type activityLoadedMsg struct {
	entries []models.LogEntry
	err     error
}

// generatedMsg carries the result of one generation call.
type generatedMsg struct {
	message *models.CommitMessage
	err     error
}

// actionDoneMsg reports the outcome of a result action.
type actionDoneMsg struct {
	outcome Outcome
}
