// Package models contains shared data structures used across the application.
package models

import (
	"fmt"
	"time"
)

// Action is the kind of file activity recorded in a LogEntry.
type Action string

// Recorded activity kinds.
const (
	ActionCreated  Action = "created"
	ActionModified Action = "modified"
	ActionDeleted  Action = "deleted"
	ActionSaved    Action = "saved"
)

// TimestampFormat is the layout used for LogEntry timestamps (ISO-8601, millisecond precision, UTC).
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// LogEntry is one recorded file-activity event.
// This corresponds to one line of ~/.commitsense/activity.log.
//
// FileName is always relative to the workspace root. Content only ever holds
// size-level metadata, never file text.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Action    Action `json:"action"`
	FileName  string `json:"fileName"`
	Content   string `json:"content,omitempty"`
	Changes   string `json:"changes,omitempty"`
}

// NewLogEntry creates an entry stamped with the given time in UTC.
func NewLogEntry(at time.Time, action Action, fileName string) LogEntry {
	return LogEntry{
		Timestamp: at.UTC().Format(TimestampFormat),
		Action:    action,
		FileName:  fileName,
	}
}

// ContentSummary renders the size-only summary stored for saved documents.
func ContentSummary(lines, characters int) string {
	return fmt.Sprintf("Lines: %d, Characters: %d", lines, characters)
}

// CommitMessage is a generated commit-message suggestion.
type CommitMessage struct {
	Message    string  `json:"message"`
	Confidence float64 `json:"confidence"` // 0..1
}
