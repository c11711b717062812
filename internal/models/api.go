package models

// DaemonStatus is returned by GET /v1/status.
type DaemonStatus struct {
	LoggingEnabled bool   `json:"logging_enabled"`
	Workspace      string `json:"workspace"`
	Entries        int    `json:"entries"`
	MaxEntries     int    `json:"max_entries"`
	LogPath        string `json:"log_path"`
	Watching       bool   `json:"watching"`
	SessionID      string `json:"session_id,omitempty"`
	Version        string `json:"version,omitempty"`
	PID            int    `json:"pid,omitempty"`
}

// LoggingState is returned by the logging endpoints.
type LoggingState struct {
	Enabled bool `json:"enabled"`
	Changed bool `json:"changed"`
}

// ActivityList is returned by GET /v1/activity.
type ActivityList struct {
	Entries []LogEntry `json:"entries"`
}

// SavedEvent is the body of POST /v1/events/saved.
type SavedEvent struct {
	Path       string `json:"path"`
	Lines      int    `json:"lines"`
	Characters int    `json:"characters"`
}

// APIError is the body of every non-2xx control API response.
type APIError struct {
	Error string `json:"error"`
}
