package models

// State holds small pieces of persisted application state that are not settings.
// This corresponds to ~/.commitsense/state.yaml.
type State struct {
	Version             int  `yaml:"version"`
	AskedLoggingConsent bool `yaml:"asked_logging_consent"`
}

// NewState creates an empty state.
func NewState() *State {
	return &State{Version: 1}
}
