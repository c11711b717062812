package config

import "github.com/commitsense/commitsense/internal/models"

// LoadState loads ~/.commitsense/state.yaml, returning an empty state if absent.
func LoadState() (*models.State, error) {
	path, err := GlobalStateFile()
	if err != nil {
		return nil, err
	}
	return LoadYAMLOrDefault(path, models.NewState)
}

// SaveState saves ~/.commitsense/state.yaml.
func SaveState(state *models.State) error {
	path, err := GlobalStateFile()
	if err != nil {
		return err
	}
	return SaveYAML(path, state)
}

// MarkConsentAsked records that the user has answered the logging consent prompt.
func MarkConsentAsked() error {
	state, err := LoadState()
	if err != nil {
		return err
	}
	state.AskedLoggingConsent = true
	return SaveState(state)
}
