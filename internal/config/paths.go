// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global commitsense directory.
	GlobalDirName = ".commitsense"

	// HomeEnvVar overrides the global directory location when set.
	HomeEnvVar = "COMMITSENSE_HOME"

	// LogsDirName is the name of the daemon logs directory.
	LogsDirName = "logs"
)

// File names
const (
	DaemonFileName   = "daemon.yaml"
	SettingsFileName = "settings.yaml"
	StateFileName    = "state.yaml"
	ActivityFileName = "activity.log"
	DaemonLogName    = "daemon.log"
	EnvFileName      = ".env"
)

// GlobalDir returns the path to the global commitsense directory (~/.commitsense/).
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnvVar); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// globalFile joins name onto the global directory.
func globalFile(name string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// GlobalDaemonFile returns the path to the daemon.yaml file.
func GlobalDaemonFile() (string, error) {
	return globalFile(DaemonFileName)
}

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) {
	return globalFile(SettingsFileName)
}

// GlobalStateFile returns the path to the state.yaml file.
func GlobalStateFile() (string, error) {
	return globalFile(StateFileName)
}

// ActivityLogFile returns the path to the activity log.
func ActivityLogFile() (string, error) {
	return globalFile(ActivityFileName)
}

// GlobalEnvFile returns the path to the optional .env file.
func GlobalEnvFile() (string, error) {
	return globalFile(EnvFileName)
}

// GlobalLogsDir returns the path to the logs directory.
func GlobalLogsDir() (string, error) {
	return globalFile(LogsDirName)
}

// DaemonLogFile returns the path to the daemon's own diagnostic log.
func DaemonLogFile() (string, error) {
	dir, err := GlobalLogsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DaemonLogName), nil
}

// EnsureGlobalDir creates the global commitsense directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// EnsureGlobalLogsDir creates the global logs directory if it doesn't exist.
func EnsureGlobalLogsDir() error {
	dir, err := GlobalLogsDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}
