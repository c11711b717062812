package models

import (
	"time"

	"github.com/google/uuid"
)

// DaemonInfo represents the daemon connection information.
// This corresponds to ~/.commitsense/daemon.yaml.
type DaemonInfo struct {
	Version   int       `yaml:"version"`
	Host      string    `yaml:"host"`
	Port      int       `yaml:"port"`
	PID       int       `yaml:"pid"`
	Workspace string    `yaml:"workspace"`
	SessionID string    `yaml:"session_id"`
	StartedAt time.Time `yaml:"started_at"`
}

// NewDaemonInfo creates a new daemon info with current values and a fresh session ID.
func NewDaemonInfo(host string, port, pid int, workspace string) *DaemonInfo {
	return &DaemonInfo{
		Version:   1,
		Host:      host,
		Port:      port,
		PID:       pid,
		Workspace: workspace,
		SessionID: uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}
