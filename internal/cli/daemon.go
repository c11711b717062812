package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/commitsense/commitsense/internal/config"
)

const daemonBinary = "commitsensed"

// startDaemon starts the daemon process for workspace in the background.
func startDaemon(workspace string) error {
	daemonPath, err := findDaemonBinary()
	if err != nil {
		return err
	}

	cmd := exec.Command(daemonPath, "--workspace", workspace)
	cmd.Stdout = nil
	cmd.Stderr = nil
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	// The daemon outlives this process.
	_ = cmd.Process.Release()

	// Wait for daemon to be ready (max 5 seconds)
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		running, _, err := config.IsDaemonRunning()
		if err == nil && running {
			return nil
		}
	}

	return fmt.Errorf("daemon failed to start within timeout. See %s", daemonLogHint())
}

// findDaemonBinary locates the commitsensed binary.
func findDaemonBinary() (string, error) {
	// Same directory as this executable first, so paired builds stay paired.
	if execPath, err := os.Executable(); err == nil {
		daemonPath := filepath.Join(filepath.Dir(execPath), daemonBinary)
		if _, err := os.Stat(daemonPath); err == nil {
			return daemonPath, nil
		}
	}

	if path, err := exec.LookPath(daemonBinary); err == nil {
		return path, nil
	}

	if _, err := os.Stat("./build/" + daemonBinary); err == nil {
		return "./build/" + daemonBinary, nil
	}

	return "", fmt.Errorf("%s not found. Install or build it first", daemonBinary)
}

func daemonLogHint() string {
	path, err := config.DaemonLogFile()
	if err != nil {
		return "the daemon log"
	}
	return path
}

// waitForDaemonExit polls until daemon.yaml is gone or the PID is dead.
func waitForDaemonExit() bool {
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		running, _, err := config.IsDaemonRunning()
		if err == nil && !running {
			return true
		}
	}
	return false
}
