// Package tray implements the system tray icon and menu for the daemon.
package tray

// DaemonState provides the tray with daemon state and the few actions its
// menu exposes.
type DaemonState interface {
	Port() int
	Workspace() string
	LoggingEnabled() bool
	EntryCount() int
	ToggleLogging() (bool, error)
	ClearActivity() error
	RequestShutdown()
}
