// Package session ties the activity log, the logging switch and the
// workspace watcher together for one daemon run.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/commitsense/commitsense/internal/activity"
	"github.com/commitsense/commitsense/internal/config"
	"github.com/commitsense/commitsense/internal/daemon/watcher"
	"github.com/commitsense/commitsense/internal/ignore"
	"github.com/commitsense/commitsense/internal/log"
	"github.com/commitsense/commitsense/internal/models"
)

// Manager owns the store, the controller, the recorder and the watcher.
// The watcher runs only while logging is enabled.
type Manager struct {
	workspace  string
	store      *activity.Store
	controller *activity.Controller
	recorder   *activity.Recorder
	filter     *ignore.Filter
	debounce   time.Duration

	// persist writes the logging flag back to settings.yaml.
	persist func(enabled bool) error

	mu      sync.Mutex
	watcher *watcher.Watcher
}

// NewManager creates a session for workspace. Exclude patterns are read
// from settings once here.
func NewManager(workspace string, settings *models.Settings, store *activity.Store) *Manager {
	filter := ignore.New(settings.Logging.ExcludePatterns)
	controller := activity.NewController()

	m := &Manager{
		workspace:  workspace,
		store:      store,
		controller: controller,
		recorder:   activity.NewRecorder(workspace, filter, store, controller),
		filter:     filter,
		debounce:   time.Duration(settings.Logging.DebounceMS) * time.Millisecond,
		persist: func(enabled bool) error {
			_, err := config.SetLoggingEnabled(enabled)
			return err
		},
	}
	controller.Subscribe(m.onLoggingChanged)
	return m
}

// Start applies the configured logging state, starting the watcher if enabled.
func (m *Manager) Start(enabled bool) {
	m.controller.Set(enabled)
}

// Stop stops the watcher if it is running.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopWatcherLocked()
}

// Workspace returns the absolute workspace root.
func (m *Manager) Workspace() string {
	return m.recorder.Workspace()
}

// Store returns the activity store.
func (m *Manager) Store() *activity.Store {
	return m.store
}

// Recorder returns the activity recorder.
func (m *Manager) Recorder() *activity.Recorder {
	return m.recorder
}

// Controller returns the logging switch.
func (m *Manager) Controller() *activity.Controller {
	return m.controller
}

// SetLogging turns logging on or off and persists the choice. It reports
// whether the state changed.
func (m *Manager) SetLogging(enabled bool) (bool, error) {
	changed := m.controller.Set(enabled)
	if err := m.persist(enabled); err != nil {
		return changed, fmt.Errorf("failed to save settings: %w", err)
	}
	return changed, nil
}

// ToggleLogging flips logging, persists it and returns the new state.
func (m *Manager) ToggleLogging() (bool, error) {
	enabled := m.controller.Toggle()
	if err := m.persist(enabled); err != nil {
		return enabled, fmt.Errorf("failed to save settings: %w", err)
	}
	return enabled, nil
}

// ApplySettings picks up logging.enabled and logging.max_entries from
// reloaded settings. Exclude patterns stay as they were at startup.
func (m *Manager) ApplySettings(settings *models.Settings) {
	m.store.SetMaxEntries(settings.Logging.MaxEntries)
	if m.controller.Set(settings.Logging.Enabled) {
		log.Info().Bool("enabled", settings.Logging.Enabled).Msg("logging changed in settings file")
	}
}

// ReloadSettings loads settings.yaml and applies it.
func (m *Manager) ReloadSettings() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	m.ApplySettings(settings)
	return nil
}

// Status reports the current session state.
func (m *Manager) Status() models.DaemonStatus {
	count, err := m.store.Count()
	if err != nil {
		log.Warn().Err(err).Msg("failed to count log entries")
	}

	m.mu.Lock()
	watching := m.watcher != nil
	m.mu.Unlock()

	return models.DaemonStatus{
		LoggingEnabled: m.controller.Enabled(),
		Workspace:      m.Workspace(),
		Entries:        count,
		MaxEntries:     m.store.MaxEntries(),
		LogPath:        m.store.Path(),
		Watching:       watching,
	}
}

func (m *Manager) onLoggingChanged(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !enabled {
		m.stopWatcherLocked()
		log.Info().Msg("activity logging disabled")
		return
	}

	if m.watcher != nil || m.Workspace() == "" {
		return
	}
	w, err := watcher.New(m.Workspace(), m.filter, m.recorder, m.debounce)
	if err != nil {
		log.Error().Err(err).Msg("failed to create workspace watcher")
		return
	}
	if err := w.Start(); err != nil {
		w.Stop()
		log.Error().Err(err).Str("workspace", m.Workspace()).Msg("failed to start workspace watcher")
		return
	}
	m.watcher = w
	log.Info().Str("workspace", m.Workspace()).Msg("activity logging enabled")
}

func (m *Manager) stopWatcherLocked() {
	if m.watcher == nil {
		return
	}
	m.watcher.Stop()
	m.watcher = nil
}
