package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/commitsense/commitsense/internal/activity"
	"github.com/commitsense/commitsense/internal/config"
	"github.com/commitsense/commitsense/internal/daemon/server"
	"github.com/commitsense/commitsense/internal/daemon/session"
	"github.com/commitsense/commitsense/internal/daemon/tray"
	"github.com/commitsense/commitsense/internal/daemon/watcher"
	"github.com/commitsense/commitsense/internal/log"
	"github.com/commitsense/commitsense/internal/models"
)

const shutdownTimeout = 5 * time.Second

// daemon bundles everything one daemon run owns.
type daemon struct {
	session       *session.Manager
	server        *server.Server
	settingsWatch *watcher.FileWatcher
}

func runDaemon(cmd *cobra.Command, args []string) error {
	if err := config.EnsureGlobalDir(); err != nil {
		return fmt.Errorf("failed to create global directory: %w", err)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}

	logFile, err := setupLogging(settings.LogLevel)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return fmt.Errorf("daemon already running on port %d (PID %d)", info.Port, info.PID)
	}

	root := workspace
	if root == "" {
		if root, err = os.Getwd(); err != nil {
			return err
		}
	}
	if root, err = filepath.Abs(root); err != nil {
		return err
	}

	useTray := !foreground && settings.Tray.Enabled
	if useTray {
		log.Info().Msg("running with system tray")
		runWithTray(settings, root)
		return nil
	}
	log.Info().Msg("running in foreground mode (no system tray)")
	return runForeground(settings, root)
}

// setupLogging sends logs to the console in foreground mode and to
// ~/.commitsense/logs/daemon.log otherwise.
func setupLogging(level string) (io.Closer, error) {
	if foreground {
		log.Init(os.Stderr, true, level)
		return nil, nil
	}

	if err := config.EnsureGlobalLogsDir(); err != nil {
		return nil, err
	}
	path, err := config.DaemonLogFile()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open daemon log: %w", err)
	}
	log.Init(f, false, level)
	return f, nil
}

// start builds the session and the control server and records daemon.yaml.
func start(settings *models.Settings, root string, onChange func()) (*daemon, error) {
	logPath, err := config.ActivityLogFile()
	if err != nil {
		return nil, err
	}
	store := activity.NewStore(logPath, settings.Logging.MaxEntries)
	mgr := session.NewManager(root, settings, store)

	info := models.NewDaemonInfo(listenHost, 0, os.Getpid(), root)
	srv, err := server.New(listenHost, listenPort, mgr, info.SessionID)
	if err != nil {
		return nil, err
	}
	info.Port = srv.Port()
	if err := config.SaveDaemonInfo(info); err != nil {
		_ = srv.Stop(context.Background())
		return nil, fmt.Errorf("failed to write daemon info: %w", err)
	}

	if onChange != nil {
		mgr.Controller().Subscribe(func(bool) { onChange() })
	}
	mgr.Start(settings.Logging.Enabled)

	d := &daemon{session: mgr, server: srv}

	if settingsPath, err := config.GlobalSettingsFile(); err == nil {
		fw, err := watcher.WatchFile(settingsPath, time.Duration(settings.Logging.DebounceMS)*time.Millisecond, func() {
			if err := mgr.ReloadSettings(); err != nil {
				log.Warn().Err(err).Msg("failed to reload settings")
				return
			}
			if onChange != nil {
				onChange()
			}
		})
		if err != nil {
			log.Warn().Err(err).Msg("failed to watch settings file")
		} else {
			d.settingsWatch = fw
		}
	}

	log.Info().
		Int("port", srv.Port()).
		Int("pid", os.Getpid()).
		Str("workspace", root).
		Bool("logging", settings.Logging.Enabled).
		Msg("daemon started")
	return d, nil
}

// stop tears down in reverse order of start.
func (d *daemon) stop() {
	if d.settingsWatch != nil {
		d.settingsWatch.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := d.server.Stop(ctx); err != nil {
		log.Warn().Err(err).Msg("control server shutdown")
	}
	d.session.Stop()
	if err := config.RemoveDaemonInfo(); err != nil {
		log.Warn().Err(err).Msg("failed to remove daemon info")
	}
	log.Info().Msg("daemon stopped")
}

// runForeground runs the daemon without a system tray, blocking on signals.
func runForeground(settings *models.Settings, root string) error {
	d, err := start(settings, root, nil)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- d.server.Serve()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server error")
		}
	}

	d.stop()
	fmt.Println("Daemon stopped")
	return nil
}

// runWithTray runs the daemon with a system tray icon on the main goroutine.
// systray.Run must occupy the main goroutine on macOS (Cocoa requirement).
func runWithTray(settings *models.Settings, root string) {
	// Tray menu goroutines read this while onStart is still running.
	var current atomic.Pointer[daemon]

	onStart := func() {
		d, err := start(settings, root, tray.Refresh)
		if err != nil {
			log.Error().Err(err).Msg("failed to start daemon")
			tray.Quit()
			return
		}
		current.Store(d)

		go func() {
			if err := d.server.Serve(); err != nil {
				log.Error().Err(err).Msg("server error")
				tray.Quit()
			}
		}()

		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			sig := <-sigCh
			log.Info().Str("signal", sig.String()).Msg("shutting down")
			tray.Quit()
		}()
	}

	onExit := func() {
		if d := current.Load(); d != nil {
			d.stop()
		}
	}

	// The tray needs a DaemonState before the server exists, so it gets a
	// lazy wrapper that defers to the real TrayState once start has run.
	lazyState := &lazyDaemonState{getSrv: func() *server.Server {
		if d := current.Load(); d != nil {
			return d.server
		}
		return nil
	}}

	tray.Run(lazyState, onStart, onExit)
}

// lazyDaemonState wraps server.TrayState with lazy initialization.
type lazyDaemonState struct {
	getSrv func() *server.Server
}

func (l *lazyDaemonState) state() *server.TrayState {
	if srv := l.getSrv(); srv != nil {
		return server.NewTrayState(srv)
	}
	return nil
}

func (l *lazyDaemonState) Port() int {
	if s := l.state(); s != nil {
		return s.Port()
	}
	return 0
}

func (l *lazyDaemonState) Workspace() string {
	if s := l.state(); s != nil {
		return s.Workspace()
	}
	return ""
}

func (l *lazyDaemonState) LoggingEnabled() bool {
	if s := l.state(); s != nil {
		return s.LoggingEnabled()
	}
	return false
}

func (l *lazyDaemonState) EntryCount() int {
	if s := l.state(); s != nil {
		return s.EntryCount()
	}
	return 0
}

func (l *lazyDaemonState) ToggleLogging() (bool, error) {
	if s := l.state(); s != nil {
		return s.ToggleLogging()
	}
	return false, fmt.Errorf("daemon not started")
}

func (l *lazyDaemonState) ClearActivity() error {
	if s := l.state(); s != nil {
		return s.ClearActivity()
	}
	return fmt.Errorf("daemon not started")
}

func (l *lazyDaemonState) RequestShutdown() {
	if s := l.state(); s != nil {
		s.RequestShutdown()
	}
}
