package tray

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/getlantern/systray"

	"github.com/commitsense/commitsense/internal/log"
)

// AppName is shown in the menu header and notifications.
const AppName = "commitsense"

var (
	state   DaemonState
	onStart func()
	onExit  func()

	portItem      *systray.MenuItem
	workspaceItem *systray.MenuItem
	entriesItem   *systray.MenuItem
	toggleItem    *systray.MenuItem
	clearItem     *systray.MenuItem
	quitItem      *systray.MenuItem
)

// Run starts the system tray. This blocks the calling goroutine (must be main).
// onStartFn is called when the tray is ready (launch the control server here).
// onExitFn is called when the tray exits (cleanup here).
func Run(s DaemonState, onStartFn, onExitFn func()) {
	state = s
	onStart = onStartFn
	onExit = onExitFn
	beeep.AppName = AppName
	systray.Run(onReady, onQuit)
}

// Quit signals the tray to exit.
func Quit() {
	systray.Quit()
}

func onReady() {
	systray.SetTemplateIcon(iconData, iconData)
	systray.SetTooltip(formatTooltip(false))

	header := systray.AddMenuItem(AppName+" daemon", "")
	header.Disable()

	portItem = systray.AddMenuItem("Starting...", "")
	portItem.Disable()
	workspaceItem = systray.AddMenuItem("", "")
	workspaceItem.Disable()
	entriesItem = systray.AddMenuItem("", "")
	entriesItem.Disable()

	systray.AddSeparator()

	toggleItem = systray.AddMenuItemCheckbox("Activity logging", "Record file activity for commit suggestions", false)
	clearItem = systray.AddMenuItem("Clear activity log", "Delete all recorded activity")

	systray.AddSeparator()

	quitItem = systray.AddMenuItem("Quit", "Shut down the commitsense daemon")

	if onStart != nil {
		onStart()
	}

	if state != nil {
		portItem.SetTitle(fmt.Sprintf("Running on port: %d", state.Port()))
		workspaceItem.SetTitle(fmt.Sprintf("Workspace: %s", state.Workspace()))
		Refresh()
	}

	go handleClicks()
}

func onQuit() {
	if onExit != nil {
		onExit()
	}
}

func handleClicks() {
	for {
		select {
		case <-toggleItem.ClickedCh:
			enabled, err := state.ToggleLogging()
			if err != nil {
				log.Warn().Err(err).Msg("tray: failed to persist logging state")
			}
			if enabled {
				notify("Activity logging enabled")
			} else {
				notify("Activity logging disabled")
			}
			Refresh()

		case <-clearItem.ClickedCh:
			if err := state.ClearActivity(); err != nil {
				log.Error().Err(err).Msg("tray: failed to clear activity log")
				notify("Failed to clear activity log")
			} else {
				notify("Activity log cleared")
			}
			Refresh()

		case <-quitItem.ClickedCh:
			if state != nil {
				state.RequestShutdown()
			}
		}
	}
}

// Refresh updates the tooltip, the logging checkbox and the entry count.
// It is a no-op until the tray is ready.
func Refresh() {
	if state == nil || toggleItem == nil {
		return
	}
	enabled := state.LoggingEnabled()
	if enabled {
		toggleItem.Check()
	} else {
		toggleItem.Uncheck()
	}
	entriesItem.SetTitle(formatEntries(state.EntryCount()))
	systray.SetTooltip(formatTooltip(enabled))
}

func notify(message string) {
	if err := beeep.Notify(AppName, message, ""); err != nil {
		log.Debug().Err(err).Msg("tray: notification failed")
	}
}

func formatTooltip(enabled bool) string {
	if enabled {
		return AppName + " - Logging enabled"
	}
	return AppName + " - Logging disabled"
}

func formatEntries(n int) string {
	if n == 1 {
		return "1 entry logged"
	}
	return fmt.Sprintf("%d entries logged", n)
}
