package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/commitsense/commitsense/internal/config"
)

var startWorkspace string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the daemon for a workspace",
	Long: `Start the commitsense daemon in the background for a workspace.

On first use you are asked whether activity logging may be enabled.`,
	Args: cobra.NoArgs,
	RunE: runStart,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon and logging status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the daemon",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func init() {
	startCmd.Flags().StringVarP(&startWorkspace, "workspace", "w", "", "Workspace to watch (defaults to the current directory)")
}

func runStart(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running && info != nil {
		fmt.Fprintf(out, "Daemon is already running for %s (PID %d, port %d).\n", info.Workspace, info.PID, info.Port)
		return nil
	}

	if isInteractive() {
		if err := ensureConsent(bufio.NewReader(cmd.InOrStdin()), out); err != nil {
			return err
		}
	}

	workspace := startWorkspace
	if workspace == "" {
		if workspace, err = os.Getwd(); err != nil {
			return err
		}
	}
	if workspace, err = filepath.Abs(workspace); err != nil {
		return err
	}

	fmt.Fprint(out, "Starting daemon...")
	if err := startDaemon(workspace); err != nil {
		fmt.Fprintln(out)
		return err
	}

	_, info, err = config.IsDaemonRunning()
	if err != nil || info == nil {
		fmt.Fprintln(out, " started.")
		return nil
	}
	fmt.Fprintf(out, " started (PID %d, port %d).\n", info.PID, info.Port)
	return nil
}

// ensureConsent asks for logging consent once and records the answer.
func ensureConsent(r *bufio.Reader, w io.Writer) error {
	state, err := config.LoadState()
	if err != nil {
		return err
	}
	if state.AskedLoggingConsent {
		return nil
	}

	choice := askConsent(r, w)
	if err := config.MarkConsentAsked(); err != nil {
		return err
	}

	switch choice {
	case consentAllow:
		if _, err := config.SetLoggingEnabled(true); err != nil {
			return err
		}
		fmt.Fprintln(w, styleSuccess.Render("✓ Activity logging enabled.")+" "+
			styleHint.Render("You can disable it anytime with `commitsense logging disable`."))
	case consentLearnMore:
		fmt.Fprintln(w)
		fmt.Fprintln(w, consentDetails)
		fmt.Fprintln(w)
		fmt.Fprintln(w, styleHint.Render("Logging stays off. Run `commitsense logging enable` when you are ready."))
	default:
		if _, err := config.SetLoggingEnabled(false); err != nil {
			return err
		}
		fmt.Fprintln(w, "Activity logging disabled. "+
			styleHint.Render("You can enable it later with `commitsense logging enable`."))
	}
	fmt.Fprintln(w)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	client, info, err := connectDaemon()
	if err != nil {
		return err
	}

	if client == nil {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		source, err := openActivity()
		if err != nil {
			return err
		}
		count, _ := source.store.Count()

		fmt.Fprintln(out, "Daemon is not running.")
		printStatusRow(out, "Logging", loggingLabel(settings.Logging.Enabled)+styleHint.Render(" (takes effect when the daemon starts)"))
		printStatusRow(out, "Entries", fmt.Sprintf("%d / %d", count, settings.Logging.MaxEntries))
		printStatusRow(out, "Log file", source.store.Path())
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	status, err := client.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Daemon is running.")
	printStatusRow(out, "Workspace", status.Workspace)
	printStatusRow(out, "Logging", loggingLabel(status.LoggingEnabled))
	printStatusRow(out, "Entries", fmt.Sprintf("%d / %d", status.Entries, status.MaxEntries))
	printStatusRow(out, "Log file", status.LogPath)
	printStatusRow(out, "Address", config.DaemonURL(info))
	printStatusRow(out, "PID", fmt.Sprint(status.PID))
	printStatusRow(out, "Uptime", time.Since(info.StartedAt).Truncate(time.Second).String())
	printStatusRow(out, "Session", status.SessionID)
	return nil
}

func printStatusRow(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", styleLabel.Render(fmt.Sprintf("%-10s", label+":")), value)
}

func loggingLabel(enabled bool) string {
	if enabled {
		return styleSuccess.Render("enabled")
	}
	return styleWarning.Render("disabled")
}

func runStop(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	client, info, err := connectDaemon()
	if err != nil {
		return err
	}
	if client == nil {
		fmt.Fprintln(out, "Daemon is not running.")
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	if err := client.Shutdown(ctx); err != nil {
		// Fall back to a signal if the control API is unreachable.
		process, findErr := os.FindProcess(info.PID)
		if findErr != nil {
			return fmt.Errorf("failed to find daemon process: %w", findErr)
		}
		if sigErr := process.Signal(syscall.SIGTERM); sigErr != nil {
			return fmt.Errorf("failed to send stop signal: %w", sigErr)
		}
	}

	if waitForDaemonExit() {
		fmt.Fprintln(out, "Daemon stopped.")
		return nil
	}
	return fmt.Errorf("daemon did not stop within timeout")
}
