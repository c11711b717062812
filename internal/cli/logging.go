package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/commitsense/commitsense/internal/config"
)

var loggingCmd = &cobra.Command{
	Use:   "logging",
	Short: "Turn activity logging on or off",
}

var loggingEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable activity logging",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setLogging(cmd, true)
	},
}

var loggingDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable activity logging",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setLogging(cmd, false)
	},
}

var loggingToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle activity logging",
	Args:  cobra.NoArgs,
	RunE:  runLoggingToggle,
}

func init() {
	loggingCmd.AddCommand(loggingDisableCmd)
	loggingCmd.AddCommand(loggingEnableCmd)
	loggingCmd.AddCommand(loggingToggleCmd)
}

// setLogging goes through the daemon when it runs, since the daemon both
// applies and persists the flag. Otherwise settings.yaml is updated directly.
func setLogging(cmd *cobra.Command, enabled bool) error {
	client, _, err := connectDaemon()
	if err != nil {
		return err
	}

	if client != nil {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()
		if _, err := client.SetLogging(ctx, enabled); err != nil {
			return err
		}
	} else if _, err := config.SetLoggingEnabled(enabled); err != nil {
		return err
	}

	printLoggingChange(cmd.OutOrStdout(), enabled)
	return nil
}

func runLoggingToggle(cmd *cobra.Command, args []string) error {
	client, _, err := connectDaemon()
	if err != nil {
		return err
	}

	var enabled bool
	if client != nil {
		ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
		defer cancel()
		state, err := client.ToggleLogging(ctx)
		if err != nil {
			return err
		}
		enabled = state.Enabled
	} else {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		enabled = !settings.Logging.Enabled
		if _, err := config.SetLoggingEnabled(enabled); err != nil {
			return err
		}
	}

	printLoggingChange(cmd.OutOrStdout(), enabled)
	return nil
}

func printLoggingChange(w io.Writer, enabled bool) {
	if enabled {
		fmt.Fprintln(w, styleSuccess.Render("✓ Activity logging enabled"))
		return
	}
	fmt.Fprintln(w, styleWarning.Render("Activity logging disabled"))
}
