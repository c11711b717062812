package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recent activity",
	Args:  cobra.NoArgs,
	RunE:  runLog,
}

func init() {
	logCmd.Flags().IntVarP(&logLimit, "limit", "n", 20, "Number of entries to show (0 for all)")
}

func runLog(cmd *cobra.Command, args []string) error {
	source, err := openActivity()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	entries, err := source.Recent(ctx, logLimit)
	if err != nil {
		return fmt.Errorf("failed to read activity log: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No activity recorded yet.")
		if !source.viaDaemon() {
			fmt.Fprintln(out, styleHint.Render("The daemon is not running. Start it with `commitsense start`."))
		}
		return nil
	}
	printEntries(out, entries)
	return nil
}
