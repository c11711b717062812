package cli

import (
	"bufio"
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the activity log",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if !clearYes {
		reader := bufio.NewReader(cmd.InOrStdin())
		if !promptYesNo(reader, out, "Are you sure you want to clear the activity log?", false) {
			fmt.Fprintln(out, "Nothing cleared.")
			return nil
		}
	}

	source, err := openActivity()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	if err := source.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear activity log: %w", err)
	}

	fmt.Fprintln(out, styleSuccess.Render("✓ Activity log cleared"))
	return nil
}
