package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/commitsense/commitsense/internal/activity"
	"github.com/commitsense/commitsense/internal/models"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Editor integration hooks",
	Long: `Hooks for editors and tools that want to report events the file
watcher cannot see on its own.`,
}

var hookSavedCmd = &cobra.Command{
	Use:   "saved <file>",
	Short: "Report that a file was saved",
	Long: `Report a document save to the running daemon. Only the line and
character counts are sent, never the file contents.

Without a running daemon the event is dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: runHookSaved,
}

func init() {
	hookCmd.AddCommand(hookSavedCmd)
}

func runHookSaved(cmd *cobra.Command, args []string) error {
	client, _, err := connectDaemon()
	if err != nil || client == nil {
		return err
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	doc, err := activity.ReadDocument(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()
	return client.Saved(ctx, models.SavedEvent{
		Path:       doc.Path,
		Lines:      doc.Lines,
		Characters: doc.Characters,
	})
}
