// Package cli implements the commitsense CLI commands.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "commitsense",
	Short: "Suggest commit messages from your recent coding activity",
	Long: `commitsense keeps a small local log of the files you create, edit and
delete in a workspace, and turns that activity into a commit message
suggestion on demand. The log never leaves your machine; only the file
names and actions are sent when you ask for a suggestion.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// reportedError marks an error whose message has already been shown.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }

// Execute runs the CLI. Errors not already shown by a command are printed once.
func Execute() error {
	err := rootCmd.Execute()
	printError(rootCmd, err)
	return err
}

func printError(cmd *cobra.Command, err error) {
	var reported *reportedError
	if err == nil || errors.As(err, &reported) {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), styleError.Render("Error:")+" "+err.Error())
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(loggingCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(versionCmd)
}
