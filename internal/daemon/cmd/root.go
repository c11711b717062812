// Package cmd implements the commitsensed command line.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	foreground bool
	listenHost string
	listenPort int
	workspace  string
)

var rootCmd = &cobra.Command{
	Use:   "commitsensed",
	Short: "commitsense daemon",
	Long: `commitsensed watches a workspace for file activity, keeps the rolling
activity log and serves the loopback control API used by the commitsense CLI.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDaemon,
}

func init() {
	rootCmd.Flags().BoolVar(&foreground, "foreground", false, "Run in foreground with console logs and no system tray")
	rootCmd.Flags().StringVar(&listenHost, "host", "127.0.0.1", "Interface for the control API")
	rootCmd.Flags().IntVar(&listenPort, "port", 0, "Port for the control API (0 for dynamic allocation)")
	rootCmd.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace to watch (defaults to the current directory)")
}

// Execute runs the daemon command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Stderr.WriteString("commitsensed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
