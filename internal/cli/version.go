package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/commitsense/commitsense/internal/buildinfo"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "  %s %s\n", styleBrand.Render("commitsense"), styleVersion.Render(buildinfo.Version))
		for _, row := range buildinfo.Details() {
			fmt.Fprintf(out, "    %s %s\n", styleLabel.Render(fmt.Sprintf("%-7s", row[0])), styleValue.Render(row[1]))
		}
		fmt.Fprintf(out, "    %s %s\n", styleLabel.Render("OS/Arch"), styleValue.Render(runtime.GOOS+"/"+runtime.GOARCH))
	},
}
