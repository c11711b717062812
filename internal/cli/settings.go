package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/commitsense/commitsense/internal/config"
	"github.com/commitsense/commitsense/internal/prompt"
)

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Aliases: []string{"config"},
	Short:   "Show or change settings",
	Long: `Show or change values in ~/.commitsense/settings.yaml by dotted key,
for example "generation.style" or "logging.exclude_patterns".

List values are given as a comma-separated string.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print all settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:       "get <key>",
	Short:     "Print one setting",
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.SettingKeys(),
	RunE:      runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:       "set <key> <value>",
	Short:     "Change one setting",
	Args:      cobra.ExactArgs(2),
	ValidArgs: config.SettingKeys(),
	RunE:      runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsShowCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to render settings: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	value, err := config.GetSetting(settings, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	if args[0] == "generation.style" && !slices.Contains(prompt.Styles(), args[1]) {
		return fmt.Errorf("unknown style %q (choose one of: %s)", args[1], strings.Join(prompt.Styles(), ", "))
	}
	if err := config.SetSetting(settings, args[0], args[1]); err != nil {
		return err
	}
	if err := config.SaveSettings(settings); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s = %s\n", styleSuccess.Render("✓"), args[0], args[1])
	if args[0] == "logging.exclude_patterns" {
		if _, info, _ := connectDaemon(); info != nil {
			fmt.Fprintln(out, styleHint.Render("Exclude patterns apply the next time the daemon starts."))
		}
	}
	return nil
}
