package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/commitsense/commitsense/internal/config"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the API key",
	Long: `Manage the chat-completion API key.

The key is looked up in COMMITSENSE_API_KEY, then OPENAI_API_KEY (either may
come from ~/.commitsense/.env), then the OS keyring.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set [key]",
	Short: "Store the API key in the OS keyring",
	Long: `Store the API key in the OS keyring. Without an argument the key is
read from the terminal without echo, or from stdin when piped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKeySet,
}

var keyDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the API key from the OS keyring",
	Args:  cobra.NoArgs,
	RunE:  runKeyDelete,
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the API key comes from",
	Args:  cobra.NoArgs,
	RunE:  runKeyStatus,
}

func init() {
	keyCmd.AddCommand(keyDeleteCmd)
	keyCmd.AddCommand(keySetCmd)
	keyCmd.AddCommand(keyStatusCmd)
}

func runKeySet(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var key string
	switch {
	case len(args) == 1:
		key = args[0]
	case isInteractive():
		fmt.Fprint(out, "API key: ")
		secret, err := readSecret()
		fmt.Fprintln(out)
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		key = secret
	default:
		line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		key = line
	}

	if err := config.StoreAPIKey(key); err != nil {
		return err
	}
	fmt.Fprintln(out, styleSuccess.Render("✓ API key stored in the OS keyring"))
	return nil
}

func runKeyDelete(cmd *cobra.Command, args []string) error {
	if err := config.DeleteAPIKey(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render("✓ API key removed from the OS keyring"))
	return nil
}

func runKeyStatus(cmd *cobra.Command, args []string) error {
	key, source, err := config.ResolveAPIKey()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if source == config.CredentialNone {
		fmt.Fprintln(out, styleWarning.Render("No API key configured.")+" "+
			styleHint.Render("Run `commitsense key set`."))
		return nil
	}
	fmt.Fprintf(out, "API key %s from %s\n", styleValue.Render(maskKey(key)), string(source))
	return nil
}

// maskKey keeps only the last four characters visible.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 8) + key[len(key)-4:]
}
