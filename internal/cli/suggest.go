package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/commitsense/commitsense/internal/config"
	"github.com/commitsense/commitsense/internal/generator"
	"github.com/commitsense/commitsense/internal/models"
	"github.com/commitsense/commitsense/internal/prompt"
	"github.com/commitsense/commitsense/internal/tui"
	"github.com/commitsense/commitsense/internal/vcs"
)

const noActivityWarning = "No recent activity found. Make some code changes first!"

var suggestPrint bool

var suggestCmd = &cobra.Command{
	Use:     "suggest",
	Aliases: []string{"generate"},
	Short:   "Generate a commit message from recent activity",
	Long: `Generate a commit message from the most recent activity entries.

In a terminal the suggestion is shown in a picker where it can be copied,
committed with the staged changes of the current repository, or regenerated.
With --print, or when output is not a terminal, only the message is printed.`,
	Args: cobra.NoArgs,
	RunE: runSuggest,
}

func init() {
	suggestCmd.Flags().BoolVarP(&suggestPrint, "print", "p", false, "Print the message instead of opening the picker")
}

// suggester holds what one suggestion run needs.
type suggester struct {
	settings *models.Settings
	source   *activitySource
	gen      *generator.Generator
}

func newSuggester() (*suggester, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	source, err := openActivity()
	if err != nil {
		return nil, err
	}
	apiKey, _, err := config.ResolveAPIKey()
	if err != nil {
		return nil, err
	}

	return &suggester{
		settings: settings,
		source:   source,
		gen: generator.New(generator.Config{
			APIKey:  apiKey,
			Model:   settings.Generation.Model,
			BaseURL: settings.Generation.BaseURL,
		}),
	}, nil
}

func (s *suggester) readActivity(ctx context.Context) ([]models.LogEntry, error) {
	return s.source.Recent(ctx, s.settings.Generation.RecentEntries)
}

func (s *suggester) generate(ctx context.Context, entries []models.LogEntry) (*models.CommitMessage, error) {
	p := prompt.Build(entries, s.settings.Generation.Style, s.settings.Generation.CustomPrompt)
	return s.gen.Generate(ctx, p)
}

func runSuggest(cmd *cobra.Command, args []string) error {
	s, err := newSuggester()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if suggestPrint || !isInteractive() {
		return suggestPlain(ctx, s, out, cmd.ErrOrStderr())
	}

	outcome, err := tui.Run(ctx, tui.Flow{
		ReadActivity: func() ([]models.LogEntry, error) { return s.readActivity(ctx) },
		Generate:     s.generate,
		Copy:         clipboard.WriteAll,
		Commit:       commitStaged,
	})
	if err != nil {
		return err
	}
	return reportSuggestError(cmd.ErrOrStderr(), outcome.Err)
}

func suggestPlain(ctx context.Context, s *suggester, out, errOut io.Writer) error {
	entries, err := s.readActivity(ctx)
	if err != nil {
		return reportSuggestError(errOut, fmt.Errorf("failed to read activity log: %w", err))
	}
	if len(entries) == 0 {
		return reportSuggestError(errOut, tui.ErrNoActivity)
	}

	msg, err := s.generate(ctx, entries)
	if err != nil {
		return reportSuggestError(errOut, err)
	}
	fmt.Fprintln(out, msg.Message)
	return nil
}

// reportSuggestError prints a hint for err and decides the exit status. An
// empty activity window and a cancelled picker are not failures.
func reportSuggestError(w io.Writer, err error) error {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return nil
	case errors.Is(err, tui.ErrNoActivity):
		fmt.Fprintln(w, styleWarning.Render(noActivityWarning))
		return nil
	case errors.Is(err, generator.ErrMissingCredential):
		fmt.Fprintln(w, styleError.Render("No API key configured.")+" "+
			styleHint.Render("Run `commitsense key set` or set OPENAI_API_KEY."))
	case errors.Is(err, generator.ErrAuthentication):
		fmt.Fprintln(w, styleError.Render("Invalid API key.")+" "+
			styleHint.Render("Check it with `commitsense key status` and replace it with `commitsense key set`."))
	case errors.Is(err, generator.ErrGeneration):
		fmt.Fprintln(w, styleError.Render("Failed to generate commit message."))
	default:
		return err
	}
	return &reportedError{err: err}
}

// commitStaged commits the staged changes of the repository containing the
// current directory.
func commitStaged(message string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	repo, err := vcs.Open(wd)
	if err != nil {
		return "", err
	}
	return repo.Commit(message)
}
