package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/commitsense/commitsense/internal/activity"
	"github.com/commitsense/commitsense/internal/config"
	"github.com/commitsense/commitsense/internal/generator"
	"github.com/commitsense/commitsense/internal/models"
	"github.com/commitsense/commitsense/internal/tui"
)

func useTempHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.HomeEnvVar, dir)
	return dir
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func seedLog(t *testing.T, names ...string) *activity.Store {
	t.Helper()
	path, err := config.ActivityLogFile()
	require.NoError(t, err)
	store := activity.NewStore(path, 100)
	for _, name := range names {
		require.NoError(t, store.Append(models.NewLogEntry(time.Now(), models.ActionModified, name)))
	}
	return store
}

func TestAskConsent(t *testing.T) {
	tests := []struct {
		input string
		want  consentChoice
	}{
		{"a\n", consentAllow},
		{"allow\n", consentAllow},
		{"Y\n", consentAllow},
		{"l\n", consentLearnMore},
		{"d\n", consentDeny},
		{"\n", consentDeny},
		{"", consentDeny},
		{"maybe\n", consentDeny},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			got := askConsent(bufio.NewReader(strings.NewReader(tt.input)), &out)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Your data stays local")
		})
	}
}

func TestEnsureConsent(t *testing.T) {
	t.Run("allow enables logging once", func(t *testing.T) {
		useTempHome(t)
		var out bytes.Buffer
		require.NoError(t, ensureConsent(bufio.NewReader(strings.NewReader("a\n")), &out))

		settings, err := config.LoadSettings()
		require.NoError(t, err)
		assert.True(t, settings.Logging.Enabled)

		state, err := config.LoadState()
		require.NoError(t, err)
		assert.True(t, state.AskedLoggingConsent)

		// Second call does not ask again.
		out.Reset()
		require.NoError(t, ensureConsent(bufio.NewReader(strings.NewReader("d\n")), &out))
		assert.Empty(t, out.String())
		settings, err = config.LoadSettings()
		require.NoError(t, err)
		assert.True(t, settings.Logging.Enabled)
	})

	t.Run("learn more leaves logging off", func(t *testing.T) {
		useTempHome(t)
		var out bytes.Buffer
		require.NoError(t, ensureConsent(bufio.NewReader(strings.NewReader("l\n")), &out))
		assert.Contains(t, out.String(), "never the file contents")

		settings, err := config.LoadSettings()
		require.NoError(t, err)
		assert.False(t, settings.Logging.Enabled)
	})
}

func TestPromptYesNo(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, promptYesNo(bufio.NewReader(strings.NewReader("yes\n")), &out, "Go?", false))
	assert.False(t, promptYesNo(bufio.NewReader(strings.NewReader("\n")), &out, "Go?", false))
	assert.True(t, promptYesNo(bufio.NewReader(strings.NewReader("\n")), &out, "Go?", true))
	assert.False(t, promptYesNo(bufio.NewReader(strings.NewReader("n\n")), &out, "Go?", true))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "********cdef", maskKey("sk-abcdef"))
	assert.Equal(t, "***", maskKey("abc"))
}

func TestReportSuggestError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantErr  bool
		wantText string
	}{
		{name: "nil", err: nil},
		{name: "cancelled", err: context.Canceled},
		{name: "no activity", err: tui.ErrNoActivity, wantText: noActivityWarning},
		{name: "missing key", err: generator.ErrMissingCredential, wantErr: true, wantText: "commitsense key set"},
		{name: "auth", err: generator.ErrAuthentication, wantErr: true, wantText: "Invalid API key"},
		{name: "generation", err: generator.ErrGeneration, wantErr: true, wantText: "Failed to generate commit message"},
		{name: "other", err: errors.New("boom"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := reportSuggestError(&out, tt.err)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantText != "" {
				assert.Contains(t, out.String(), tt.wantText)
			}
		})
	}
}

func TestClientAgainstDaemonAPI(t *testing.T) {
	var gotSaved models.SavedEvent
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/activity", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("n"))
		_ = json.NewEncoder(w).Encode(models.ActivityList{Entries: []models.LogEntry{{FileName: "a.go", Action: models.ActionCreated}}})
	})
	mux.HandleFunc("POST /v1/logging/enable", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.LoggingState{Enabled: true, Changed: true})
	})
	mux.HandleFunc("DELETE /v1/activity", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /v1/events/saved", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotSaved))
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("GET /v1/status", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(models.APIError{Error: "store unavailable"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := NewClient(srv.URL)
	ctx := context.Background()

	entries, err := c.Activity(ctx, 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.go", entries[0].FileName)

	state, err := c.SetLogging(ctx, true)
	require.NoError(t, err)
	assert.True(t, state.Enabled)

	require.NoError(t, c.ClearActivity(ctx))
	require.NoError(t, c.Saved(ctx, models.SavedEvent{Path: "/w/a.go", Lines: 2, Characters: 9}))
	assert.Equal(t, models.SavedEvent{Path: "/w/a.go", Lines: 2, Characters: 9}, gotSaved)

	_, err = c.Status(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "store unavailable", apiErr.Message)
}

func TestActivityWithoutDaemon(t *testing.T) {
	useTempHome(t)
	seedLog(t, "a.go", "b.go", "c.go")

	source, err := openActivity()
	require.NoError(t, err)
	assert.False(t, source.viaDaemon())

	entries, err := source.Recent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b.go", entries[0].FileName)
	assert.Equal(t, "c.go", entries[1].FileName)

	require.NoError(t, source.Clear(context.Background()))
	entries, err = source.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLogAndClearCommands(t *testing.T) {
	useTempHome(t)
	seedLog(t, "main.go")

	out, err := execute(t, "", "log", "-n", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "main.go")

	out, err = execute(t, "n\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing cleared.")

	out, err = execute(t, "y\n", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Activity log cleared")

	out, err = execute(t, "", "log")
	require.NoError(t, err)
	assert.Contains(t, out, "No activity recorded yet.")
}

func TestLoggingCommandsWithoutDaemon(t *testing.T) {
	useTempHome(t)

	_, err := execute(t, "", "logging", "enable")
	require.NoError(t, err)
	settings, err := config.LoadSettings()
	require.NoError(t, err)
	assert.True(t, settings.Logging.Enabled)

	out, err := execute(t, "", "logging", "toggle")
	require.NoError(t, err)
	assert.Contains(t, out, "disabled")
	settings, err = config.LoadSettings()
	require.NoError(t, err)
	assert.False(t, settings.Logging.Enabled)
}

func TestSettingsCommands(t *testing.T) {
	useTempHome(t)

	_, err := execute(t, "", "settings", "set", "generation.style", "gitmoji")
	require.NoError(t, err)

	out, err := execute(t, "", "settings", "get", "generation.style")
	require.NoError(t, err)
	assert.Equal(t, "gitmoji\n", out)

	_, err = execute(t, "", "settings", "set", "no.such.key", "x")
	assert.Error(t, err)

	_, err = execute(t, "", "settings", "set", "generation.style", "haiku")
	assert.ErrorContains(t, err, "unknown style")
}

func TestExecutePrintsUnreportedErrorsOnce(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetErr(&out)
	t.Cleanup(func() { rootCmd.SetErr(nil) })

	printError(rootCmd, errors.New("boom"))
	assert.Equal(t, 1, strings.Count(out.String(), "boom"))

	out.Reset()
	printError(rootCmd, reportSuggestError(&bytes.Buffer{}, generator.ErrMissingCredential))
	printError(rootCmd, nil)
	assert.Empty(t, out.String())
}

func TestSuggestWithUnavailableKeyring(t *testing.T) {
	useTempHome(t)
	keyring.MockInitWithError(errors.New("secret service not available"))
	t.Cleanup(keyring.MockInit)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("COMMITSENSE_API_KEY", "")
	seedLog(t, "main.go")

	out, err := execute(t, "", "suggest", "--print")
	require.ErrorIs(t, err, generator.ErrMissingCredential)
	assert.Contains(t, out, "commitsense key set")
	assert.Equal(t, 1, strings.Count(out, "API key"), "the hint is the only report")
}

func TestSuggestPrintWithoutActivity(t *testing.T) {
	useTempHome(t)
	keyring.MockInit()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("COMMITSENSE_API_KEY", "")

	out, err := execute(t, "", "suggest", "--print")
	require.NoError(t, err)
	assert.Contains(t, out, noActivityWarning)
}
