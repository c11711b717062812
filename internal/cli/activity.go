package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/commitsense/commitsense/internal/activity"
	"github.com/commitsense/commitsense/internal/config"
	"github.com/commitsense/commitsense/internal/models"
)

// activitySource reads and clears the log through the daemon when it is
// running. Otherwise nothing else writes the file, so the store is used directly.
type activitySource struct {
	client *Client
	store  *activity.Store
}

func openActivity() (*activitySource, error) {
	client, _, err := connectDaemon()
	if err != nil {
		return nil, err
	}

	settings, err := config.LoadSettings()
	if err != nil {
		return nil, err
	}
	path, err := config.ActivityLogFile()
	if err != nil {
		return nil, err
	}
	return &activitySource{
		client: client,
		store:  activity.NewStore(path, settings.Logging.MaxEntries),
	}, nil
}

func (a *activitySource) viaDaemon() bool {
	return a.client != nil
}

// Recent returns the last n entries in chronological order.
func (a *activitySource) Recent(ctx context.Context, n int) ([]models.LogEntry, error) {
	if a.client != nil {
		return a.client.Activity(ctx, n)
	}
	return a.store.ReadRecent(n)
}

// Clear deletes the log.
func (a *activitySource) Clear(ctx context.Context) error {
	if a.client != nil {
		return a.client.ClearActivity(ctx)
	}
	return a.store.Clear()
}

func printEntries(w io.Writer, entries []models.LogEntry) {
	for _, e := range entries {
		line := fmt.Sprintf("%s  %s  %s", styleLabel.Render(e.Timestamp), actionBadge(e.Action), e.FileName)
		if e.Content != "" {
			line += "  " + styleHint.Render(e.Content)
		}
		fmt.Fprintln(w, line)
	}
}

func actionBadge(a models.Action) string {
	label := fmt.Sprintf("%-8s", a)
	switch a {
	case models.ActionCreated:
		return badgeCreated.Render(label)
	case models.ActionModified:
		return badgeModified.Render(label)
	case models.ActionDeleted:
		return badgeDeleted.Render(label)
	default:
		return badgeSaved.Render(label)
	}
}
