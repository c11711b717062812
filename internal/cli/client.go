package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/commitsense/commitsense/internal/buildinfo"
	"github.com/commitsense/commitsense/internal/config"
	"github.com/commitsense/commitsense/internal/models"
)

const requestTimeout = 5 * time.Second

// APIError is a non-2xx response from the daemon.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("daemon returned %d", e.StatusCode)
	}
	return fmt.Sprintf("daemon returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to the daemon's control API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL, e.g. http://127.0.0.1:41234.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// connectDaemon returns a client for the running daemon, or nil if none is running.
func connectDaemon() (*Client, *models.DaemonInfo, error) {
	running, info, err := config.IsDaemonRunning()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running || info == nil {
		return nil, nil, nil
	}
	return NewClient(config.DaemonURL(info)), info, nil
}

// Status fetches the daemon status.
func (c *Client) Status(ctx context.Context) (*models.DaemonStatus, error) {
	var status models.DaemonStatus
	if err := c.do(ctx, http.MethodGet, "/v1/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SetLogging enables or disables activity logging.
func (c *Client) SetLogging(ctx context.Context, enabled bool) (*models.LoggingState, error) {
	path := "/v1/logging/disable"
	if enabled {
		path = "/v1/logging/enable"
	}
	var state models.LoggingState
	if err := c.do(ctx, http.MethodPost, path, nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// ToggleLogging flips activity logging.
func (c *Client) ToggleLogging(ctx context.Context) (*models.LoggingState, error) {
	var state models.LoggingState
	if err := c.do(ctx, http.MethodPost, "/v1/logging/toggle", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Activity returns the last n entries; n <= 0 returns all.
func (c *Client) Activity(ctx context.Context, n int) ([]models.LogEntry, error) {
	path := "/v1/activity"
	if n > 0 {
		path += "?" + url.Values{"n": {strconv.Itoa(n)}}.Encode()
	}
	var list models.ActivityList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return list.Entries, nil
}

// ClearActivity deletes the activity log.
func (c *Client) ClearActivity(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/v1/activity", nil, nil)
}

// Saved reports a document save.
func (c *Client) Saved(ctx context.Context, ev models.SavedEvent) error {
	return c.do(ctx, http.MethodPost, "/v1/events/saved", ev, nil)
}

// Shutdown asks the daemon to exit.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/v1/shutdown", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var payload models.APIError
		if json.NewDecoder(resp.Body).Decode(&payload) == nil {
			apiErr.Message = payload.Error
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode daemon response: %w", err)
	}
	return nil
}
