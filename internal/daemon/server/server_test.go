package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitsense/commitsense/internal/activity"
	"github.com/commitsense/commitsense/internal/daemon/session"
	"github.com/commitsense/commitsense/internal/models"
)

func newTestServer(t *testing.T) (*Server, *session.Manager, string) {
	t.Helper()
	t.Setenv("COMMITSENSE_HOME", t.TempDir())

	workspace := t.TempDir()
	store := activity.NewStore(filepath.Join(t.TempDir(), "activity.log"), 100)
	mgr := session.NewManager(workspace, models.NewSettings(), store)
	t.Cleanup(mgr.Stop)

	return newServer(mgr, "session-1"), mgr, workspace
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestStatus(t *testing.T) {
	srv, _, workspace := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	status := decode[models.DaemonStatus](t, rec)
	assert.False(t, status.LoggingEnabled)
	assert.Equal(t, workspace, status.Workspace)
	assert.Equal(t, "session-1", status.SessionID)
	assert.Equal(t, 0, status.Entries)
	assert.Equal(t, 100, status.MaxEntries)
}

func TestLoggingEndpoints(t *testing.T) {
	srv, mgr, _ := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/v1/logging/enable", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.LoggingState{Enabled: true, Changed: true}, decode[models.LoggingState](t, rec))
	assert.True(t, mgr.Controller().Enabled())

	rec = do(t, srv, http.MethodPost, "/v1/logging/enable", nil)
	assert.Equal(t, models.LoggingState{Enabled: true, Changed: false}, decode[models.LoggingState](t, rec))

	rec = do(t, srv, http.MethodPost, "/v1/logging/toggle", nil)
	assert.Equal(t, models.LoggingState{Enabled: false, Changed: true}, decode[models.LoggingState](t, rec))

	rec = do(t, srv, http.MethodPost, "/v1/logging/disable", nil)
	assert.Equal(t, models.LoggingState{Enabled: false, Changed: false}, decode[models.LoggingState](t, rec))
}

func TestSavedEventAndActivity(t *testing.T) {
	srv, _, workspace := newTestServer(t)

	ev := models.SavedEvent{Path: filepath.Join(workspace, "main.go"), Lines: 3, Characters: 20}

	// Disabled logging drops the save.
	rec := do(t, srv, http.MethodPost, "/v1/events/saved", ev)
	require.Equal(t, http.StatusAccepted, rec.Code)

	do(t, srv, http.MethodPost, "/v1/logging/enable", nil)
	do(t, srv, http.MethodPost, "/v1/events/saved", ev)
	do(t, srv, http.MethodPost, "/v1/events/saved", models.SavedEvent{Path: filepath.Join(workspace, ".env"), Lines: 1, Characters: 5})

	rec = do(t, srv, http.MethodGet, "/v1/activity?n=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[models.ActivityList](t, rec)
	require.Len(t, list.Entries, 1)
	assert.Equal(t, "main.go", list.Entries[0].FileName)
	assert.Equal(t, models.ActionSaved, list.Entries[0].Action)
	assert.Equal(t, "Lines: 3, Characters: 20", list.Entries[0].Content)

	rec = do(t, srv, http.MethodDelete, "/v1/activity", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/v1/activity", nil)
	assert.Empty(t, decode[models.ActivityList](t, rec).Entries)

	rec = do(t, srv, http.MethodDelete, "/v1/activity", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, "clearing twice is fine")
}

func TestBadRequests(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
	}{
		{"negative count", http.MethodGet, "/v1/activity?n=-1", nil},
		{"non-numeric count", http.MethodGet, "/v1/activity?n=abc", nil},
		{"missing path", http.MethodPost, "/v1/events/saved", models.SavedEvent{Lines: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[models.APIError](t, rec).Error)
		})
	}
}

func TestShutdownRunsOnce(t *testing.T) {
	srv, _, _ := newTestServer(t)
	calls := make(chan struct{}, 2)
	srv.OnShutdown(func() { calls <- struct{}{} })

	assert.Equal(t, http.StatusAccepted, do(t, srv, http.MethodPost, "/v1/shutdown", nil).Code)
	do(t, srv, http.MethodPost, "/v1/shutdown", nil)

	select {
	case <-calls:
	case <-time.After(time.Second):
		t.Fatal("shutdown hook not called")
	}
	select {
	case <-calls:
		t.Fatal("shutdown hook called twice")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestTrayState(t *testing.T) {
	srv, _, workspace := newTestServer(t)
	ts := NewTrayState(srv)

	assert.Equal(t, workspace, ts.Workspace())
	assert.False(t, ts.LoggingEnabled())

	enabled, err := ts.ToggleLogging()
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.True(t, ts.LoggingEnabled())
	assert.Equal(t, 0, ts.EntryCount())
	assert.NoError(t, ts.ClearActivity())
}
