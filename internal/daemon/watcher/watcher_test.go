package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitsense/commitsense/internal/ignore"
	"github.com/commitsense/commitsense/internal/models"
)

type recordedEvent struct {
	action models.Action
	path   string
}

type captureHandler struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (h *captureHandler) HandleFileEvent(action models.Action, absPath string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, recordedEvent{action: action, path: absPath})
}

func (h *captureHandler) snapshot() []recordedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]recordedEvent(nil), h.events...)
}

func (h *captureHandler) has(action models.Action, path string) bool {
	for _, e := range h.snapshot() {
		if e.action == action && e.path == path {
			return true
		}
	}
	return false
}

func startWatcher(t *testing.T, root string, patterns []string) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	w, err := New(root, ignore.New(patterns), h, 20*time.Millisecond)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)
	return h
}

func TestActionFor(t *testing.T) {
	tests := []struct {
		op     fsnotify.Op
		want   models.Action
		wantOK bool
	}{
		{fsnotify.Create, models.ActionCreated, true},
		{fsnotify.Write, models.ActionModified, true},
		{fsnotify.Remove, models.ActionDeleted, true},
		{fsnotify.Rename, models.ActionDeleted, true},
		{fsnotify.Chmod, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			got, ok := actionFor(tt.op)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMerge(t *testing.T) {
	assert.Equal(t, models.ActionCreated, merge(models.ActionCreated, models.ActionModified))
	assert.Equal(t, models.ActionDeleted, merge(models.ActionCreated, models.ActionDeleted))
	assert.Equal(t, models.ActionModified, merge(models.ActionModified, models.ActionModified))
	assert.Equal(t, models.ActionCreated, merge(models.ActionDeleted, models.ActionCreated))
}

func TestWatcherReportsCreateAndDelete(t *testing.T) {
	root := t.TempDir()
	h := startWatcher(t, root, nil)

	file := filepath.Join(root, "main.go")
	require.NoError(t, os.WriteFile(file, []byte("package main\n"), 0644))
	require.Eventually(t, func() bool { return h.has(models.ActionCreated, file) }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.Remove(file))
	require.Eventually(t, func() bool { return h.has(models.ActionDeleted, file) }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	h := startWatcher(t, root, nil)

	dir := filepath.Join(root, "pkg")
	require.NoError(t, os.Mkdir(dir, 0755))
	// Give the watcher time to add the new directory.
	time.Sleep(100 * time.Millisecond)

	file := filepath.Join(dir, "util.go")
	require.NoError(t, os.WriteFile(file, []byte("package pkg\n"), 0644))
	require.Eventually(t, func() bool { return h.has(models.ActionCreated, file) }, 2*time.Second, 10*time.Millisecond)

	for _, e := range h.snapshot() {
		assert.NotEqual(t, dir, e.path, "directories themselves are not reported")
	}
}

func TestWatcherSkipsExcludedDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "build"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "node_modules", "x"), 0755))
	h := startWatcher(t, root, []string{"build/"})

	require.NoError(t, os.WriteFile(filepath.Join(root, "build", "out.bin"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "x", "i.js"), []byte("x"), 0644))
	marker := filepath.Join(root, "marker.txt")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0644))

	require.Eventually(t, func() bool { return h.has(models.ActionCreated, marker) }, 2*time.Second, 10*time.Millisecond)
	for _, e := range h.snapshot() {
		assert.Equal(t, marker, e.path)
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w, err := New(t.TempDir(), nil, &captureHandler{}, 0)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	w.Stop()
	w.Stop()
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "settings.yaml")

	var mu sync.Mutex
	calls := 0
	fw, err := WatchFile(target, 20*time.Millisecond, func() {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)
	defer fw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("a: 1\n"), 0644))
	require.NoError(t, os.WriteFile(target, []byte("a: 1\n"), 0644))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 1
	}, 2*time.Second, 10*time.Millisecond)
}
