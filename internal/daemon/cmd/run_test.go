package cmd

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commitsense/commitsense/internal/activity"
	"github.com/commitsense/commitsense/internal/daemon/server"
	"github.com/commitsense/commitsense/internal/daemon/session"
	"github.com/commitsense/commitsense/internal/models"
)

func TestLazyDaemonStateBeforeStart(t *testing.T) {
	l := &lazyDaemonState{getSrv: func() *server.Server { return nil }}

	assert.Equal(t, 0, l.Port())
	assert.Empty(t, l.Workspace())
	assert.False(t, l.LoggingEnabled())
	assert.Equal(t, 0, l.EntryCount())
	_, err := l.ToggleLogging()
	assert.Error(t, err)
	assert.Error(t, l.ClearActivity())
	l.RequestShutdown()
}

func TestLazyDaemonStateSeesDaemonOnceStored(t *testing.T) {
	workspace := t.TempDir()
	store := activity.NewStore(filepath.Join(t.TempDir(), "activity.log"), 10)
	mgr := session.NewManager(workspace, models.NewSettings(), store)
	srv, err := server.New("127.0.0.1", 0, mgr, "session")
	require.NoError(t, err)
	go func() { _ = srv.Serve() }()
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	var current atomic.Pointer[daemon]
	l := &lazyDaemonState{getSrv: func() *server.Server {
		if d := current.Load(); d != nil {
			return d.server
		}
		return nil
	}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Port()
			_ = l.Workspace()
		}()
	}
	current.Store(&daemon{session: mgr, server: srv})
	wg.Wait()

	assert.Equal(t, srv.Port(), l.Port())
	assert.Equal(t, workspace, l.Workspace())
}
