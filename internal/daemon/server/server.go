// Package server implements the daemon's loopback control API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/commitsense/commitsense/internal/buildinfo"
	"github.com/commitsense/commitsense/internal/daemon/session"
	"github.com/commitsense/commitsense/internal/log"
)

// DefaultHost is the only interface the control API binds to by default.
const DefaultHost = "127.0.0.1"

// Server is the daemon's HTTP control server.
type Server struct {
	router    *gin.Engine
	http      *http.Server
	listener  net.Listener
	port      int
	session   *session.Manager
	sessionID string

	shutdownOnce sync.Once
	onShutdown   func()
}

// New creates a new server listening on host:port.
// Pass port 0 for dynamic allocation.
func New(host string, port int, mgr *session.Manager, sessionID string) (*Server, error) {
	if host == "" {
		host = DefaultHost
	}
	listener, err := (&net.ListenConfig{}).Listen(context.TODO(), "tcp", net.JoinHostPort(host, fmt.Sprint(port)))
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}

	srv := newServer(mgr, sessionID)
	srv.listener = listener
	srv.port = listener.Addr().(*net.TCPAddr).Port
	srv.http = &http.Server{
		Handler:  srv.router,
		ErrorLog: log.StdLogger(),
	}
	return srv, nil
}

// newServer builds the router without binding a socket.
func newServer(mgr *session.Manager, sessionID string) *Server {
	gin.SetMode(gin.ReleaseMode)

	srv := &Server{
		router:     gin.New(),
		session:    mgr,
		sessionID:  sessionID,
		onShutdown: requestSignalShutdown,
	}
	srv.router.Use(gin.Recovery())
	srv.router.Use(log.GinLogger())
	_ = srv.router.SetTrustedProxies(nil)
	srv.registerRoutes()
	return srv
}

// Port returns the port the server is listening on.
func (s *Server) Port() int {
	return s.port
}

// Handler returns the HTTP handler for the control API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// OnShutdown replaces the action taken by POST /v1/shutdown.
func (s *Server) OnShutdown(fn func()) {
	s.onShutdown = fn
}

// Serve starts serving requests. This blocks until Stop is called.
func (s *Server) Serve() error {
	err := s.http.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// RequestShutdown asks the daemon to exit. It only acts once.
func (s *Server) RequestShutdown() {
	s.shutdownOnce.Do(func() {
		if s.onShutdown != nil {
			s.onShutdown()
		}
	})
}

// requestSignalShutdown sends SIGINT to the current process so the main
// loop runs its normal shutdown path.
func requestSignalShutdown() {
	p, err := os.FindProcess(os.Getpid())
	if err != nil {
		return
	}
	_ = p.Signal(syscall.SIGINT)
}

func (s *Server) version() string {
	return buildinfo.Version
}

// TrayState adapts a Server to the tray.DaemonState interface.
type TrayState struct {
	srv *Server
}

// NewTrayState creates a TrayState for the given server.
func NewTrayState(srv *Server) *TrayState {
	return &TrayState{srv: srv}
}

// Port returns the port the server is listening on.
func (t *TrayState) Port() int {
	return t.srv.Port()
}

// Workspace returns the watched workspace root.
func (t *TrayState) Workspace() string {
	return t.srv.session.Workspace()
}

// LoggingEnabled reports whether activity logging is on.
func (t *TrayState) LoggingEnabled() bool {
	return t.srv.session.Controller().Enabled()
}

// EntryCount returns the number of logged entries.
func (t *TrayState) EntryCount() int {
	n, err := t.srv.session.Store().Count()
	if err != nil {
		return 0
	}
	return n
}

// ToggleLogging flips activity logging and persists it.
func (t *TrayState) ToggleLogging() (bool, error) {
	return t.srv.session.ToggleLogging()
}

// ClearActivity deletes the activity log.
func (t *TrayState) ClearActivity() error {
	return t.srv.session.Store().Clear()
}

// RequestShutdown triggers a graceful daemon shutdown.
func (t *TrayState) RequestShutdown() {
	t.srv.RequestShutdown()
}
