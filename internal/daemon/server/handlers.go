package server

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/commitsense/commitsense/internal/activity"
	"github.com/commitsense/commitsense/internal/log"
	"github.com/commitsense/commitsense/internal/models"
)

func (s *Server) registerRoutes() {
	v1 := s.router.Group("/v1")
	v1.GET("/status", s.getStatus)
	v1.POST("/logging/enable", s.setLogging(true))
	v1.POST("/logging/disable", s.setLogging(false))
	v1.POST("/logging/toggle", s.toggleLogging)
	v1.GET("/activity", s.listActivity)
	v1.DELETE("/activity", s.clearActivity)
	v1.POST("/events/saved", s.recordSaved)
	v1.POST("/shutdown", s.shutdown)
}

func abortWithError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, models.APIError{Error: err.Error()})
}

func (s *Server) getStatus(c *gin.Context) {
	status := s.session.Status()
	status.SessionID = s.sessionID
	status.Version = s.version()
	status.PID = os.Getpid()
	c.JSON(http.StatusOK, status)
}

func (s *Server) setLogging(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		changed, err := s.session.SetLogging(enabled)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, err)
			return
		}
		c.JSON(http.StatusOK, models.LoggingState{Enabled: enabled, Changed: changed})
	}
}

func (s *Server) toggleLogging(c *gin.Context) {
	enabled, err := s.session.ToggleLogging()
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, models.LoggingState{Enabled: enabled, Changed: true})
}

func (s *Server) listActivity(c *gin.Context) {
	n := 0
	if raw := c.Query("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			abortWithError(c, http.StatusBadRequest, errInvalidCount(raw))
			return
		}
		n = v
	}

	entries, err := s.session.Store().ReadRecent(n)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}
	if entries == nil {
		entries = []models.LogEntry{}
	}
	c.JSON(http.StatusOK, models.ActivityList{Entries: entries})
}

func (s *Server) clearActivity(c *gin.Context) {
	if err := s.session.Store().Clear(); err != nil {
		abortWithError(c, http.StatusInternalServerError, err)
		return
	}
	log.Info().Msg("activity log cleared")
	c.Status(http.StatusNoContent)
}

func (s *Server) recordSaved(c *gin.Context) {
	var ev models.SavedEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		abortWithError(c, http.StatusBadRequest, err)
		return
	}
	if ev.Path == "" {
		abortWithError(c, http.StatusBadRequest, errMissingPath)
		return
	}

	s.session.Recorder().HandleSave(activity.SavedDocument{
		Path:       ev.Path,
		Lines:      ev.Lines,
		Characters: ev.Characters,
	})
	c.Status(http.StatusAccepted)
}

func (s *Server) shutdown(c *gin.Context) {
	c.Status(http.StatusAccepted)
	go s.RequestShutdown()
}
