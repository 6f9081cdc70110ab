package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/family-calendar-sync/database"
	"github.com/your-org/family-calendar-sync/models"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing user_id"})
		return uuid.Nil, false
	}
	return id, true
}

// handleConnect redirects the user to the Google consent screen.
func (s *Server) handleConnect(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, s.google.AuthorizationURL(userID))
}

// handleCallback completes the authorization-code exchange and creates the
// credential record, then kicks off the first sync in the background.
func (s *Server) handleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state or code parameter"})
		return
	}

	integration, err := s.google.HandleCallback(c.Request.Context(), state, code)
	if err != nil {
		s.logger.WithError(err).Error("Failed to complete Google OAuth callback")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete authorization"})
		return
	}

	s.queue.Enqueue(integration.UserID)

	c.JSON(http.StatusOK, gin.H{
		"connected": true,
		"email":     integration.Email,
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	integration, err := s.store.GetByUserID(c.Request.Context(), userID, models.ProviderGoogle)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if integration == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": true, "integration": integration})
}

type settingsRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
	database.SettingsPatch
}

func (s *Server) handleSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	integration, err := s.store.UpdateSettings(c.Request.Context(), req.UserID, models.ProviderGoogle, req.SettingsPatch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if integration == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not connected"})
		return
	}

	// Re-enabling outbound sync should take effect promptly.
	if integration.SyncEnabled && integration.SyncTasksToCalendar {
		s.queue.Enqueue(req.UserID)
	}

	c.JSON(http.StatusOK, integration)
}

func (s *Server) handleDisconnect(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}
	if err := s.google.Disconnect(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"connected": false})
}

type syncRequest struct {
	UserID uuid.UUID `json:"userId" binding:"required"`
}

// handleSyncNow enqueues a fire-and-forget sync. The caller gets an
// acknowledgement, never the sync outcome; outcomes land on the integration
// record.
func (s *Server) handleSyncNow(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	queued := s.queue.Enqueue(req.UserID)
	c.JSON(http.StatusAccepted, gin.H{"queued": queued})
}
