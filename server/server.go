// Package server exposes the operational surface that triggers the sync
// engine: the OAuth connect flow, integration settings, and the immediate
// sync trigger.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/your-org/family-calendar-sync/auth"
	"github.com/your-org/family-calendar-sync/database"
	"github.com/your-org/family-calendar-sync/sync"
)

// Server is the HTTP front of the sync service
type Server struct {
	router *gin.Engine
	google *auth.GoogleService
	store  *database.IntegrationStore
	queue  *sync.Queue
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(google *auth.GoogleService, store *database.IntegrationStore, queue *sync.Queue, logger *logrus.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		google: google,
		store:  store,
		queue:  queue,
		logger: logger,
	}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		integrations := api.Group("/integrations/google")
		{
			integrations.GET("/connect", s.handleConnect)
			integrations.GET("/callback", s.handleCallback)
			integrations.GET("/status", s.handleStatus)
			integrations.PUT("/settings", s.handleSettings)
			integrations.DELETE("", s.handleDisconnect)
		}
		api.POST("/sync", s.handleSyncNow)
	}

	return s
}

// Run starts the HTTP server
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
