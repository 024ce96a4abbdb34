// Package server exposes the site's HTTP API: the chat endpoint, the catalog
// CRUD routes, and admin session handling.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cardsage/cardsage/catalog"
	"github.com/cardsage/cardsage/chat"
	"github.com/cardsage/cardsage/config"
	"github.com/cardsage/cardsage/internal/logging"
)

// ResponseGenerator is what the chat endpoint needs from the chat pipeline.
type ResponseGenerator interface {
	Generate(ctx context.Context, turns []chat.Turn) (*chat.Response, error)
}

type Server struct {
	cfg       *config.Config
	generator ResponseGenerator
	store     *catalog.Store
	sessions  *sessionManager
	logger    logging.Logger
}

// New builds the server. store may be nil when the service runs without a
// database; catalog routes are then not registered.
func New(cfg *config.Config, generator ResponseGenerator, store *catalog.Store, logger logging.Logger) *Server {
	return &Server{
		cfg:       cfg,
		generator: generator,
		store:     store,
		sessions:  newSessionManager(cfg.SessionSecret, cfg.AdminUser, cfg.AdminPassword),
		logger:    logger,
	}
}

// Router assembles the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.POST("/admin/login", s.handleLogin)
		api.POST("/admin/logout", s.handleLogout)
	}

	if s.store != nil {
		s.registerCatalogRoutes(api)
	}

	return router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
