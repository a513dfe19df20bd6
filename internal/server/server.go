package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/scribe-flow/internal/config"
	"github.com/nguyentantai21042004/scribe-flow/internal/logger"
	"github.com/nguyentantai21042004/scribe-flow/internal/pipeline"
	"github.com/nguyentantai21042004/scribe-flow/internal/store"
)

// Server is the HTTP front of the transcription service.
type Server struct {
	cfg        *config.Config
	store      *store.Store
	pipeline   pipeline.Pipeline
	logger     logger.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// New creates a Server with all routes and middleware registered.
func New(cfg *config.Config, st *store.Store, pipe pipeline.Pipeline, log logger.Logger) *Server {
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:      cfg,
		store:    st,
		pipeline: pipe,
		logger:   log,
		engine:   engine,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: engine,
		},
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.engine.Use(corsMiddleware(s.cfg.Server.AllowedOrigins))
	s.engine.GET("/health", s.handleHealth)

	authed := s.engine.Group("/", s.sessionMiddleware())
	authed.POST("/transcribe", s.handleTranscribe)
	authed.GET("/tasks", s.handleListTasks)
	authed.DELETE("/tasks/:id", s.handleDeleteTask)
	authed.GET("/tasks/:id/export", s.handleExportTask)
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start begins serving; it returns when the listener stops.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info(ctx, "HTTP server listening on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info(ctx, "HTTP server stopped")
	return nil
}
