package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/vectra-core/internal/core/domain"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driven"
	"github.com/custodia-labs/vectra-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	retrievalService driving.RetrievalService
	docService       driving.DocumentService
	accessService    driving.AccessService
	progressService  driving.ProgressService
	settingsService  driving.SettingsService

	// Infrastructure
	tokenService driven.TokenService
	taskQueue    driven.TaskQueue
	db           Pinger // PostgreSQL health check
	redisClient  Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		Version:        "dev",
		AllowedOrigins: []string{"*"},
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	retrievalService driving.RetrievalService,
	docService driving.DocumentService,
	accessService driving.AccessService,
	progressService driving.ProgressService,
	settingsService driving.SettingsService,
	tokenService driven.TokenService,
	taskQueue driven.TaskQueue,
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	s := &Server{
		router:           http.NewServeMux(),
		version:          cfg.Version,
		retrievalService: retrievalService,
		docService:       docService,
		accessService:    accessService,
		progressService:  progressService,
		settingsService:  settingsService,
		tokenService:     tokenService,
		taskQueue:        taskQueue,
		db:               db,
		redisClient:      redisClient,
	}

	s.setupRoutes()

	handler := NewRecoveryMiddleware().Handler(
		NewLoggingMiddleware().Handler(
			NewCORSMiddleware(cfg.AllowedOrigins).Handler(s.router)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Create middleware
	authMiddleware := NewAuthMiddleware(s.tokenService)
	requireIngest := authMiddleware.RequireRole(domain.RoleAdmin, domain.RoleMember)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Retrieval endpoints (authenticated)
	s.router.Handle("POST /api/v1/embedding-dual-retrieval",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleDualRetrieval)))
	s.router.Handle("POST /api/v1/query",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleQuery)))

	// Document endpoints (ingestion requires admin or member)
	s.router.Handle("GET /api/v1/documents",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListDocuments)))
	s.router.Handle("POST /api/v1/documents",
		authMiddleware.Authenticate(
			requireIngest(http.HandlerFunc(s.handleRegisterDocument))))
	s.router.Handle("GET /api/v1/documents/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetDocument)))
	s.router.Handle("DELETE /api/v1/documents/{id}",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleDeleteDocument))))
	s.router.Handle("POST /api/v1/documents/{id}/reprocess",
		authMiddleware.Authenticate(
			requireIngest(http.HandlerFunc(s.handleReprocessDocument))))

	// Embedding progress endpoints
	s.router.Handle("POST /api/v1/embeddings/status",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleEmbeddingStatus)))
	s.router.Handle("POST /api/v1/embeddings/requeue",
		authMiddleware.Authenticate(
			requireIngest(http.HandlerFunc(s.handleRequeueEmbeddings))))

	// Access grant endpoints (mutations check admin-or-owner in the handler)
	s.router.Handle("GET /api/v1/access/grants",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListGrants)))
	s.router.Handle("POST /api/v1/access/grants",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleCreateGrant)))
	s.router.Handle("DELETE /api/v1/access/grants",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleDeleteGrant)))

	// AI settings endpoints (admin-only)
	s.router.Handle("GET /api/v1/settings/ai",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleGetAISettings))))
	s.router.Handle("PUT /api/v1/settings/ai",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleUpdateAISettings))))
	s.router.Handle("GET /api/v1/settings/ai/status",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetAIStatus)))
	s.router.Handle("POST /api/v1/settings/ai/test",
		authMiddleware.Authenticate(
			authMiddleware.RequireAdmin(http.HandlerFunc(s.handleTestAIConnection))))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-stop
	log.Println("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
