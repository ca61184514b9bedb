// Package http provides the HTTP server adapter for the application layer.
// It is a thin layer translating requests to application service calls.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/leggyong/berkeley-expense2/internal/application/port"
	"github.com/leggyong/berkeley-expense2/internal/application/service"
)

// Logger interface for logging operations.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server is the HTTP server adapter.
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	handlers   *Handlers
	logger     Logger
}

// NewServer creates a new HTTP server wired to the given services.
func NewServer(
	config ServerConfig,
	directoryService service.DirectoryService,
	stagingService service.StagingService,
	claimService service.ClaimService,
	exportService service.ExportService,
	receiptStorage port.ReceiptStorage,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config: config,
		router: gin.New(),
		handlers: NewHandlers(
			directoryService,
			stagingService,
			claimService,
			exportService,
			receiptStorage,
			logger,
		),
		logger: logger,
	}

	server.setupMiddleware()
	server.setupRoutes()
	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "X-User-ID"},
		MaxAge:       12 * time.Hour,
	}))
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.HealthCheck)

	api := s.router.Group("/api/v1")

	// Unauthenticated: login screen data.
	api.GET("/users", s.handlers.ListUsers)
	api.GET("/catalog/categories", s.handlers.ListCategories)
	api.GET("/catalog/offices", s.handlers.ListOffices)
	api.GET("/catalog/currencies", s.handlers.ListCurrencies)

	// Everything below needs an active user.
	authed := api.Group("", s.handlers.RequireUser)
	{
		authed.POST("/receipts", s.handlers.UploadReceipt)
		authed.GET("/receipts/:ref/preview", s.handlers.PreviewReceipt)

		authed.POST("/expenses", s.handlers.StageExpense)
		authed.GET("/expenses", s.handlers.ListStagedExpenses)
		authed.DELETE("/expenses/:id", s.handlers.RemoveStagedExpense)

		authed.POST("/claims", s.handlers.SubmitClaim)
		authed.GET("/claims", s.handlers.ListClaims)
		authed.GET("/claims/:id", s.handlers.GetClaim)
		authed.POST("/claims/:id/approve", s.handlers.ApproveClaim)
		authed.POST("/claims/:id/reject", s.handlers.RejectClaim)
		authed.GET("/claims/:id/export", s.handlers.ExportClaim)

		authed.POST("/logout", s.handlers.Logout)
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// server fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing).
func (s *Server) Router() *gin.Engine {
	return s.router
}
