package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/artivio/artivio-chain/internal/api/middleware"
	"github.com/artivio/artivio-chain/internal/api/rest"
	"github.com/artivio/artivio-chain/internal/logger"
	"github.com/artivio/artivio-chain/internal/minting"
	"github.com/artivio/artivio-chain/internal/pinning"
	"github.com/artivio/artivio-chain/internal/ratelimit"
)

// Config holds the server configuration
type Config struct {
	Debug          bool
	Host           string
	Port           int
	BasePath       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
	Info           rest.ServiceInfo
}

// Server wraps the HTTP server
type Server struct {
	config        Config
	minting       minting.Service
	pinning       pinning.Client
	authenticator *middleware.Authenticator
	limiter       ratelimit.Limiter
	httpServer    *http.Server
}

// New creates a new API server. authenticator and limiter may be nil.
func New(cfg Config, mintingService minting.Service, pinningClient pinning.Client, authenticator *middleware.Authenticator, limiter ratelimit.Limiter) *Server {
	return &Server{
		config:        cfg,
		minting:       mintingService,
		pinning:       pinningClient,
		authenticator: authenticator,
		limiter:       limiter,
	}
}

// Router builds the gin engine with middleware and routes
func (s *Server) Router() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SetupCORS(s.config.AllowedOrigins))

	info := s.config.Info
	info.BasePath = s.config.BasePath
	handler := rest.NewHandler(s.config.Debug, info, s.minting, s.pinning)

	rest.SetupRoutes(router, handler, rest.RouteOptions{
		BasePath:      s.config.BasePath,
		Authenticator: s.authenticator,
		Limiter:       s.limiter,
	})

	return router
}

// Start initializes and starts the HTTP server
func (s *Server) Start() error {
	// Set Gin mode based on debug flag
	if s.config.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	logger.Info("Starting API server",
		zap.String("address", addr),
		zap.String("basePath", s.config.BasePath),
		zap.Bool("auth", s.authenticator != nil),
		zap.Bool("rateLimit", s.limiter != nil),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down API server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}

	return nil
}
