// Package server exposes the industry matcher and catalog over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/config"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/model"
	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/service"
)

// Matcher classifies business descriptions.
type Matcher interface {
	Match(ctx context.Context, description string) (*model.MatchResult, error)
}

// Pinger reports catalog reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server serves the public API.
type Server struct {
	matcher Matcher
	catalog service.Catalog
	pinger  Pinger
	logger  *zap.Logger
	router  *gin.Engine
	cfg     config.ServerConfig
}

// New creates a Server. pinger may be nil, in which case /healthz skips the
// catalog check.
func New(cfg config.ServerConfig, m Matcher, catalog service.Catalog, pinger Pinger, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		matcher: m,
		catalog: catalog,
		pinger:  pinger,
		logger:  logger.Named("http"),
		cfg:     cfg,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(
		requestID(),
		requestLogger(s.logger),
		recovery(s.logger),
		cors(s.cfg.CORSOrigins),
		bodyLimit(s.cfg.MaxBodyBytes),
	)

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	api.POST("/match-industry", s.handleMatch)
	api.GET("/industries", s.handleListIndustries)
	api.GET("/industries/:slug", s.handleGetIndustry)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody("Not found."))
	})
	return r
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on cfg.Addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("shutting down", zap.Duration("timeout", timeout))
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
