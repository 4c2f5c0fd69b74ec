// Package web exposes the gist search service over HTTP.
//
// Two endpoints: GET /ping for liveness and POST /api/v1/search accepting
// {username, pattern, case_sensitive?}. Failures are reported as
// {kind, message, status} envelopes with a mapped HTTP status.
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/custodia-labs/gistgrep/internal/core/ports/driving"
)

// Server is the HTTP adapter in front of the search service.
type Server struct {
	echo   *echo.Echo
	search driving.GistSearchService
}

// NewServer creates the HTTP server around a search service.
func NewServer(search driving.GistSearchService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	s := &Server{echo: e, search: search}
	s.registerMiddlewares()
	s.registerRoutes()
	s.echo.HTTPErrorHandler = s.errorHandler

	return s
}

func (s *Server) registerMiddlewares() {
	s.echo.Pre(middleware.RemoveTrailingSlash())
	s.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI: true, LogStatus: true, LogMethod: true, LogRequestID: true,
		LogValuesFunc: func(ctx echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().Str("uri", v.URI).Int("status", v.Status).Str("method", v.Method).
				Str("request_id", v.RequestID).Str("ip", ctx.RealIP()).
				TimeDiff("duration", time.Now(), v.StartTime).
				Msg("HTTP")
			return nil
		},
	}))
	s.echo.Use(middleware.Recover())
}

func (s *Server) registerRoutes() {
	s.echo.GET("/ping", s.ping)
	s.echo.POST("/api/v1/search", s.searchHandler)
}

// Start runs the server until it is closed or fails.
func (s *Server) Start(addr string) error {
	log.Info().Str("addr", addr).Msg("starting HTTP server")
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP makes the server usable directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
