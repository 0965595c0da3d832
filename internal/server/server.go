// Package server exposes the HTTP API of the summarization service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"transcriptsum/internal/config"
	"transcriptsum/internal/metrics"
	"transcriptsum/internal/ratelimiter"
	"transcriptsum/internal/summarizer"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo              *echo.Echo
	addr              string
	summarizer        summarizer.Summarizer
	metrics           *metrics.Metrics
	rejectPersonalIDs bool
	log               *slog.Logger
}

func New(
	cfg config.Config,
	s summarizer.Summarizer,
	m *metrics.Metrics,
	rl *ratelimiter.RateLimiter,
	log *slog.Logger,
) *Server {
	srv := &Server{
		echo:              echo.New(),
		addr:              cfg.Addr,
		summarizer:        s,
		metrics:           m,
		rejectPersonalIDs: cfg.RejectPersonalIDs,
		log:               log,
	}

	srv.echo.HideBanner = true
	srv.echo.HidePort = true
	srv.echo.HTTPErrorHandler = srv.handleError
	// Client IP is taken from the connection, forwarded headers are ignored.
	srv.echo.IPExtractor = echo.ExtractIPDirect()

	srv.echo.Use(middleware.Recover())
	srv.echo.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	srv.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health" || c.Path() == "/metrics"
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.InfoContext(c.Request().Context(), "HTTP request is completed",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"requestID", v.RequestID,
				"remoteIP", v.RemoteIP,
				"error", v.Error)
			return nil
		},
	}))
	srv.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))
	srv.echo.Use(middleware.BodyLimit(cfg.BodyLimit))

	srv.echo.GET("/health", srv.handleHealth)
	srv.echo.GET("/metrics", echo.WrapHandler(m.Handler()))

	summarize := []echo.MiddlewareFunc{}
	if rl != nil {
		summarize = append(summarize, rl.Middleware())
	}
	srv.echo.POST("/summarize", srv.handleSummarize, summarize...)

	return srv
}

// ServeHTTP makes the server usable with httptest.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("HTTP server is listening",
		"addr", s.addr)

	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
