// Package server exposes progress, reviews, mistakes and translation
// checking over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/abhisek/wordbloom/internal/progress"
	"github.com/abhisek/wordbloom/internal/translation"
	"github.com/abhisek/wordbloom/internal/validation"
)

// Server is the HTTP API.
type Server struct {
	echo    *echo.Echo
	tracker *progress.Tracker
	checker translation.Checker
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides time.Now for due-date computations.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New builds the API around tracker. checker may be nil, in which case
// translation checks always report unavailable.
func New(tracker *progress.Tracker, checker translation.Checker, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = requestValidator{}

	s := &Server{
		echo:    e,
		tracker: tracker,
		checker: checker,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				s.logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			s.logger.Debug("request", fields...)
			return nil
		},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.echo.Group("/api")

	api.GET("/progress", s.getProgress)
	api.PUT("/progress", s.putProgress)
	api.POST("/progress", s.putProgress)

	api.GET("/topics/:id/status", s.topicStatus)

	api.GET("/reviews/due", s.dueReviews)
	api.POST("/reviews/:topic/:kind/dismiss", s.dismissReview)

	api.GET("/mistakes", s.mistakes)
	api.POST("/mistakes/dismiss", s.dismissMistakes)

	api.POST("/check-translation", s.checkTranslation)
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown. It waits for the progress document
// to load first.
func (s *Server) Start(ctx context.Context, addr string) error {
	if err := s.tracker.WaitLoaded(ctx); err != nil {
		return err
	}
	s.logger.Info("http api listening", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

type requestValidator struct{}

func (requestValidator) Validate(i any) error {
	return validation.Struct(i)
}
