// Package api exposes the scoring pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/aleister1102/phishlens/internal/assess"
	"github.com/aleister1102/phishlens/internal/auth"
	"github.com/aleister1102/phishlens/internal/config"
	"github.com/aleister1102/phishlens/internal/history"
	"github.com/aleister1102/phishlens/internal/metrics"
	"github.com/aleister1102/phishlens/internal/resources"
)

// AnonymousSubject is used for every request when auth is disabled.
const AnonymousSubject = "anonymous"

// MsgModelUnavailable is returned with 503 while no scorer is loaded.
const MsgModelUnavailable = "Model unavailable. System is initializing."

// ScorerStatus reports whether a scorer is loaded. scoring.Holder implements it.
type ScorerStatus interface {
	Available() bool
	Name() string
}

// HistoryStore persists and lists scan results. history.Store implements it.
type HistoryStore interface {
	Save(ctx context.Context, rec history.Record) (history.Record, error)
	List(ctx context.Context, q history.Query) ([]history.Record, error)
}

// Deps are the collaborators of the server. Pipeline is required; the rest are
// optional and disable their feature when nil.
type Deps struct {
	Pipeline *assess.Pipeline
	Scorer   ScorerStatus
	History  HistoryStore
	Issuer   *auth.Issuer
	Metrics  *metrics.Metrics
	Monitor  *resources.Monitor
}

// Server wraps the fiber app.
type Server struct {
	app    *fiber.App
	cfg    config.ServerConfig
	deps   Deps
	logger zerolog.Logger
}

// NewServer builds the app and registers every route.
func NewServer(cfg config.ServerConfig, deps Deps, logger zerolog.Logger) (*Server, error) {
	if deps.Pipeline == nil {
		return nil, errors.New("api: pipeline is required")
	}

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger.With().Str("component", "APIServer").Logger(),
	}

	bodyLimit := cfg.BodyLimitKB * 1024
	if bodyLimit <= 0 {
		bodyLimit = config.DefaultServerBodyLimitKB * 1024
	}

	s.app = fiber.New(fiber.Config{
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.ReadTimeout(),
		WriteTimeout:          cfg.WriteTimeout(),
		BodyLimit:             bodyLimit,
		AppName:               "phishlens",
	})

	s.app.Use(recover.New())
	s.app.Use(requestid.New())
	s.app.Use(s.requestLogger)

	s.app.Get("/health", s.health)
	s.app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	s.app.Post("/features", s.features)
	s.app.Post("/predict", s.authenticate, s.predict)
	s.app.Get("/history", s.authenticate, s.listHistory)

	return s, nil
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on addr until Shutdown.
func (s *Server) Listen(addr string) error {
	s.logger.Info().Str("addr", addr).Bool("auth", s.deps.Issuer != nil).Msg("API server listening")
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "An unexpected error occurred"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		status = fe.Code
		message = fe.Message
	} else {
		s.logger.Error().Err(err).Str("path", c.Path()).Msg("Unhandled request error")
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	if err != nil {
		// Render now so the logged status is the one the client sees.
		if hErr := s.errorHandler(c, err); hErr != nil {
			return hErr
		}
	}
	duration := time.Since(start)
	status := c.Response().StatusCode()

	route := c.Route().Path
	s.deps.Metrics.ObserveHTTPRequest(route, c.Method(), status, duration)

	requestID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
	event := s.logger.Debug()
	if status >= fiber.StatusInternalServerError {
		event = s.logger.Warn()
	}
	event.
		Str("request_id", requestID).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("duration", duration).
		Msg("Request served")
	return nil
}
