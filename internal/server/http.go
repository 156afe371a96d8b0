package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	"github.com/gokatarajesh/trivia-api/internal/question"
	"github.com/gokatarajesh/trivia-api/internal/quiz"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// Pinger is a dependency the /v1/ping endpoint checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Dependencies collects everything the router serves.
type Dependencies struct {
	Questions *question.HTTPHandlers
	Quiz      *quiz.HTTPHandler
	Metrics   *metrics.HTTP

	// AdminGuard wraps question create and delete. Nil leaves them open.
	AdminGuard func(http.Handler) http.Handler
	// RateLimit wraps write and quiz routes. Nil disables limiting.
	RateLimit func(http.Handler) http.Handler

	Pingers map[string]Pinger
}

// NewRouter wires middleware, health endpoints and the trivia routes.
func NewRouter(cfg *config.App, logger zerolog.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(recoverer)
	r.Use(CORS(cfg.CORS))
	r.Use(Deadline(cfg.RequestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondMethodNotAllowed(w)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}
	r.Get("/v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), deps.Pingers); err != nil {
			logger := logging.FromContext(r.Context())
			logger.Error().Err(err).Msg("dependency ping failed")
			httperrors.RespondError(w, http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	limited := passthrough(deps.RateLimit)
	guarded := passthrough(deps.AdminGuard)

	if h := deps.Questions; h != nil {
		r.Get("/categories", h.ListCategories)
		r.Get("/categories/{categoryID}/questions", h.QuestionsByCategory)
		r.Get("/questions", h.ListQuestions)
		r.With(limited).Post("/questions/search", h.SearchQuestions)
		r.With(limited, guarded).Post("/questions", h.CreateQuestion)
		r.With(limited, guarded).Delete("/questions/{questionID}", h.DeleteQuestion)
	}
	if h := deps.Quiz; h != nil {
		r.With(limited).Post("/quizzes", h.Play)
	}

	return r
}

// NewHTTPServer wraps the router in an http.Server bound to cfg.HTTPAddr.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps Dependencies) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, logger, deps),
		ReadHeaderTimeout: cfg.RequestTimeout,
	}
}

func passthrough(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}

func pingDependencies(ctx context.Context, pingers map[string]Pinger) error {
	for name, p := range pingers {
		if err := p.Ping(ctx); err != nil {
			return &pingError{name: name, err: err}
		}
	}
	return nil
}

type pingError struct {
	name string
	err  error
}

func (e *pingError) Error() string { return e.name + ": " + e.err.Error() }
func (e *pingError) Unwrap() error { return e.err }
