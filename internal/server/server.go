package server

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	sentryzerolog "github.com/getsentry/sentry-go/zerolog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"go.uber.org/fx"

	"github.com/andrasnagy-data/greenplate/internal/pages"
	"github.com/andrasnagy-data/greenplate/internal/shared/config"
	"github.com/andrasnagy-data/greenplate/internal/shared/session"
	"github.com/andrasnagy-data/greenplate/internal/view"
)

type (
	// Server represents the HTTP server with all dependencies
	Server struct {
		server       *http.Server
		config       *config.Config
		logger       zerolog.Logger
		sentryWriter *sentryzerolog.Writer
	}

	params struct {
		fx.In

		Config         *config.Config
		Logger         zerolog.Logger
		HealthHandler  http.HandlerFunc
		SentryWriter   *sentryzerolog.Writer
		SessionBackend session.Backend
		Renderer       *view.Renderer
		Controllers    []pages.Controller `group:"controllers"`
	}
)

func NewServer(p params) (*Server, error) {
	registry, err := pages.NewRegistry(p.Controllers...)
	if err != nil {
		return nil, fmt.Errorf("register pages: %w", err)
	}

	r := chi.NewRouter()

	if p.Config.IsEnvProd() {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              p.Config.SentryDSN,
			Environment:      p.Config.Environment,
			Release:          p.Config.Version,
			AttachStacktrace: true,
			SendDefaultPII:   true,
			EnableTracing:    true,
			TracesSampler: sentry.TracesSampler(func(ctx sentry.SamplingContext) float64 {
				if ctx.Span.Name == "GET /health" {
					return 0.0
				}
				return 1.0
			}),
		})
		if err != nil {
			p.Logger.Error().Err(err).Msg("Failed to initialize Sentry")
		} else {
			p.Logger.Debug().Str("environment", p.Config.Environment).Msg("Sentry initialized")
		}

		// Recover only in prod
		r.Use(sentryhttp.New(sentryhttp.Options{}).Handle)
	}

	// Middleware
	r.Use(hlog.NewHandler(p.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("url", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Bool("htmx", r.Header.Get("HX-Request") == "true").
			Msg("HTTP request")
	}))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	// Pages and fragments are same-origin; cross-origin callers must be listed.
	if len(p.Config.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   p.Config.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "HX-Request", "HX-Target", "HX-Trigger", "HX-Current-URL"},
			ExposedHeaders:   []string{"HX-Redirect", "HX-Retarget", "HX-Reswap"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Routes
	r.Get("/health", p.HealthHandler)

	r.Group(func(r chi.Router) {
		r.Use(session.Middleware(p.SessionBackend))
		registry.Mount(r)
	})

	r.NotFound(notFound(p.Renderer))

	p.Logger.Debug().Int("pages", len(p.Controllers)).Msg("Pages registered")

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", p.Config.Port),
		Handler: r,
	}

	return &Server{
		config:       p.Config,
		logger:       p.Logger,
		server:       server,
		sentryWriter: p.SentryWriter,
	}, nil
}

// notFound renders the not-found page without touching the session.
func notFound(renderer *view.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		hlog.FromRequest(r).Debug().Str("path", r.URL.Path).Msg("Unknown page")

		var buf bytes.Buffer
		if err := renderer.Page(&buf, "not-found", view.PageData{Title: "Not Found"}); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("Failed to render template")
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = buf.WriteTo(w)
	}
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Register ties the server to the application lifecycle.
func Register(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: s.start,
		OnStop:  s.stop,
	})
}

// start starts the HTTP server
func (s *Server) start(_ context.Context) error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Str("environment", s.config.Environment).
		Str("api_url", s.config.APIURL).
		Str("session_backend", s.config.SessionBackend).
		Bool("sentry_enabled", s.config.IsEnvProd()).
		Msg("Starting HTTP server")
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("Server failed to start")
		}
	}()

	s.logger.Info().Msg("HTTP server started")
	return nil
}

// stop gracefully shuts down the HTTP server
func (s *Server) stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	s.logger.Info().Msg("Shutting down HTTP server...")

	if s.config.IsEnvProd() {
		s.logger.Info().Msg("Flushing Sentry client and writer")
		if s.sentryWriter != nil {
			s.sentryWriter.Close()
		}
		sentry.Flush(2 * time.Second)
	}

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error during server shutdown")
		return err
	}

	s.logger.Info().Msg("HTTP server shutdown completed")
	return nil
}
