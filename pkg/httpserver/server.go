package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valory-xyz/olas-predict/pkg/healthprobe"
	"go.uber.org/zap"
)

// Server provides the JSON API plus metrics and health endpoints.
type Server struct {
	server        *http.Server
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
}

// Config holds server configuration.
// API routes are mounted only for the components provided.
type Config struct {
	Port          string
	Logger        *zap.Logger
	HealthChecker *healthprobe.HealthChecker
	Bets          BetResolver
	LiveAgents    LiveAgentsProvider
	OGImages      OGImageResolver
	Warmer        PageWarmer
	CronSecret    string
}

// New creates a new HTTP server.
func New(cfg *Config) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/health", cfg.HealthChecker.Health())
	r.Get("/ready", cfg.HealthChecker.Ready())

	h := &Handler{
		bets:       cfg.Bets,
		liveAgents: cfg.LiveAgents,
		ogImages:   cfg.OGImages,
		warmer:     cfg.Warmer,
		cronSecret: cfg.CronSecret,
		logger:     cfg.Logger,
	}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			if cfg.Bets != nil {
				r.Get("/bets/{id}", h.HandleBet)
			}
			if cfg.Bets != nil && cfg.OGImages != nil {
				r.Get("/agents/{agent}/achievement", h.HandleAchievement)
			}
			if cfg.OGImages != nil {
				r.Get("/agents/{agent}/achievement/og-image", h.HandleOGImage)
			}
			if cfg.LiveAgents != nil {
				r.Get("/live-agents", h.HandleLiveAgents)
			}
		})

		// Page warming fans out to many requests and gets its own budget.
		if cfg.Warmer != nil {
			r.With(middleware.Timeout(5*time.Minute)).HandleFunc("/prerender-achievements", h.HandlePrerender)
		}
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      6 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{
		server:        server,
		logger:        cfg.Logger,
		healthChecker: cfg.HealthChecker,
	}
}

// Handler returns the router, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
// This is a blocking call that returns when the server stops or encounters an error.
func (s *Server) Start() error {
	s.logger.Info("http-server-starting", zap.String("addr", s.server.Addr))

	err := s.server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http-server-shutting-down")

	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("http-server-shutdown-complete")
	return nil
}
