// Package server wires the HTTP handlers, middleware and routes, and runs the
// HTTP server until its context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"go-firestore-portfolio/internal/config"
	feedbackHandler "go-firestore-portfolio/internal/handler/feedback"
	productHandler "go-firestore-portfolio/internal/handler/product"
	tagHandler "go-firestore-portfolio/internal/handler/tag"
	userInfoHandler "go-firestore-portfolio/internal/handler/userinfo"
	"go-firestore-portfolio/internal/middleware"
	"go-firestore-portfolio/internal/portfolio"
	"go-firestore-portfolio/internal/session"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	cnf     config.Http
	handler http.Handler
}

func New(cnf config.Http, svc *portfolio.Service, provider session.Provider, reg *prometheus.Registry) *Server {
	return &Server{
		cnf:     cnf,
		handler: otelhttp.NewHandler(routes(svc, provider, reg), "http.server"),
	}
}

func routes(svc *portfolio.Service, provider session.Provider, reg *prometheus.Registry) http.Handler {
	products := productHandler.New(svc)
	feedback := feedbackHandler.New(svc)
	users := userInfoHandler.New(svc)
	tags := tagHandler.New(svc)
	metrics := middleware.NewMetrics(reg)
	auth := middleware.RequireAuth(provider)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(metrics.Handler)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		// public reads
		r.Get("/products", products.List)
		r.Get("/products/{id}", products.Get)
		r.Get("/products/{id}/feedback", feedback.List)
		r.Get("/products/{id}/feedback/stream", feedback.Stream)
		r.Get("/users/{uid}", users.Get)
		r.Get("/users/{uid}/products", users.Products)
		r.Get("/tags", tags.Search)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/products", products.Create)
			r.Put("/products/{id}", products.Update)
			r.Delete("/products/{id}", products.Delete)
			r.Post("/products/{id}/like", products.Like)
			r.Post("/products/{id}/feedback", feedback.Post)
			r.Post("/feedback/{id}/like", feedback.Like)
			r.Put("/users/me", users.PutMe)
			r.Get("/session", users.Session)
		})
	})
	return r
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is done and then drains in-flight requests within the shutdown grace.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cnf.Port),
		Handler:      s.handler,
		ReadTimeout:  s.cnf.ReadTimeout,
		WriteTimeout: s.cnf.WriteTimeout,
		IdleTimeout:  s.cnf.IdleTimeout,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Int("port", s.cnf.Port).Msg("http server listening")
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cnf.ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info().Msg("http server stopped")
	return nil
}
