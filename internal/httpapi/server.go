// Package httpapi exposes the planner over a JSON HTTP API.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"family-meal-planner/internal/app"
	"family-meal-planner/internal/metrics"
)

// Planner is the application surface the API serves.
type Planner interface {
	GenerateMealPlan(ctx context.Context, userID string, pr app.PlanRequest) (*app.PlanResult, error)
	SharedPlan(ctx context.Context, token string) (*app.PlanResult, error)
	Recipes() ([]app.RecipeSummary, error)
	SysHealth() metrics.SysHealth
}

// Server is the HTTP front end.
type Server struct {
	logger  *zap.Logger
	planner Planner
	webhook http.Handler
	router  *chi.Mux
	server  *http.Server
}

// NewServer wires the routes. webhook may be nil when the Telegram bot is
// not configured.
func NewServer(port int, logger *zap.Logger, planner Planner, webhook http.Handler) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		logger:  logger,
		planner: planner,
		webhook: webhook,
	}
	s.router = s.setupRoutes()
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/recipes", s.handleListRecipes)
	r.Route("/meal-plans", func(r chi.Router) {
		r.Post("/", s.handleCreateMealPlan)
	})
	r.Get("/shared/{token}", s.handleSharedPlan)

	if s.webhook != nil {
		r.Method(http.MethodPost, "/webhook", s.webhook)
	}
	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("address", s.server.Addr))
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
