package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"

	"github.com/sebuszqo/FinanceControl/internal/auth"
	"github.com/sebuszqo/FinanceControl/internal/finance/interfaces"
	"github.com/sebuszqo/FinanceControl/internal/logger"
	"github.com/sebuszqo/FinanceControl/internal/user"
)

// HealthChecker reports the state of a backing store.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	AuthHandler    *auth.Handler
	AuthMiddleware *auth.Middleware
	UserHandler    *user.Handler
	ExpenseHandler *interfaces.TransactionHandler
	IncomeHandler  *interfaces.TransactionHandler
	// Database is nil when running on the in-memory store.
	Database       HealthChecker
	AllowedOrigins []string
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(methodNotAllowedHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ready", s.handleReady)
		r.Route("/auth", s.AuthHandler.RegisterRoutes)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware.RequireSession)
			r.Route("/users", s.UserHandler.RegisterRoutes)
			r.Route("/expenses", s.ExpenseHandler.RegisterRoutes)
			r.Route("/incomes", s.IncomeHandler.RegisterRoutes)
		})
	})

	return r
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	RespondError(w, http.StatusNotFound, "Path not found")
}

func methodNotAllowedHandler(w http.ResponseWriter, _ *http.Request) {
	RespondError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.Database == nil {
		RespondJSON(w, http.StatusOK, map[string]string{"status": "ready", "database": "memory"})
		return
	}

	health := s.Database.Health(r.Context())
	if health["status"] != "up" {
		hlog.FromRequest(r).Warn().Str("error", health["error"]).Msg("readiness check failed")
		RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unavailable",
			"database": "down",
		})
		return
	}
	RespondJSON(w, http.StatusOK, map[string]string{"status": "ready", "database": "up"})
}
