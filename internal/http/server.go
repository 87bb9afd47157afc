package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	applog "traveleo/internal/log"
	"traveleo/internal/middleware/ratelimit"
	"traveleo/internal/middleware/security"
	"traveleo/internal/middleware/trace"
	"traveleo/internal/services"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services are the application services the handlers delegate to.
type Services struct {
	Auth       *services.AuthService
	Trips      *services.TripService
	Budgets    *services.BudgetService
	Categories *services.CategoryService
	Expenses   *services.ExpenseService
	Insights   *services.InsightService
}

// Config holds the HTTP-level settings of the server.
type Config struct {
	Addr               string
	CORSOrigin         string
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	svc         Services
	db          Pinger
	logger      *applog.Logger
	rateLimiter *ratelimit.Limiter
	startedAt   time.Time

	shutdownOnce sync.Once
}

// NewServer wires middleware and routes, returning a ready-to-run server.
func NewServer(cfg Config, svc Services, db Pinger, logger *applog.Logger) *Server {
	s := &Server{
		svc:       svc,
		db:        db,
		logger:    logger.WithComponent(applog.ComponentHTTP),
		startedAt: time.Now(),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
		}),
	}

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           s.routes(cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) routes(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(applog.Middleware(s.logger))
	r.Use(trace.NewMiddleware(extractClientIP).Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(cfg.CORSOrigin),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", trace.HeaderRequestID},
		ExposedHeaders:   []string{trace.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, false, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, false, "Method not allowed")
	})

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimiter.Middleware(extractClientIP, s.handleRateLimited))
			r.Post("/users", s.handleSignup)
			r.Post("/login", s.handleLogin)
			r.Post("/verify-otp", s.handleVerifyOTP)
			r.Post("/resend-otp", s.handleResendOTP)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Get("/users", s.handleListUsers)

			r.Post("/trips", s.handleCreateTrip)
			r.Get("/trips", s.handleListTrips)
			r.Get("/trips/{id}", s.handleGetTrip)
			r.Delete("/trips/{id}", s.handleDeleteTrip)
			r.Post("/trips/{id}/budget", s.handleSetBudget)
			r.Get("/trips/{id}/budget", s.handleGetBudget)
			r.Get("/trips/{id}/expenses", s.handleListExpenses)
			r.Get("/trips/{id}/insights", s.handleInsights)

			r.Post("/categories", s.handleCreateCategory)
			r.Get("/categories", s.handleListCategories)

			r.Post("/expenses", s.handleCreateExpense)
		})
	})

	return r
}

// splitOrigins accepts a comma separated list of allowed origins.
func splitOrigins(v string) []string {
	var origins []string
	for _, p := range strings.Split(v, ",") {
		if o := strings.TrimRight(strings.TrimSpace(p), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, extractClientIP(r),
		applog.FieldPath, r.URL.Path)
	writeMessage(w, http.StatusTooManyRequests, false, "Too many requests, please try again later.")
}

// Shutdown stops the rate limiter and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
