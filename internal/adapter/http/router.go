package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

// UserIDHeader carries the tenant every deposit request is scoped to
const UserIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "userID"

// HealthCheck reports whether a dependency is reachable
type HealthCheck func(ctx context.Context) error

// RouterConfig wires the REST API
type RouterConfig struct {
	Deposits       *DepositHandler
	APIToken       string
	AllowedOrigins []string
	Logger         *slog.Logger
	Checks         map[string]HealthCheck
}

// NewRouter builds the chi router serving the REST API and /healthz
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"https://*", "http://*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", UserIDHeader},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/healthz", healthHandler(cfg.Checks))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authMiddleware(cfg.APIToken))

		r.Route("/deposits", func(r chi.Router) {
			r.Post("/", cfg.Deposits.RecordDeposit)
			r.Get("/", cfg.Deposits.ListDeposits)
			r.Get("/summary", cfg.Deposits.Summary)
			r.Get("/comparison", cfg.Deposits.Comparison)
			r.Get("/export.csv", cfg.Deposits.Export)
			r.Patch("/{id}", cfg.Deposits.UpdateNotes)
			r.Delete("/{id}", cfg.Deposits.DeleteDeposit)
		})
	})

	return r
}

// authMiddleware checks the bearer token and resolves the X-User-ID header
func authMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || bearer == "" {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
				return
			}
			if bearer != token {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "invalid token")
				return
			}

			userID, err := uuid.Parse(r.Header.Get(UserIDHeader))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthenticated", "missing or malformed "+UserIDHeader+" header")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userIDFrom(ctx context.Context) uuid.UUID {
	userID, _ := ctx.Value(userIDKey).(uuid.UUID)
	return userID
}

// requestLogger logs every request once it completes
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		results := make(map[string]string, len(checks))
		healthy := true
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				healthy = false
				continue
			}
			results[name] = "ok"
		}

		statusCode := http.StatusOK
		state := "healthy"
		if !healthy {
			statusCode = http.StatusServiceUnavailable
			state = "unhealthy"
		}
		writeJSON(w, statusCode, map[string]any{"status": state, "checks": results})
	}
}
