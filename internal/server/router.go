package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/authgate/authgate/internal/telemetry"
)

// RouterOptions controls the construction of the HTTP router.
// The zero value is valid; sensible defaults are applied where fields are not set.
type RouterOptions struct {
	Admin         *AdminHandlers
	Gate          func(http.Handler) http.Handler
	Metrics       *telemetry.GateMetrics
	CORSOptions   *cors.Options
	Middleware    []func(http.Handler) http.Handler
	HealthHandler http.HandlerFunc
	ExtraRoutes   func(chi.Router)
}

// DefaultCORSOptions returns the shared development CORS policy. The gate's
// protocol headers must be both accepted and exposed or browser clients
// cannot speak it.
func DefaultCORSOptions() cors.Options {
	return cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Content-Type",
			"request-type",
			"request-content",
		},
		ExposedHeaders: []string{
			"response-type",
			"response-result",
		},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func defaultHealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// NewRouter assembles a chi.Router with shared middleware, CORS policy, the
// access-control gate, and the handlers mounted. The router can be tailored
// via RouterOptions for CLI usage, tests, or other entrypoints.
func NewRouter(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	// Baseline middleware shared across entrypoints.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	corsCfg := DefaultCORSOptions()
	if opts.CORSOptions != nil {
		corsCfg = *opts.CORSOptions
	}
	r.Use(cors.Handler(corsCfg))

	// Apply custom middleware passed from the caller.
	for _, mw := range opts.Middleware {
		if mw != nil {
			r.Use(mw)
		}
	}

	// Metrics sit above the gate so rejections are observed.
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	// Every route below the gate is subject to classification; which of
	// them a caller may actually reach is the permission model's decision,
	// not the router's.
	if opts.Gate != nil {
		r.Use(opts.Gate)
	}

	health := defaultHealthHandler
	if opts.HealthHandler != nil {
		health = opts.HealthHandler
	}
	r.Get("/health", health)
	r.Get("/api/ping", HandlePing)
	r.Get("/api/whoami", HandleWhoAmI)

	if opts.Admin != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Get("/permissions", opts.Admin.HandleListPermissions)
			r.Post("/permissions/{id}/disable", opts.Admin.HandleDisablePermission)
			r.Post("/cache/refresh", opts.Admin.HandleCacheRefresh)
		})
	}

	if opts.ExtraRoutes != nil {
		opts.ExtraRoutes(r)
	}

	return r
}
