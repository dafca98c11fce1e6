package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Storefront/internal/cart"
	"Storefront/internal/catalog"
	"Storefront/internal/checkout"
	"Storefront/pkg/kit"
)

type Deps struct {
	Log      *zap.Logger
	Service  string
	Version  string
	Registry *prometheus.Registry

	MetricsEnabled bool
	MetricsToken   string
}

type Servers struct {
	Catalog  *catalog.Server
	Cart     *cart.Server
	Checkout *checkout.Server

	// Sessions is only probed for health reporting; cart traffic goes
	// through the Manager inside Cart.
	Sessions cart.SessionStore
}

const (
	seedLimitPerMin = 3
	limitWindowSec  = 60

	probeTimeout = 1 * time.Second
)

func NewHandler(s Servers, deps Deps) http.Handler {
	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Get("/healthz", healthHandler(s, deps))
	r.Get("/readyz", readyHandler(s, deps))

	r.Route("/api", func(ar chi.Router) {
		s.Catalog.Register(ar)
		s.Cart.Register(ar)
		s.Checkout.Register(ar)
	})

	seedLimiter := kit.NewIPRateLimiter(seedLimitPerMin, limitWindowSec)
	r.With(seedLimiter.Middleware).Post("/admin/seed", s.Catalog.SeedHandler())

	return r
}

func setupMiddleware(r *chi.Mux, deps Deps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.AppVersion(deps.Version))
	r.Use(kit.Logging(deps.Log))
}

func setupMetrics(r *chi.Mux, deps Deps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}

// healthHandler reports ok/degraded. The catalog store being down makes the
// service unhealthy; a down session store only degrades the status, since
// carts fall back per the degrade policy.
func healthHandler(s Servers, deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		status := "ok"
		code := http.StatusOK

		if err := s.Catalog.Store.Ping(ctx); err != nil {
			if deps.Log != nil {
				deps.Log.Warn("catalog store health check failed", zap.Error(err))
			}
			status = "degraded"
			code = http.StatusServiceUnavailable
		} else if s.Sessions != nil {
			if err := s.Sessions.Ping(ctx); err != nil {
				if deps.Log != nil {
					deps.Log.Warn("session store health check failed", zap.Error(err))
				}
				status = "degraded"
			}
		}

		kit.WriteJSON(w, code, map[string]any{"status": status, "version": deps.Version})
	}
}

func readyHandler(s Servers, deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
		defer cancel()

		if err := s.Catalog.Store.Ping(ctx); err != nil {
			if deps.Log != nil {
				deps.Log.Warn("readyz failed", zap.Error(err))
			}
			kit.WriteError(w, r, http.StatusServiceUnavailable, "not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
	}
}
