package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"logihub/internal/http/handlers"
	"logihub/internal/http/middleware"
	"logihub/internal/http/middleware/ratelimit"
	"logihub/internal/logx"
	"logihub/internal/metrics"
)

const requestTimeout = 60 * time.Second

// Deps are the collaborators the router mounts.
type Deps struct {
	Handlers *handlers.Handlers
	Limiter  ratelimit.Limiter
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
	Log      logx.Logger
}

// New builds the HTTP route tree.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(requestTimeout))
	r.Use(middleware.Observability(d.Metrics, d.Log))
	if d.Limiter != nil {
		var rejected prometheus.Counter
		if d.Metrics != nil {
			rejected = d.Metrics.RateLimitExceeded
		}
		r.Use(ratelimit.Middleware(d.Limiter, rejected))
	}

	h := d.Handlers
	r.NotFound(h.NotFound)

	r.Get("/ping", h.Ping)
	r.Head("/healthcheck", h.Healthcheck)
	r.Get("/healthcheck", h.Healthcheck)
	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/calculations", func(r chi.Router) {
			r.Post("/", h.Calculate)
			r.Post("/batch", h.CalculateBatch)
			r.Get("/{id}", h.GetQuote)
			r.Delete("/{id}", h.DeleteQuote)
			r.Get("/history/{user_id}", h.History)
		})

		if h.Tariffs() {
			r.Route("/tariffs", func(r chi.Router) {
				r.Get("/", h.ListTariffs)
				r.Post("/", h.CreateTariff)
				r.Get("/routes", h.Routes)
				r.Put("/{id}", h.UpdateTariff)
				r.Delete("/{id}", h.DeleteTariff)
			})
		}

		if h.Classifier() {
			r.Route("/classifications", func(r chi.Router) {
				r.Post("/", h.Classify)
				r.Post("/cache/clear", h.ClearClassificationCache)
			})
		}
	})

	return r
}
