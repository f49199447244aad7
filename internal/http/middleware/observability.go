package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"logihub/internal/logx"
	"logihub/internal/metrics"
)

// Observability records request metrics and an access log line per request.
// Paths are reported as chi route patterns to keep label cardinality bounded.
func Observability(m *metrics.Metrics, log logx.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = logx.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			if m != nil {
				m.HTTPInFlight.Inc()
				defer m.HTTPInFlight.Dec()
			}

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			path := routePattern(r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			if m != nil {
				m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
				m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(elapsed.Seconds())
			}
			log.Info("request",
				logx.String("method", r.Method),
				logx.String("path", path),
				logx.Int("status", status),
				logx.Duration("elapsed", elapsed),
				logx.String("request_id", chimw.GetReqID(r.Context())),
			)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
