package handlers

import (
	"net/http"

	"logihub/internal/logx"
)

// Handlers bundles the HTTP endpoints with their collaborators. Tariffs and
// classification are optional surfaces; the router only mounts what is wired.
type Handlers struct {
	quotes     QuoteService
	tariffs    TariffAdmin
	classifier ClassifyService
	cache      CacheClearer
	log        logx.Logger
}

// New builds the handler set. tariffs, classifier and cache may be nil.
func New(quotes QuoteService, tariffs TariffAdmin, classifier ClassifyService, cache CacheClearer, log logx.Logger) *Handlers {
	if log == nil {
		log = logx.Nop()
	}
	return &Handlers{
		quotes:     quotes,
		tariffs:    tariffs,
		classifier: classifier,
		cache:      cache,
		log:        log,
	}
}

// Tariffs reports whether tariff administration is wired.
func (h *Handlers) Tariffs() bool { return h.tariffs != nil }

// Classifier reports whether classification endpoints are wired.
func (h *Handlers) Classifier() bool { return h.classifier != nil }

// Ping responds to liveness probes.
func (h *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Healthcheck responds to readiness probes.
func (h *Handlers) Healthcheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// NotFound is the fallback for unknown paths.
func (h *Handlers) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
}
