package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"logihub/internal/apperr"
	"logihub/internal/domain"
)

// ListTariffs handles GET /api/v1/tariffs?route=...&delivery_type=...
func (h *Handlers) ListTariffs(w http.ResponseWriter, r *http.Request) {
	route := r.URL.Query().Get("route")
	channel := domain.Channel(r.URL.Query().Get("delivery_type"))
	if route == "" {
		writeError(w, h.log, fmt.Errorf("%w: route query parameter is required", apperr.ErrInvalid))
		return
	}
	if !channel.Valid() {
		writeError(w, h.log, fmt.Errorf("%w: delivery_type must be cargo or white", apperr.ErrInvalid))
		return
	}

	tariffs, err := h.tariffs.Tariffs(r.Context(), route, channel)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, tariffs)
}

// Routes handles GET /api/v1/tariffs/routes.
func (h *Handlers) Routes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.tariffs.AvailableRoutes(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, routesResponse{Routes: routes})
}

// CreateTariff handles POST /api/v1/tariffs.
func (h *Handlers) CreateTariff(w http.ResponseWriter, r *http.Request) {
	in, err := decodeJSON[tariffRequest](r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := validateTariff(in); err != nil {
		writeError(w, h.log, err)
		return
	}

	created, err := h.tariffs.CreateTariff(r.Context(), in.toDomain())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateTariff handles PUT /api/v1/tariffs/{id}.
func (h *Handlers) UpdateTariff(w http.ResponseWriter, r *http.Request) {
	in, err := decodeJSON[tariffRequest](r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := validateTariff(in); err != nil {
		writeError(w, h.log, err)
		return
	}

	updated, err := h.tariffs.UpdateTariff(r.Context(), chi.URLParam(r, "id"), in.toDomain())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTariff handles DELETE /api/v1/tariffs/{id}.
func (h *Handlers) DeleteTariff(w http.ResponseWriter, r *http.Request) {
	if err := h.tariffs.DeleteTariff(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateTariff(in tariffRequest) error {
	if in.Route == "" {
		return fmt.Errorf("%w: route is required", apperr.ErrInvalid)
	}
	if !domain.Channel(in.Channel).Valid() {
		return fmt.Errorf("%w: delivery_type must be cargo or white", apperr.ErrInvalid)
	}
	if in.PricePerKg <= 0 {
		return fmt.Errorf("%w: price_per_kg must be positive", apperr.ErrInvalid)
	}
	if in.TransitTimeDays <= 0 {
		return fmt.Errorf("%w: delivery_time_days must be positive", apperr.ErrInvalid)
	}
	return nil
}
