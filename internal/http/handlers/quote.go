package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Calculate handles POST /api/v1/calculations.
func (h *Handlers) Calculate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeJSON[calculateRequest](r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	q, err := h.quotes.Calculate(r.Context(), in.toDomain(), in.UserID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// CalculateBatch handles POST /api/v1/calculations/batch.
func (h *Handlers) CalculateBatch(w http.ResponseWriter, r *http.Request) {
	in, err := decodeJSON[batchRequest](r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	items, err := h.quotes.CalculateBatch(r.Context(), toDomainRequests(in.Shipments), in.UserID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResponse(items))
}

// GetQuote handles GET /api/v1/calculations/{id}.
func (h *Handlers) GetQuote(w http.ResponseWriter, r *http.Request) {
	q, err := h.quotes.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// History handles GET /api/v1/calculations/history/{user_id}.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	quotes, err := h.quotes.History(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{UserID: userID, Quotes: quotes})
}

// DeleteQuote handles DELETE /api/v1/calculations/{id}.
func (h *Handlers) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	if err := h.quotes.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
