package handlers

import (
	"net/http"

	"logihub/internal/domain"
)

// Classify handles POST /api/v1/classifications. It returns the best
// classification along with any alternative candidates.
func (h *Handlers) Classify(w http.ResponseWriter, r *http.Request) {
	in, err := decodeJSON[classifyRequest](r)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	category := domain.Category(in.Category)
	if !category.Valid() {
		category = domain.CategoryOther
	}

	cl, err := h.classifier.Classify(r.Context(), in.Description, category)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	// Candidates are best-effort; the primary result is already in hand.
	candidates, err := h.classifier.Candidates(r.Context(), in.Description)
	if err != nil {
		candidates = nil
	}

	writeJSON(w, http.StatusOK, classifyResponse{Classification: cl, Candidates: candidates})
}

// ClearClassificationCache handles POST /api/v1/classifications/cache/clear.
func (h *Handlers) ClearClassificationCache(w http.ResponseWriter, _ *http.Request) {
	if h.cache != nil {
		h.cache.Clear()
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
