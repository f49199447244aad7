package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"logihub/internal/apperr"
	"logihub/internal/logx"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses. Unknown errors become an
// opaque 500; their detail stays in the log.
func writeError(w http.ResponseWriter, log logx.Logger, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "dependency unavailable"})
	default:
		if log != nil {
			log.Error("request failed", logx.Any("error", err))
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func decodeJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("%w: malformed JSON body: %v", apperr.ErrInvalid, err)
	}
	return v, nil
}
