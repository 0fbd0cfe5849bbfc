package rest

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
	"github.com/ewilliams-labs/segue/internal/core/sequencer"
	"github.com/ewilliams-labs/segue/internal/core/services"
)

const (
	errCodeInvalidInput     = "INVALID_INPUT"
	errCodeNotFound         = "NOT_FOUND"
	errCodeNoConfidentMatch = "NO_CONFIDENT_MATCH"
	errCodeBudgetExceeded   = "BUDGET_EXCEEDED"
	errCodeSearchCanceled   = "SEARCH_CANCELED"
	errCodeInternal         = "INTERNAL"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already sent; an encode failure can only be dropped.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeErrorWithCode(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// writeServiceError maps core errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeErrorWithCode(w, status, err.Error(), code)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ports.ErrNoConfidentMatch):
		return http.StatusUnprocessableEntity, errCodeNoConfidentMatch
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errCodeNotFound
	case errors.Is(err, sequencer.ErrBudgetExceeded):
		return http.StatusUnprocessableEntity, errCodeBudgetExceeded
	case errors.Is(err, sequencer.ErrSearchCanceled):
		return http.StatusUnprocessableEntity, errCodeSearchCanceled
	case errors.Is(err, sequencer.ErrInvalidConfiguration),
		errors.Is(err, domain.ErrInvalidTrack),
		errors.Is(err, domain.ErrDuplicateTrack),
		errors.Is(err, domain.ErrInvalidWeights),
		errors.Is(err, services.ErrEmptyName),
		errors.Is(err, services.ErrEmptyID),
		errors.Is(err, services.ErrEmptyTracks):
		return http.StatusBadRequest, errCodeInvalidInput
	}
	return http.StatusInternalServerError, errCodeInternal
}

func isJSONContentType(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
