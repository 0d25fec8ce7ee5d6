package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skvault/sleevekeeper/internal/common"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`

	SleeveID  int64 `json:"sleeve_id,omitempty"`
	Requested int   `json:"requested,omitempty"`
	Available int   `json:"available"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the core's typed errors onto HTTP statuses. Unknown
// errors surface as a generic 500 so callers never see partial state or
// internals.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *common.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: validationErr.Error(),
			Field: validationErr.Field,
		})
		return
	}

	var stockErr *common.InsufficientStockError
	if errors.As(err, &stockErr) {
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:     stockErr.Error(),
			SleeveID:  stockErr.SleeveID,
			Requested: stockErr.Requested,
			Available: stockErr.Available,
		})
		return
	}

	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}
