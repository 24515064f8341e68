package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goodnatureofminers/onclick-backend/internal/clicks"
	"github.com/goodnatureofminers/onclick-backend/internal/service"
	"go.uber.org/zap"
)

type errorBody struct {
	Error string `json:"error"`
}

func (h *ClaimHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("write response", zap.Error(err))
	}
}

func (h *ClaimHandler) writeError(w http.ResponseWriter, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}
	h.writeJSON(w, status, errorBody{Error: err.Error()})
}

func (h *ClaimHandler) writeOutcome(w http.ResponseWriter, o service.Outcome) {
	status := http.StatusOK
	if o.Kind == service.OutcomeError {
		status = statusOf(o.Err)
	}
	h.writeJSON(w, status, o)
}

func statusOf(err error) int {
	var se *clicks.StatusError
	switch {
	case err == nil:
		return http.StatusOK
	case service.IsInputError(err):
		return http.StatusBadRequest
	case service.IsValidationError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrClaimNotFound):
		return http.StatusNotFound
	case errors.As(err, &se):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &service.InputError{Field: "body", Reason: err.Error()}
	}
	return nil
}
