package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/content-planner/pkg/planner"
)

// ErrorBody is the payload of every error response
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorBody as {"error": {...}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// writeServiceError maps a service error onto a status code. Unknown errors
// are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, msg string, err error) {
	switch {
	case planner.IsNotFound(err):
		writeError(w, r, http.StatusNotFound, "not_found", rootMessage(err))
	case planner.IsValidationError(err):
		writeError(w, r, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, planner.ErrNothingUpdated):
		writeError(w, r, http.StatusConflict, "nothing_updated", err.Error())
	case errors.Is(err, planner.ErrAIUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, "ai_unavailable", err.Error())
	case errors.Is(err, planner.ErrBlobStoreNotConfigured):
		writeError(w, r, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
	default:
		logger.ErrorContext(r.Context(), msg,
			"request_id", RequestIDFromContext(r.Context()), "err", err)
		writeError(w, r, http.StatusInternalServerError, "internal_error", msg)
	}
}

// rootMessage hides ItemError wrapping so 404 bodies read "content item not found".
func rootMessage(err error) string {
	for _, sentinel := range []error{planner.ErrItemNotFound, planner.ErrViewNotFound, planner.ErrSlotNotFound} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
