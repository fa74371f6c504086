package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/tendant/content-planner/pkg/planner"
)

// Handler serves the /api/v1 routes for one planner.Service
type Handler struct {
	service planner.Service
	logger  *slog.Logger
}

// NewHandler creates a new planner handler
func NewHandler(service planner.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		service: service,
		logger:  logger.With("component", "api"),
	}
}

// Routes returns the authenticated API routes. Callers mount it behind
// AuthenticationMiddleware.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/items", func(r chi.Router) {
		r.Post("/", h.CreateItem)
		r.Get("/", h.ListItems)
		r.Get("/search", h.SearchItems)

		r.Post("/bulk/status", h.BulkUpdateStatus)
		r.Post("/bulk/tags", h.BulkAddTags)
		r.Post("/bulk/delete", h.BulkDelete)

		r.Get("/{id}", h.GetItem)
		r.Put("/{id}", h.UpdateItem)
		r.Delete("/{id}", h.DeleteItem)

		r.Post("/{id}/generate", h.GenerateForItem)
		r.Post("/{id}/generate/ai", h.GenerateAIForItem)

		r.Get("/{id}/slots", h.ListSlots)
		r.Post("/{id}/slots", h.CreateSlot)
	})

	r.Get("/action-center", h.GetActionCenter)
	r.Post("/export", h.Export)

	r.Post("/generate", h.Generate)
	r.Post("/generate/ai", h.GenerateAI)

	r.Get("/views", h.ListViews)
	r.Post("/views", h.CreateView)
	r.Get("/views/default", h.GetDefaultView)
	r.Put("/views/{id}", h.UpdateView)
	r.Delete("/views/{id}", h.DeleteView)

	r.Put("/slots/{id}", h.UpdateSlot)
	r.Delete("/slots/{id}", h.DeleteSlot)
	r.Post("/slots/{id}/pin", h.PinSlot)

	return r
}

// userID returns the authenticated user. Routes are only reachable through
// AuthenticationMiddleware, so a missing value is a wiring bug.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "unauthorized", "Authentication required")
	}
	return id, ok
}

// pathID parses the {id} URL parameter
func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, what string) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Invalid "+what+" ID", "id", idStr, "err", err)
		writeError(w, r, http.StatusBadRequest, "invalid_id", "Invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// decode reads a JSON body into v. An empty body is accepted when
// allowEmpty is set and leaves v untouched.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		writeError(w, r, http.StatusRequestEntityTooLarge, "request_too_large", "Request body too large")
		return false
	}
	writeError(w, r, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
	return false
}
