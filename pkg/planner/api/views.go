package api

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/content-planner/pkg/planner"
)

// ViewRequest is the request body for creating or patching a saved view.
// On update, omitted fields are left untouched.
type ViewRequest struct {
	Name      *string             `json:"name,omitempty"`
	Filter    *planner.ItemFilter `json:"filter,omitempty"`
	IsDefault *bool               `json:"is_default,omitempty"`
}

// ListViews lists the user's saved views
func (h *Handler) ListViews(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	views, err := h.service.ListViews(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to list views", err)
		return
	}
	render.JSON(w, r, nonNil(views))
}

// CreateView saves a named filter
func (h *Handler) CreateView(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req ViewRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	create := planner.CreateViewRequest{
		UserID:    userID,
		Name:      planner.StringValue(req.Name),
		IsDefault: req.IsDefault != nil && *req.IsDefault,
	}
	if req.Filter != nil {
		create.Filter = *req.Filter
	}

	view, err := h.service.CreateView(r.Context(), create)
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to create view", err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, view)
}

// GetDefaultView returns the default view, or 204 when none is set
func (h *Handler) GetDefaultView(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	view, err := h.service.GetDefaultView(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to get default view", err)
		return
	}
	if view == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	render.JSON(w, r, view)
}

// UpdateView patches a saved view
func (h *Handler) UpdateView(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "view")
	if !ok {
		return
	}
	var req ViewRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	view, err := h.service.UpdateView(r.Context(), planner.UpdateViewRequest{
		UserID:    userID,
		ID:        id,
		Name:      req.Name,
		Filter:    req.Filter,
		IsDefault: req.IsDefault,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to update view", err)
		return
	}
	render.JSON(w, r, view)
}

// DeleteView deletes a saved view
func (h *Handler) DeleteView(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "view")
	if !ok {
		return
	}

	if err := h.service.DeleteView(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, h.logger, "Failed to delete view", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
