package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/content-planner/pkg/planner"
)

// CreateItemRequest is the request body for creating a content item
type CreateItemRequest struct {
	Title    string  `json:"title"`
	Platform string  `json:"platform"`
	Status   string  `json:"status,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	YTLink   *string `json:"yt_link,omitempty"`
	Tags     *string `json:"tags,omitempty"`
}

// UpdateItemRequest is the request body for patching a content item
type UpdateItemRequest struct {
	Title    *string `json:"title,omitempty"`
	Platform *string `json:"platform,omitempty"`
	Status   *string `json:"status,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	YTLink   *string `json:"yt_link,omitempty"`
	Tags     *string `json:"tags,omitempty"`
}

// BulkRequest selects items for bulk status, tag, delete and export calls
type BulkRequest struct {
	IDs    []uuid.UUID `json:"ids"`
	Status string      `json:"status,omitempty"`
	Tags   string      `json:"tags,omitempty"`
}

// CountResponse reports how many items a bulk operation touched
type CountResponse struct {
	Count int `json:"count"`
}

// CreateItem creates a new content item
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req CreateItemRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	platform, err := planner.ParsePlatform(req.Platform)
	if err != nil {
		writeServiceError(w, r, h.logger, "Invalid platform", err)
		return
	}
	var status planner.Status
	if req.Status != "" {
		if status, err = planner.ParseStatus(req.Status); err != nil {
			writeServiceError(w, r, h.logger, "Invalid status", err)
			return
		}
	}

	item, err := h.service.CreateItem(r.Context(), planner.CreateItemRequest{
		UserID:   userID,
		Title:    req.Title,
		Platform: platform,
		Status:   status,
		Notes:    req.Notes,
		YTLink:   req.YTLink,
		Tags:     req.Tags,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to create item", err)
		return
	}

	h.logger.InfoContext(r.Context(), "Item created", "item_id", item.ID)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, item)
}

// GetItem retrieves a content item by ID
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "item")
	if !ok {
		return
	}

	item, err := h.service.GetItem(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to get item", err)
		return
	}
	render.JSON(w, r, item)
}

// UpdateItem patches a content item
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "item")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	update := planner.UpdateItemRequest{
		UserID: userID,
		ID:     id,
		Title:  req.Title,
		Notes:  req.Notes,
		YTLink: req.YTLink,
		Tags:   req.Tags,
	}
	if req.Platform != nil {
		p, err := planner.ParsePlatform(*req.Platform)
		if err != nil {
			writeServiceError(w, r, h.logger, "Invalid platform", err)
			return
		}
		update.Platform = &p
	}
	if req.Status != nil {
		s, err := planner.ParseStatus(*req.Status)
		if err != nil {
			writeServiceError(w, r, h.logger, "Invalid status", err)
			return
		}
		update.Status = &s
	}

	item, err := h.service.UpdateItem(r.Context(), update)
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to update item", err)
		return
	}
	render.JSON(w, r, item)
}

// DeleteItem deletes a content item and its slots
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "item")
	if !ok {
		return
	}

	if err := h.service.DeleteItem(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, h.logger, "Failed to delete item", err)
		return
	}

	h.logger.InfoContext(r.Context(), "Item deleted", "item_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListItems lists content items
// Query parameters:
//   - platform: youtube, facebook, instagram or tiktok
//   - status: idea, draft or posted
//   - q: case-insensitive search over title, notes, tags and link
//   - limit: maximum number of items
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	var filter planner.ItemFilter
	if v := query.Get("platform"); v != "" {
		p, err := planner.ParsePlatform(v)
		if err != nil {
			writeServiceError(w, r, h.logger, "Invalid platform", err)
			return
		}
		filter.Platform = &p
	}
	if v := query.Get("status"); v != "" {
		s, err := planner.ParseStatus(v)
		if err != nil {
			writeServiceError(w, r, h.logger, "Invalid status", err)
			return
		}
		filter.Status = &s
	}
	filter.Query = query.Get("q")
	if v := query.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, r, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		filter.Limit = limit
	}

	items, err := h.service.ListItems(r.Context(), planner.ListItemsRequest{UserID: userID, Filter: filter})
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to list items", err)
		return
	}
	render.JSON(w, r, nonNil(items))
}

// SearchItems returns up to 50 items matching ?q=
func (h *Handler) SearchItems(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	items, err := h.service.SearchItems(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to search items", err)
		return
	}
	render.JSON(w, r, nonNil(items))
}

// GetActionCenter returns the dashboard buckets
func (h *Handler) GetActionCenter(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	ac, err := h.service.GetActionCenter(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to load action center", err)
		return
	}
	render.JSON(w, r, ac)
}

// BulkUpdateStatus sets the status of the selected items
func (h *Handler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req BulkRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	status, err := planner.ParseStatus(req.Status)
	if err != nil {
		writeServiceError(w, r, h.logger, "Invalid status", err)
		return
	}

	n, err := h.service.BulkUpdateStatus(r.Context(), planner.BulkStatusRequest{
		UserID: userID,
		IDs:    req.IDs,
		Status: status,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to update status", err)
		return
	}
	render.JSON(w, r, CountResponse{Count: n})
}

// BulkAddTags merges tags into the selected items
func (h *Handler) BulkAddTags(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req BulkRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	n, err := h.service.BulkAddTags(r.Context(), planner.BulkTagsRequest{
		UserID: userID,
		IDs:    req.IDs,
		Tags:   req.Tags,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to add tags", err)
		return
	}
	render.JSON(w, r, CountResponse{Count: n})
}

// BulkDelete deletes the selected items
func (h *Handler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req BulkRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	n, err := h.service.BulkDelete(r.Context(), userID, req.IDs)
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to delete items", err)
		return
	}
	render.JSON(w, r, CountResponse{Count: n})
}

// Export downloads the selected items (all items when ids is empty) as CSV.
// With ?archive=true the CSV is written to the blob store instead and the
// archive location is returned as JSON.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req BulkRequest
	if !h.decode(w, r, &req, true) {
		return
	}

	if archive, _ := strconv.ParseBool(r.URL.Query().Get("archive")); archive {
		result, err := h.service.ArchiveExport(r.Context(), userID, req.IDs)
		if err != nil {
			writeServiceError(w, r, h.logger, "Failed to archive export", err)
			return
		}
		h.logger.InfoContext(r.Context(), "Export archived", "key", result.Key, "rows", result.Rows)
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, result)
		return
	}

	data, err := h.service.ExportItems(r.Context(), userID, req.IDs)
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to export items", err)
		return
	}

	w.Header().Set("Content-Type", planner.ExportMimeType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+h.service.ExportFileName()+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(r.Context(), "Export write failed", "err", err)
	}
}

// nonNil keeps empty lists rendering as [] rather than null
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
