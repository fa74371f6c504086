package api

import (
	"net/http"

	"github.com/go-chi/render"
	"github.com/tendant/content-planner/pkg/planner"
)

// SlotRequest is the request body for creating or patching an output slot
type SlotRequest struct {
	SlotType string  `json:"slot_type,omitempty"`
	Content  *string `json:"content,omitempty"`
	IsPinned *bool   `json:"is_pinned,omitempty"`
}

// ListSlots lists an item's output slots in creation order
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "item")
	if !ok {
		return
	}

	slots, err := h.service.ListSlots(r.Context(), userID, itemID)
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to list slots", err)
		return
	}
	render.JSON(w, r, nonNil(slots))
}

// CreateSlot stores one output slot for an item
func (h *Handler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	itemID, ok := h.pathID(w, r, "item")
	if !ok {
		return
	}
	var req SlotRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	slot, err := h.service.CreateSlot(r.Context(), planner.CreateSlotRequest{
		UserID:        userID,
		ContentItemID: itemID,
		SlotType:      planner.SlotType(req.SlotType),
		Content:       planner.StringValue(req.Content),
		IsPinned:      req.IsPinned != nil && *req.IsPinned,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to create slot", err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, slot)
}

// UpdateSlot patches slot content or pin state
func (h *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "slot")
	if !ok {
		return
	}
	var req SlotRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	slot, err := h.service.UpdateSlot(r.Context(), planner.UpdateSlotRequest{
		UserID:   userID,
		ID:       id,
		Content:  req.Content,
		IsPinned: req.IsPinned,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to update slot", err)
		return
	}
	render.JSON(w, r, slot)
}

// DeleteSlot deletes an output slot
func (h *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "slot")
	if !ok {
		return
	}

	if err := h.service.DeleteSlot(r.Context(), userID, id); err != nil {
		writeServiceError(w, r, h.logger, "Failed to delete slot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PinSlot pins a slot, unpinning the item's other slots of the same type
func (h *Handler) PinSlot(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "slot")
	if !ok {
		return
	}

	slot, err := h.service.PinSlot(r.Context(), userID, id)
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to pin slot", err)
		return
	}
	render.JSON(w, r, slot)
}
