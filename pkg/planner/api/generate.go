package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"github.com/tendant/content-planner/pkg/planner"
)

// GenerateRequest describes an unsaved item to generate content for
type GenerateRequest struct {
	Title    string  `json:"title"`
	Platform string  `json:"platform"`
	Notes    *string `json:"notes,omitempty"`
	Tags     *string `json:"tags,omitempty"`
}

func (req GenerateRequest) item() (planner.ContentItem, error) {
	platform, err := planner.ParsePlatform(req.Platform)
	if err != nil {
		return planner.ContentItem{}, err
	}
	return planner.ContentItem{
		Title:    req.Title,
		Platform: platform,
		Notes:    req.Notes,
		Tags:     req.Tags,
	}, nil
}

// GenerateResponse is a generation plus the slots it was saved as, if any
type GenerateResponse struct {
	*planner.GeneratedContent
	Slots []*planner.OutputSlot `json:"slots,omitempty"`
}

// Generate runs the template generator over the request body
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.userID(w, r); !ok {
		return
	}
	var req GenerateRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	item, err := req.item()
	if err != nil {
		writeServiceError(w, r, h.logger, "Invalid platform", err)
		return
	}

	generated, err := h.service.GenerateFor(r.Context(), item)
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to generate content", err)
		return
	}
	render.JSON(w, r, GenerateResponse{GeneratedContent: generated})
}

// GenerateAI runs the AI generator over the request body
func (h *Handler) GenerateAI(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.userID(w, r); !ok {
		return
	}
	var req GenerateRequest
	if !h.decode(w, r, &req, false) {
		return
	}

	item, err := req.item()
	if err != nil {
		writeServiceError(w, r, h.logger, "Invalid platform", err)
		return
	}

	generated, err := h.service.GenerateWithAI(r.Context(), item)
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to generate content with AI", err)
		return
	}
	render.JSON(w, r, GenerateResponse{GeneratedContent: generated})
}

// GenerateForItem runs the template generator for a stored item.
// ?save=true stores the result as output slots.
func (h *Handler) GenerateForItem(w http.ResponseWriter, r *http.Request) {
	h.generateForItem(w, r, false)
}

// GenerateAIForItem runs the AI generator for a stored item.
// ?save=true stores the result as output slots.
func (h *Handler) GenerateAIForItem(w http.ResponseWriter, r *http.Request) {
	h.generateForItem(w, r, true)
}

func (h *Handler) generateForItem(w http.ResponseWriter, r *http.Request, useAI bool) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, ok := h.pathID(w, r, "item")
	if !ok {
		return
	}

	var (
		generated *planner.GeneratedContent
		err       error
	)
	if useAI {
		var item *planner.ContentItem
		item, err = h.service.GetItem(r.Context(), userID, id)
		if err == nil {
			generated, err = h.service.GenerateWithAI(r.Context(), *item)
		}
	} else {
		generated, err = h.service.Generate(r.Context(), userID, id)
	}
	if err != nil {
		writeServiceError(w, r, h.logger, "Failed to generate content", err)
		return
	}

	resp := GenerateResponse{GeneratedContent: generated}
	if save, _ := strconv.ParseBool(r.URL.Query().Get("save")); save {
		slots, err := h.service.SaveGenerated(r.Context(), userID, id, generated)
		if err != nil {
			writeServiceError(w, r, h.logger, "Failed to save generated content", err)
			return
		}
		resp.Slots = slots
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, resp)
}
