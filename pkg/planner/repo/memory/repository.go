package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/content-planner/pkg/planner"
)

// Repository implements planner.Repository using in-memory storage
type Repository struct {
	mu          sync.RWMutex
	items       map[uuid.UUID]*planner.ContentItem
	views       map[uuid.UUID]*planner.SavedView
	slots       map[uuid.UUID]*planner.OutputSlot
	slotsByItem map[uuid.UUID][]uuid.UUID // content_item_id -> []slot_id, insertion order
}

// New creates a new in-memory repository
func New() planner.Repository {
	return &Repository{
		items:       make(map[uuid.UUID]*planner.ContentItem),
		views:       make(map[uuid.UUID]*planner.SavedView),
		slots:       make(map[uuid.UUID]*planner.OutputSlot),
		slotsByItem: make(map[uuid.UUID][]uuid.UUID),
	}
}

// Content item operations

func (r *Repository) CreateItem(ctx context.Context, item *planner.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *Repository) GetItem(ctx context.Context, userID, id uuid.UUID) (*planner.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[id]
	if !exists || item.UserID != userID {
		return nil, planner.ErrItemNotFound
	}
	return cloneItem(item), nil
}

func (r *Repository) UpdateItem(ctx context.Context, item *planner.ContentItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.items[item.ID]
	if !exists || existing.UserID != item.UserID {
		return planner.ErrItemNotFound
	}
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, filter planner.ItemFilter) ([]*planner.ContentItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids map[uuid.UUID]bool
	if len(filter.IDs) > 0 {
		ids = make(map[uuid.UUID]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			ids[id] = true
		}
	}
	query := strings.ToLower(filter.Query)

	result := []*planner.ContentItem{}
	for _, item := range r.items {
		if item.UserID != userID {
			continue
		}
		if ids != nil && !ids[item.ID] {
			continue
		}
		if filter.Platform != nil && item.Platform != *filter.Platform {
			continue
		}
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		if query != "" && !matchesQuery(item, query) {
			continue
		}
		result = append(result, cloneItem(item))
	}

	// Sort by created_at descending
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func matchesQuery(item *planner.ContentItem, query string) bool {
	for _, field := range []string{
		item.Title,
		planner.StringValue(item.Notes),
		planner.StringValue(item.Tags),
		planner.StringValue(item.YTLink),
	} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func (r *Repository) UpdateItemsStatus(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, status planner.Status, at time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := 0
	for _, id := range uniqueIDs(ids) {
		item, exists := r.items[id]
		if !exists || item.UserID != userID {
			continue
		}
		item.Status = status
		item.UpdatedAt = at
		updated++
	}
	return updated, nil
}

func (r *Repository) DeleteItems(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for _, id := range uniqueIDs(ids) {
		item, exists := r.items[id]
		if !exists || item.UserID != userID {
			continue
		}
		delete(r.items, id)
		// Slots cascade with their item
		for _, slotID := range r.slotsByItem[id] {
			delete(r.slots, slotID)
		}
		delete(r.slotsByItem, id)
		deleted++
	}
	return deleted, nil
}

// Saved view operations

func (r *Repository) CreateView(ctx context.Context, view *planner.SavedView) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.views[view.ID] = cloneView(view)
	return nil
}

func (r *Repository) GetView(ctx context.Context, userID, id uuid.UUID) (*planner.SavedView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	view, exists := r.views[id]
	if !exists || view.UserID != userID {
		return nil, planner.ErrViewNotFound
	}
	return cloneView(view), nil
}

func (r *Repository) UpdateView(ctx context.Context, view *planner.SavedView) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.views[view.ID]
	if !exists || existing.UserID != view.UserID {
		return planner.ErrViewNotFound
	}
	r.views[view.ID] = cloneView(view)
	return nil
}

func (r *Repository) DeleteView(ctx context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	view, exists := r.views[id]
	if !exists || view.UserID != userID {
		return planner.ErrViewNotFound
	}
	delete(r.views, id)
	return nil
}

func (r *Repository) ListViews(ctx context.Context, userID uuid.UUID) ([]*planner.SavedView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*planner.SavedView{}
	for _, view := range r.views {
		if view.UserID == userID {
			result = append(result, cloneView(view))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) ClearDefaultViews(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, view := range r.views {
		if view.UserID == userID {
			view.IsDefault = false
		}
	}
	return nil
}

// Output slot operations

func (r *Repository) CreateSlot(ctx context.Context, slot *planner.OutputSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[slot.ContentItemID]
	if !exists || item.UserID != slot.UserID {
		return planner.ErrItemNotFound
	}

	slotCopy := *slot
	r.slots[slot.ID] = &slotCopy
	r.slotsByItem[slot.ContentItemID] = append(r.slotsByItem[slot.ContentItemID], slot.ID)
	return nil
}

func (r *Repository) GetSlot(ctx context.Context, userID, id uuid.UUID) (*planner.OutputSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, exists := r.slots[id]
	if !exists || slot.UserID != userID {
		return nil, planner.ErrSlotNotFound
	}
	slotCopy := *slot
	return &slotCopy, nil
}

func (r *Repository) UpdateSlot(ctx context.Context, slot *planner.OutputSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.slots[slot.ID]
	if !exists || existing.UserID != slot.UserID {
		return planner.ErrSlotNotFound
	}
	slotCopy := *slot
	r.slots[slot.ID] = &slotCopy
	return nil
}

func (r *Repository) DeleteSlot(ctx context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot, exists := r.slots[id]
	if !exists || slot.UserID != userID {
		return planner.ErrSlotNotFound
	}
	delete(r.slots, id)

	ids := r.slotsByItem[slot.ContentItemID]
	for i, slotID := range ids {
		if slotID == id {
			r.slotsByItem[slot.ContentItemID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Repository) ListSlots(ctx context.Context, userID, itemID uuid.UUID) ([]*planner.OutputSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*planner.OutputSlot{}
	for _, id := range r.slotsByItem[itemID] {
		slot := r.slots[id]
		if slot.UserID != userID {
			continue
		}
		slotCopy := *slot
		result = append(result, &slotCopy)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *Repository) UnpinSlots(ctx context.Context, userID, itemID uuid.UUID, slotType planner.SlotType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.slotsByItem[itemID] {
		slot := r.slots[id]
		if slot.UserID == userID && slot.SlotType == slotType {
			slot.IsPinned = false
		}
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneItem(item *planner.ContentItem) *planner.ContentItem {
	c := *item
	c.Notes = cloneString(item.Notes)
	c.YTLink = cloneString(item.YTLink)
	c.Tags = cloneString(item.Tags)
	return &c
}

func cloneView(view *planner.SavedView) *planner.SavedView {
	c := *view
	if view.Filter.Platform != nil {
		p := *view.Filter.Platform
		c.Filter.Platform = &p
	}
	if view.Filter.Status != nil {
		s := *view.Filter.Status
		c.Filter.Status = &s
	}
	c.Filter.IDs = append([]uuid.UUID(nil), view.Filter.IDs...)
	return &c
}
