package planner

import "github.com/google/uuid"

// CreateItemRequest contains parameters for creating a content item
type CreateItemRequest struct {
	UserID   uuid.UUID
	Title    string
	Platform Platform
	Status   Status // defaults to StatusIdea
	Notes    *string
	YTLink   *string
	Tags     *string
}

// UpdateItemRequest patches a content item. Nil fields are left untouched.
type UpdateItemRequest struct {
	UserID   uuid.UUID
	ID       uuid.UUID
	Title    *string
	Platform *Platform
	Status   *Status
	Notes    *string
	YTLink   *string
	Tags     *string
}

// ListItemsRequest contains parameters for listing content items
type ListItemsRequest struct {
	UserID uuid.UUID
	Filter ItemFilter
}

// BulkStatusRequest changes the status of several items at once
type BulkStatusRequest struct {
	UserID uuid.UUID
	IDs    []uuid.UUID
	Status Status
}

// BulkTagsRequest merges tags into several items at once
type BulkTagsRequest struct {
	UserID uuid.UUID
	IDs    []uuid.UUID
	Tags   string
}

// CreateViewRequest contains parameters for saving a view
type CreateViewRequest struct {
	UserID    uuid.UUID
	Name      string
	Filter    ItemFilter
	IsDefault bool
}

// UpdateViewRequest patches a saved view. Nil fields are left untouched.
type UpdateViewRequest struct {
	UserID    uuid.UUID
	ID        uuid.UUID
	Name      *string
	Filter    *ItemFilter
	IsDefault *bool
}

// CreateSlotRequest contains parameters for storing an output slot
type CreateSlotRequest struct {
	UserID        uuid.UUID
	ContentItemID uuid.UUID
	SlotType      SlotType
	Content       string
	IsPinned      bool
}

// UpdateSlotRequest patches an output slot. Nil fields are left untouched.
type UpdateSlotRequest struct {
	UserID   uuid.UUID
	ID       uuid.UUID
	Content  *string
	IsPinned *bool
}
