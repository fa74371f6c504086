package planner

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the content-planner library
type Service interface {
	// Content item operations
	CreateItem(ctx context.Context, req CreateItemRequest) (*ContentItem, error)
	GetItem(ctx context.Context, userID, id uuid.UUID) (*ContentItem, error)
	UpdateItem(ctx context.Context, req UpdateItemRequest) (*ContentItem, error)
	DeleteItem(ctx context.Context, userID, id uuid.UUID) error
	ListItems(ctx context.Context, req ListItemsRequest) ([]*ContentItem, error)
	SearchItems(ctx context.Context, userID uuid.UUID, query string) ([]*ContentItem, error)
	GetActionCenter(ctx context.Context, userID uuid.UUID) (*ActionCenter, error)

	// Bulk operations
	BulkUpdateStatus(ctx context.Context, req BulkStatusRequest) (int, error)
	BulkAddTags(ctx context.Context, req BulkTagsRequest) (int, error)
	BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error)

	// Export operations
	ExportItems(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]byte, error)
	ArchiveExport(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (*ExportArchive, error)
	// ExportFileName names a CSV download made now, by the service clock.
	ExportFileName() string

	// Generation operations
	Generate(ctx context.Context, userID, itemID uuid.UUID) (*GeneratedContent, error)
	GenerateFor(ctx context.Context, item ContentItem) (*GeneratedContent, error)
	GenerateWithAI(ctx context.Context, item ContentItem) (*GeneratedContent, error)
	SaveGenerated(ctx context.Context, userID, itemID uuid.UUID, generated *GeneratedContent) ([]*OutputSlot, error)

	// Saved view operations
	ListViews(ctx context.Context, userID uuid.UUID) ([]*SavedView, error)
	CreateView(ctx context.Context, req CreateViewRequest) (*SavedView, error)
	UpdateView(ctx context.Context, req UpdateViewRequest) (*SavedView, error)
	DeleteView(ctx context.Context, userID, id uuid.UUID) error
	GetDefaultView(ctx context.Context, userID uuid.UUID) (*SavedView, error)

	// Output slot operations
	ListSlots(ctx context.Context, userID, itemID uuid.UUID) ([]*OutputSlot, error)
	CreateSlot(ctx context.Context, req CreateSlotRequest) (*OutputSlot, error)
	UpdateSlot(ctx context.Context, req UpdateSlotRequest) (*OutputSlot, error)
	DeleteSlot(ctx context.Context, userID, id uuid.UUID) error
	PinSlot(ctx context.Context, userID, slotID uuid.UUID) (*OutputSlot, error)

	// AIEnabled reports whether GenerateWithAI has a provider
	AIEnabled() bool
}
