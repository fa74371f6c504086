package planner

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// Generator produces captions, hashtags and title ideas for a content item.
type Generator interface {
	Generate(ctx context.Context, item ContentItem) (*GeneratedContent, error)
}

// AIGenerator produces GeneratedContent by prompting a hosted language model.
type AIGenerator interface {
	// Name identifies the provider in logs and cache keys (e.g. "gemini")
	Name() string

	GenerateContent(ctx context.Context, item ContentItem) (*GeneratedContent, error)
}

// GenerationCache stores AI generations keyed by an opaque string.
type GenerationCache interface {
	// Get returns the cached value and true, or nil and false on a miss
	Get(ctx context.Context, key string) (*GeneratedContent, bool, error)

	// Set stores value for ttl
	Set(ctx context.Context, key string, value *GeneratedContent, ttl time.Duration) error
}

// BlobStore defines the interface for export archive storage backends
type BlobStore interface {
	// Upload stores the reader contents under objectKey
	Upload(ctx context.Context, objectKey string, reader io.Reader, mimeType string) error

	// Download opens the object stored under objectKey
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes the object stored under objectKey
	Delete(ctx context.Context, objectKey string) error

	// GetDownloadURL returns a URL for downloading the object, or an error
	// when the backend only supports direct download
	GetDownloadURL(ctx context.Context, objectKey string, downloadFilename string) (string, error)
}

// Repository defines the interface for item, view and slot persistence.
// Every method is scoped to userID.
type Repository interface {
	// Content item operations
	CreateItem(ctx context.Context, item *ContentItem) error
	GetItem(ctx context.Context, userID, id uuid.UUID) (*ContentItem, error)
	UpdateItem(ctx context.Context, item *ContentItem) error
	ListItems(ctx context.Context, userID uuid.UUID, filter ItemFilter) ([]*ContentItem, error)
	UpdateItemsStatus(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, status Status, at time.Time) (int, error)
	DeleteItems(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error)

	// Saved view operations
	CreateView(ctx context.Context, view *SavedView) error
	GetView(ctx context.Context, userID, id uuid.UUID) (*SavedView, error)
	UpdateView(ctx context.Context, view *SavedView) error
	DeleteView(ctx context.Context, userID, id uuid.UUID) error
	ListViews(ctx context.Context, userID uuid.UUID) ([]*SavedView, error)
	ClearDefaultViews(ctx context.Context, userID uuid.UUID) error

	// Output slot operations
	CreateSlot(ctx context.Context, slot *OutputSlot) error
	GetSlot(ctx context.Context, userID, id uuid.UUID) (*OutputSlot, error)
	UpdateSlot(ctx context.Context, slot *OutputSlot) error
	DeleteSlot(ctx context.Context, userID, id uuid.UUID) error
	ListSlots(ctx context.Context, userID, itemID uuid.UUID) ([]*OutputSlot, error)
	UnpinSlots(ctx context.Context, userID, itemID uuid.UUID, slotType SlotType) error
}

// EventSink defines the interface for event handling
type EventSink interface {
	// ItemCreated is fired when an item is created
	ItemCreated(ctx context.Context, item *ContentItem) error

	// ItemUpdated is fired when an item is updated
	ItemUpdated(ctx context.Context, item *ContentItem) error

	// ItemsDeleted is fired after a delete removed count items
	ItemsDeleted(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, count int) error

	// ContentGenerated is fired after a successful generation
	ContentGenerated(ctx context.Context, item *ContentItem, source string) error
}
