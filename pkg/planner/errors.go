package planner

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error types
var (
	// ErrItemNotFound indicates a content item was not found for the user
	ErrItemNotFound = errors.New("content item not found")

	// ErrViewNotFound indicates a saved view was not found for the user
	ErrViewNotFound = errors.New("saved view not found")

	// ErrSlotNotFound indicates an output slot was not found for the user
	ErrSlotNotFound = errors.New("output slot not found")

	// ErrInvalidPlatform indicates a platform outside the supported set
	ErrInvalidPlatform = errors.New("invalid platform")

	// ErrInvalidStatus indicates a status outside the supported set
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidTitle indicates an empty content item title
	ErrInvalidTitle = errors.New("title is required")

	// ErrInvalidSlotType indicates an unknown output slot type
	ErrInvalidSlotType = errors.New("invalid slot type")

	// ErrInvalidViewName indicates an empty saved view name
	ErrInvalidViewName = errors.New("view name is required")

	// ErrNoItemsSelected indicates a bulk operation was called without IDs
	ErrNoItemsSelected = errors.New("no items selected")

	// ErrNothingUpdated indicates a bulk update matched no rows
	ErrNothingUpdated = errors.New("no items were modified")

	// ErrAIUnavailable indicates AI generation was requested but no provider is configured
	ErrAIUnavailable = errors.New("ai generation not configured")

	// ErrMalformedResponse indicates an AI provider answer could not be parsed
	ErrMalformedResponse = errors.New("malformed ai response")

	// ErrObjectNotFound indicates a blob store key has no object
	ErrObjectNotFound = errors.New("object not found")

	// ErrBlobStoreNotConfigured indicates an export archive was requested without a blob store
	ErrBlobStoreNotConfigured = errors.New("blob store not configured")
)

// IsValidationError reports whether err is caused by invalid caller input.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidPlatform) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidTitle) ||
		errors.Is(err, ErrInvalidSlotType) ||
		errors.Is(err, ErrInvalidViewName) ||
		errors.Is(err, ErrNoItemsSelected)
}

// IsNotFound reports whether err is one of the not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrViewNotFound) ||
		errors.Is(err, ErrSlotNotFound)
}

// ItemError represents an error related to content item operations
type ItemError struct {
	ItemID uuid.UUID
	Op     string
	Err    error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item operation %s failed for item %s: %v", e.Op, e.ItemID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to blob storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
