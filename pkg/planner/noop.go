package planner

import (
	"context"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) ItemCreated(ctx context.Context, item *ContentItem) error {
	return nil
}

func (n *NoopEventSink) ItemUpdated(ctx context.Context, item *ContentItem) error {
	return nil
}

func (n *NoopEventSink) ItemsDeleted(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, count int) error {
	return nil
}

func (n *NoopEventSink) ContentGenerated(ctx context.Context, item *ContentItem, source string) error {
	return nil
}
