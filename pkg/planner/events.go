package planner

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LoggingEventSink writes every event to a slog.Logger at info level.
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates an EventSink backed by logger. A nil logger
// falls back to slog.Default().
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger.With("component", "events")}
}

func (s *LoggingEventSink) ItemCreated(ctx context.Context, item *ContentItem) error {
	s.logger.InfoContext(ctx, "Item created",
		"item_id", item.ID, "user_id", item.UserID, "platform", item.Platform, "status", item.Status)
	return nil
}

func (s *LoggingEventSink) ItemUpdated(ctx context.Context, item *ContentItem) error {
	s.logger.InfoContext(ctx, "Item updated",
		"item_id", item.ID, "user_id", item.UserID, "status", item.Status)
	return nil
}

func (s *LoggingEventSink) ItemsDeleted(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, count int) error {
	s.logger.InfoContext(ctx, "Items deleted", "user_id", userID, "requested", len(ids), "deleted", count)
	return nil
}

func (s *LoggingEventSink) ContentGenerated(ctx context.Context, item *ContentItem, source string) error {
	s.logger.InfoContext(ctx, "Content generated",
		"item_id", item.ID, "platform", item.Platform, "source", source)
	return nil
}
