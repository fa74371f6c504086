package planner

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	recentWindow    = 7 * 24 * time.Hour
	staleWindow     = 14 * 24 * time.Hour
	searchLimit     = 50
	defaultCacheTTL = 24 * time.Hour
)

// service implements the Service interface
type service struct {
	repository Repository
	generator  Generator
	ai         AIGenerator
	cache      GenerationCache
	cacheTTL   time.Duration
	blobName   string
	blobStore  BlobStore
	eventSink  EventSink
	logger     *slog.Logger
	now        func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithGenerator sets the template generator for the service
func WithGenerator(g Generator) Option {
	return func(s *service) {
		s.generator = g
	}
}

// WithAIGenerator enables GenerateWithAI using the given provider
func WithAIGenerator(ai AIGenerator) Option {
	return func(s *service) {
		s.ai = ai
	}
}

// WithGenerationCache caches AI generations for ttl. A zero ttl uses 24h.
func WithGenerationCache(cache GenerationCache, ttl time.Duration) Option {
	return func(s *service) {
		s.cache = cache
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithBlobStore sets the backend export archives are written to
func WithBlobStore(name string, store BlobStore) Option {
	return func(s *service) {
		s.blobName = name
		s.blobStore = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the logger used for non-fatal failures
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		cacheTTL: defaultCacheTTL,
		logger:   slog.Default(),
		now:      time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}

	return s, nil
}

func (s *service) timestamp() time.Time {
	return s.now().UTC()
}

// Content item operations

func (s *service) CreateItem(ctx context.Context, req CreateItemRequest) (*ContentItem, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrInvalidTitle
	}
	if !req.Platform.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPlatform, req.Platform)
	}
	status := req.Status
	if status == "" {
		status = StatusIdea
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	now := s.timestamp()
	item := &ContentItem{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Title:     title,
		Platform:  req.Platform,
		Status:    status,
		Notes:     req.Notes,
		YTLink:    req.YTLink,
		Tags:      req.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repository.CreateItem(ctx, item); err != nil {
		return nil, &ItemError{ItemID: item.ID, Op: "create", Err: err}
	}

	if err := s.eventSink.ItemCreated(ctx, item); err != nil {
		s.logger.WarnContext(ctx, "Event sink failed", "event", "item_created", "err", err)
	}

	return item, nil
}

func (s *service) GetItem(ctx context.Context, userID, id uuid.UUID) (*ContentItem, error) {
	item, err := s.repository.GetItem(ctx, userID, id)
	if err != nil {
		return nil, &ItemError{ItemID: id, Op: "get", Err: err}
	}
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, req UpdateItemRequest) (*ContentItem, error) {
	item, err := s.repository.GetItem(ctx, req.UserID, req.ID)
	if err != nil {
		return nil, &ItemError{ItemID: req.ID, Op: "update", Err: err}
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrInvalidTitle
		}
		item.Title = title
	}
	if req.Platform != nil {
		if !req.Platform.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPlatform, *req.Platform)
		}
		item.Platform = *req.Platform
	}
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
		}
		item.Status = *req.Status
	}
	if req.Notes != nil {
		item.Notes = StringPtr(*req.Notes)
	}
	if req.YTLink != nil {
		item.YTLink = StringPtr(*req.YTLink)
	}
	if req.Tags != nil {
		item.Tags = StringPtr(*req.Tags)
	}
	item.UpdatedAt = s.timestamp()

	if err := s.repository.UpdateItem(ctx, item); err != nil {
		return nil, &ItemError{ItemID: item.ID, Op: "update", Err: err}
	}

	if err := s.eventSink.ItemUpdated(ctx, item); err != nil {
		s.logger.WarnContext(ctx, "Event sink failed", "event", "item_updated", "err", err)
	}

	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, userID, id uuid.UUID) error {
	n, err := s.repository.DeleteItems(ctx, userID, []uuid.UUID{id})
	if err != nil {
		return &ItemError{ItemID: id, Op: "delete", Err: err}
	}
	if n == 0 {
		return &ItemError{ItemID: id, Op: "delete", Err: ErrItemNotFound}
	}

	if err := s.eventSink.ItemsDeleted(ctx, userID, []uuid.UUID{id}, n); err != nil {
		s.logger.WarnContext(ctx, "Event sink failed", "event", "items_deleted", "err", err)
	}
	return nil
}

func (s *service) ListItems(ctx context.Context, req ListItemsRequest) ([]*ContentItem, error) {
	if req.Filter.Platform != nil && !req.Filter.Platform.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPlatform, *req.Filter.Platform)
	}
	if req.Filter.Status != nil && !req.Filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Filter.Status)
	}
	return s.repository.ListItems(ctx, req.UserID, req.Filter)
}

func (s *service) SearchItems(ctx context.Context, userID uuid.UUID, query string) ([]*ContentItem, error) {
	return s.repository.ListItems(ctx, userID, ItemFilter{
		Query: strings.TrimSpace(query),
		Limit: searchLimit,
	})
}

func (s *service) GetActionCenter(ctx context.Context, userID uuid.UUID) (*ActionCenter, error) {
	items, err := s.repository.ListItems(ctx, userID, ItemFilter{})
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	recentCutoff := now.Add(-recentWindow)
	staleCutoff := now.Add(-staleWindow)

	ac := &ActionCenter{
		IdeasAndDrafts:  []*ContentItem{},
		RecentlyCreated: []*ContentItem{},
		Stale:           []*ContentItem{},
	}
	for _, item := range items {
		if item.Status == StatusIdea || item.Status == StatusDraft {
			ac.IdeasAndDrafts = append(ac.IdeasAndDrafts, item)
		}
		if !item.CreatedAt.Before(recentCutoff) {
			ac.RecentlyCreated = append(ac.RecentlyCreated, item)
		}
		if item.LastModified().Before(staleCutoff) {
			ac.Stale = append(ac.Stale, item)
		}
	}
	return ac, nil
}

// Bulk operations

func (s *service) BulkUpdateStatus(ctx context.Context, req BulkStatusRequest) (int, error) {
	if len(req.IDs) == 0 {
		return 0, ErrNoItemsSelected
	}
	if !req.Status.IsValid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	n, err := s.repository.UpdateItemsStatus(ctx, req.UserID, req.IDs, req.Status, s.timestamp())
	if err != nil {
		return 0, fmt.Errorf("bulk status update: %w", err)
	}
	if n == 0 {
		return 0, ErrNothingUpdated
	}

	s.logger.InfoContext(ctx, "Bulk status updated",
		"user_id", req.UserID, "requested", len(req.IDs), "updated", n, "status", req.Status)
	return n, nil
}

func (s *service) BulkAddTags(ctx context.Context, req BulkTagsRequest) (int, error) {
	if len(req.IDs) == 0 {
		return 0, ErrNoItemsSelected
	}

	items, err := s.repository.ListItems(ctx, req.UserID, ItemFilter{IDs: req.IDs})
	if err != nil {
		return 0, fmt.Errorf("bulk add tags: %w", err)
	}

	now := s.timestamp()
	updated := 0
	for _, item := range items {
		item.Tags = StringPtr(MergeTags(item.Tags, req.Tags))
		item.UpdatedAt = now
		if err := s.repository.UpdateItem(ctx, item); err != nil {
			s.logger.WarnContext(ctx, "Failed to merge tags", "item_id", item.ID, "err", err)
			continue
		}
		updated++
	}
	return updated, nil
}

func (s *service) BulkDelete(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, ErrNoItemsSelected
	}

	n, err := s.repository.DeleteItems(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk delete: %w", err)
	}

	if err := s.eventSink.ItemsDeleted(ctx, userID, ids, n); err != nil {
		s.logger.WarnContext(ctx, "Event sink failed", "event", "items_deleted", "err", err)
	}
	return n, nil
}

// Export operations

func (s *service) exportItems(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]*ContentItem, error) {
	items, err := s.repository.ListItems(ctx, userID, ItemFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return items, nil
}

func (s *service) ExportItems(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]byte, error) {
	items, err := s.exportItems(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	return EncodeCSV(items), nil
}

func (s *service) ExportFileName() string {
	return ExportFileName(s.timestamp())
}

func (s *service) ArchiveExport(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (*ExportArchive, error) {
	if s.blobStore == nil {
		return nil, ErrBlobStoreNotConfigured
	}

	items, err := s.exportItems(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	now := s.timestamp()
	fileName := ExportFileName(now)
	key := fmt.Sprintf("exports/%s/%s-%s.csv",
		userID, strings.TrimSuffix(fileName, ".csv"), uuid.NewString()[:8])

	if err := s.blobStore.Upload(ctx, key, bytes.NewReader(EncodeCSV(items)), ExportMimeType); err != nil {
		return nil, &StorageError{Backend: s.blobName, Key: key, Op: "upload", Err: err}
	}

	archive := &ExportArchive{
		Key:       key,
		Backend:   s.blobName,
		FileName:  fileName,
		Rows:      len(items),
		CreatedAt: now,
	}
	// Backends without URL support (memory, fs without prefix) still archive.
	if url, err := s.blobStore.GetDownloadURL(ctx, key, fileName); err == nil {
		archive.DownloadURL = url
	}
	return archive, nil
}

// Generation operations

func (s *service) Generate(ctx context.Context, userID, itemID uuid.UUID) (*GeneratedContent, error) {
	item, err := s.repository.GetItem(ctx, userID, itemID)
	if err != nil {
		return nil, &ItemError{ItemID: itemID, Op: "generate", Err: err}
	}
	return s.GenerateFor(ctx, *item)
}

func (s *service) GenerateFor(ctx context.Context, item ContentItem) (*GeneratedContent, error) {
	generated, err := s.generator.Generate(ctx, item)
	if err != nil {
		return nil, err
	}
	if err := s.eventSink.ContentGenerated(ctx, &item, "template"); err != nil {
		s.logger.WarnContext(ctx, "Event sink failed", "event", "content_generated", "err", err)
	}
	return generated, nil
}

func (s *service) AIEnabled() bool {
	return s.ai != nil
}

func (s *service) GenerateWithAI(ctx context.Context, item ContentItem) (*GeneratedContent, error) {
	if s.ai == nil {
		return nil, ErrAIUnavailable
	}
	if err := ValidateForGeneration(item); err != nil {
		return nil, err
	}

	key := s.cacheKey(item)
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "Generation cache read failed", "err", err)
		} else if ok {
			s.logger.DebugContext(ctx, "Generation cache hit", "provider", s.ai.Name())
			return cached, nil
		}
	}

	generated, err := s.ai.GenerateContent(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("%s generation: %w", s.ai.Name(), err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, generated, s.cacheTTL); err != nil {
			s.logger.WarnContext(ctx, "Generation cache write failed", "err", err)
		}
	}
	if err := s.eventSink.ContentGenerated(ctx, &item, s.ai.Name()); err != nil {
		s.logger.WarnContext(ctx, "Event sink failed", "event", "content_generated", "err", err)
	}
	return generated, nil
}

func (s *service) cacheKey(item ContentItem) string {
	h := sha256.New()
	for _, part := range []string{
		s.ai.Name(),
		string(item.Platform),
		item.Title,
		StringValue(item.Notes),
		StringValue(item.Tags),
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return "generation:" + hex.EncodeToString(h.Sum(nil))
}

func (s *service) SaveGenerated(ctx context.Context, userID, itemID uuid.UUID, generated *GeneratedContent) ([]*OutputSlot, error) {
	if generated == nil {
		return nil, errors.New("generated content is required")
	}
	if _, err := s.repository.GetItem(ctx, userID, itemID); err != nil {
		return nil, &ItemError{ItemID: itemID, Op: "save generated", Err: err}
	}

	type entry struct {
		slotType SlotType
		content  string
	}
	entries := make([]entry, 0, len(generated.TitleIdeas)+3)
	for _, title := range generated.TitleIdeas {
		entries = append(entries, entry{SlotTypeTitle, title})
	}
	entries = append(entries,
		entry{SlotTypeDescription, generated.Description},
		entry{SlotTypeHashtags, strings.Join(generated.Hashtags, " ")},
		entry{SlotTypePinnedComment, generated.PinnedComment},
	)

	now := s.timestamp()
	slots := make([]*OutputSlot, 0, len(entries))
	for i, e := range entries {
		// Microsecond offsets keep slots in generation order once listed.
		at := now.Add(time.Duration(i) * time.Microsecond)
		slot := &OutputSlot{
			ID:            uuid.New(),
			ContentItemID: itemID,
			UserID:        userID,
			SlotType:      e.slotType,
			Content:       e.content,
			CreatedAt:     at,
			UpdatedAt:     at,
		}
		if err := s.repository.CreateSlot(ctx, slot); err != nil {
			return slots, fmt.Errorf("save %s slot: %w", e.slotType, err)
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

// Saved view operations

func (s *service) ListViews(ctx context.Context, userID uuid.UUID) ([]*SavedView, error) {
	return s.repository.ListViews(ctx, userID)
}

func (s *service) CreateView(ctx context.Context, req CreateViewRequest) (*SavedView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidViewName
	}
	if err := validateFilter(req.Filter); err != nil {
		return nil, err
	}

	if req.IsDefault {
		if err := s.repository.ClearDefaultViews(ctx, req.UserID); err != nil {
			return nil, fmt.Errorf("clear default views: %w", err)
		}
	}

	now := s.timestamp()
	view := &SavedView{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Name:      name,
		Filter:    req.Filter,
		IsDefault: req.IsDefault,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repository.CreateView(ctx, view); err != nil {
		return nil, fmt.Errorf("create view: %w", err)
	}
	return view, nil
}

func (s *service) UpdateView(ctx context.Context, req UpdateViewRequest) (*SavedView, error) {
	view, err := s.repository.GetView(ctx, req.UserID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidViewName
		}
		view.Name = name
	}
	if req.Filter != nil {
		if err := validateFilter(*req.Filter); err != nil {
			return nil, err
		}
		view.Filter = *req.Filter
	}
	if req.IsDefault != nil {
		if *req.IsDefault {
			if err := s.repository.ClearDefaultViews(ctx, req.UserID); err != nil {
				return nil, fmt.Errorf("clear default views: %w", err)
			}
		}
		view.IsDefault = *req.IsDefault
	}
	view.UpdatedAt = s.timestamp()

	if err := s.repository.UpdateView(ctx, view); err != nil {
		return nil, fmt.Errorf("update view: %w", err)
	}
	return view, nil
}

func (s *service) DeleteView(ctx context.Context, userID, id uuid.UUID) error {
	return s.repository.DeleteView(ctx, userID, id)
}

func (s *service) GetDefaultView(ctx context.Context, userID uuid.UUID) (*SavedView, error) {
	views, err := s.repository.ListViews(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		if v.IsDefault {
			return v, nil
		}
	}
	return nil, nil
}

func validateFilter(f ItemFilter) error {
	if f.Platform != nil && !f.Platform.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPlatform, *f.Platform)
	}
	if f.Status != nil && !f.Status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *f.Status)
	}
	return nil
}

// Output slot operations

func (s *service) ListSlots(ctx context.Context, userID, itemID uuid.UUID) ([]*OutputSlot, error) {
	return s.repository.ListSlots(ctx, userID, itemID)
}

func (s *service) CreateSlot(ctx context.Context, req CreateSlotRequest) (*OutputSlot, error) {
	if !req.SlotType.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlotType, req.SlotType)
	}
	if _, err := s.repository.GetItem(ctx, req.UserID, req.ContentItemID); err != nil {
		return nil, &ItemError{ItemID: req.ContentItemID, Op: "create slot", Err: err}
	}

	if req.IsPinned {
		if err := s.repository.UnpinSlots(ctx, req.UserID, req.ContentItemID, req.SlotType); err != nil {
			return nil, fmt.Errorf("unpin slots: %w", err)
		}
	}

	now := s.timestamp()
	slot := &OutputSlot{
		ID:            uuid.New(),
		ContentItemID: req.ContentItemID,
		UserID:        req.UserID,
		SlotType:      req.SlotType,
		Content:       req.Content,
		IsPinned:      req.IsPinned,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repository.CreateSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("create slot: %w", err)
	}
	return slot, nil
}

func (s *service) UpdateSlot(ctx context.Context, req UpdateSlotRequest) (*OutputSlot, error) {
	slot, err := s.repository.GetSlot(ctx, req.UserID, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Content != nil {
		slot.Content = *req.Content
	}
	if req.IsPinned != nil {
		if *req.IsPinned && !slot.IsPinned {
			if err := s.repository.UnpinSlots(ctx, req.UserID, slot.ContentItemID, slot.SlotType); err != nil {
				return nil, fmt.Errorf("unpin slots: %w", err)
			}
		}
		slot.IsPinned = *req.IsPinned
	}
	slot.UpdatedAt = s.timestamp()

	if err := s.repository.UpdateSlot(ctx, slot); err != nil {
		return nil, fmt.Errorf("update slot: %w", err)
	}
	return slot, nil
}

func (s *service) DeleteSlot(ctx context.Context, userID, id uuid.UUID) error {
	return s.repository.DeleteSlot(ctx, userID, id)
}

func (s *service) PinSlot(ctx context.Context, userID, slotID uuid.UUID) (*OutputSlot, error) {
	pinned := true
	return s.UpdateSlot(ctx, UpdateSlotRequest{UserID: userID, ID: slotID, IsPinned: &pinned})
}
