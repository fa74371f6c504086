package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/content-planner/pkg/planner"
	"github.com/tendant/content-planner/pkg/planner/repo/memory"
)

func newItem(userID uuid.UUID, title string, platform planner.Platform, createdAt time.Time) *planner.ContentItem {
	return &planner.ContentItem{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Platform:  platform,
		Status:    planner.StatusIdea,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestMemoryRepository_ItemOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	userID := uuid.New()
	otherUser := uuid.New()

	t.Run("CreateAndGet", func(t *testing.T) {
		item := newItem(userID, "Test Item", planner.PlatformYouTube, time.Now())
		require.NoError(t, repo.CreateItem(ctx, item))

		retrieved, err := repo.GetItem(ctx, userID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.Title, retrieved.Title)
		assert.Equal(t, item.Platform, retrieved.Platform)
	})

	t.Run("GetItem_NotFound", func(t *testing.T) {
		item, err := repo.GetItem(ctx, userID, uuid.New())
		assert.ErrorIs(t, err, planner.ErrItemNotFound)
		assert.Nil(t, item)
	})

	t.Run("GetItem_OtherUser", func(t *testing.T) {
		item := newItem(userID, "Private", planner.PlatformTikTok, time.Now())
		require.NoError(t, repo.CreateItem(ctx, item))

		_, err := repo.GetItem(ctx, otherUser, item.ID)
		assert.ErrorIs(t, err, planner.ErrItemNotFound)
	})

	t.Run("ReturnsCopies", func(t *testing.T) {
		notes := "original"
		item := newItem(userID, "Copy", planner.PlatformFacebook, time.Now())
		item.Notes = &notes
		require.NoError(t, repo.CreateItem(ctx, item))

		notes = "changed by caller"
		retrieved, err := repo.GetItem(ctx, userID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "original", *retrieved.Notes)

		*retrieved.Notes = "changed again"
		again, err := repo.GetItem(ctx, userID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "original", *again.Notes)
	})

	t.Run("UpdateItem", func(t *testing.T) {
		item := newItem(userID, "Before", planner.PlatformInstagram, time.Now())
		require.NoError(t, repo.CreateItem(ctx, item))

		item.Title = "After"
		require.NoError(t, repo.UpdateItem(ctx, item))

		retrieved, err := repo.GetItem(ctx, userID, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "After", retrieved.Title)

		item.UserID = otherUser
		assert.ErrorIs(t, repo.UpdateItem(ctx, item), planner.ErrItemNotFound)
	})
}

func TestMemoryRepository_ListItems(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	userID := uuid.New()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	link := "https://youtu.be/Bread"
	tags := "cooking, Sourdough"
	oldest := newItem(userID, "Bake Bread", planner.PlatformYouTube, base)
	oldest.YTLink = &link
	middle := newItem(userID, "Dance Trend", planner.PlatformTikTok, base.Add(time.Hour))
	middle.Status = planner.StatusDraft
	newest := newItem(userID, "Pasta Night", planner.PlatformInstagram, base.Add(2*time.Hour))
	newest.Tags = &tags
	for _, item := range []*planner.ContentItem{oldest, middle, newest} {
		require.NoError(t, repo.CreateItem(ctx, item))
	}
	require.NoError(t, repo.CreateItem(ctx, newItem(uuid.New(), "Someone else", planner.PlatformYouTube, base)))

	t.Run("orders newest first", func(t *testing.T) {
		items, err := repo.ListItems(ctx, userID, planner.ItemFilter{})
		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, newest.ID, items[0].ID)
		assert.Equal(t, oldest.ID, items[2].ID)
	})

	t.Run("platform and status filters", func(t *testing.T) {
		p := planner.PlatformTikTok
		items, err := repo.ListItems(ctx, userID, planner.ItemFilter{Platform: &p})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, middle.ID, items[0].ID)

		s := planner.StatusIdea
		items, err = repo.ListItems(ctx, userID, planner.ItemFilter{Status: &s})
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("query is case-insensitive across fields", func(t *testing.T) {
		items, err := repo.ListItems(ctx, userID, planner.ItemFilter{Query: "sourdough"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, newest.ID, items[0].ID)

		items, err = repo.ListItems(ctx, userID, planner.ItemFilter{Query: "YOUTU.BE"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, oldest.ID, items[0].ID)
	})

	t.Run("ids and limit", func(t *testing.T) {
		items, err := repo.ListItems(ctx, userID, planner.ItemFilter{IDs: []uuid.UUID{oldest.ID, middle.ID}})
		require.NoError(t, err)
		assert.Len(t, items, 2)

		items, err = repo.ListItems(ctx, userID, planner.ItemFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, newest.ID, items[0].ID)
	})
}

func TestMemoryRepository_BulkOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	userID := uuid.New()
	otherUser := uuid.New()

	mine := newItem(userID, "Mine", planner.PlatformYouTube, time.Now())
	theirs := newItem(otherUser, "Theirs", planner.PlatformYouTube, time.Now())
	require.NoError(t, repo.CreateItem(ctx, mine))
	require.NoError(t, repo.CreateItem(ctx, theirs))

	at := time.Now().Add(time.Minute).UTC()
	n, err := repo.UpdateItemsStatus(ctx, userID, []uuid.UUID{mine.ID, theirs.ID, mine.ID}, planner.StatusPosted, at)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.GetItem(ctx, userID, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, planner.StatusPosted, got.Status)
	assert.Equal(t, at, got.UpdatedAt)

	got, err = repo.GetItem(ctx, otherUser, theirs.ID)
	require.NoError(t, err)
	assert.Equal(t, planner.StatusIdea, got.Status)

	slot := &planner.OutputSlot{ID: uuid.New(), ContentItemID: mine.ID, UserID: userID, SlotType: planner.SlotTypeTitle, Content: "x"}
	require.NoError(t, repo.CreateSlot(ctx, slot))

	n, err = repo.DeleteItems(ctx, userID, []uuid.UUID{mine.ID, theirs.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.GetSlot(ctx, userID, slot.ID)
	assert.ErrorIs(t, err, planner.ErrSlotNotFound)
	_, err = repo.GetItem(ctx, otherUser, theirs.ID)
	assert.NoError(t, err)
}

func TestMemoryRepository_ViewOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	p := planner.PlatformTikTok
	first := &planner.SavedView{ID: uuid.New(), UserID: userID, Name: "TikTok", Filter: planner.ItemFilter{Platform: &p}, IsDefault: true, CreatedAt: now}
	second := &planner.SavedView{ID: uuid.New(), UserID: userID, Name: "All", CreatedAt: now.Add(time.Second)}
	require.NoError(t, repo.CreateView(ctx, first))
	require.NoError(t, repo.CreateView(ctx, second))

	views, err := repo.ListViews(ctx, userID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, first.ID, views[0].ID)
	require.NotNil(t, views[0].Filter.Platform)
	assert.Equal(t, planner.PlatformTikTok, *views[0].Filter.Platform)

	require.NoError(t, repo.ClearDefaultViews(ctx, userID))
	got, err := repo.GetView(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDefault)

	_, err = repo.GetView(ctx, uuid.New(), first.ID)
	assert.ErrorIs(t, err, planner.ErrViewNotFound)

	require.NoError(t, repo.DeleteView(ctx, userID, first.ID))
	assert.ErrorIs(t, repo.DeleteView(ctx, userID, first.ID), planner.ErrViewNotFound)
}

func TestMemoryRepository_SlotOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now()

	item := newItem(userID, "Slots", planner.PlatformYouTube, now)
	require.NoError(t, repo.CreateItem(ctx, item))

	var ids []uuid.UUID
	for i, content := range []string{"a", "b", "c"} {
		slot := &planner.OutputSlot{
			ID:            uuid.New(),
			ContentItemID: item.ID,
			UserID:        userID,
			SlotType:      planner.SlotTypeTitle,
			Content:       content,
			IsPinned:      i == 0,
			CreatedAt:     now,
		}
		require.NoError(t, repo.CreateSlot(ctx, slot))
		ids = append(ids, slot.ID)
	}

	t.Run("CreateSlot requires owned item", func(t *testing.T) {
		err := repo.CreateSlot(ctx, &planner.OutputSlot{ID: uuid.New(), ContentItemID: item.ID, UserID: uuid.New()})
		assert.ErrorIs(t, err, planner.ErrItemNotFound)
	})

	t.Run("ListSlots keeps insertion order on equal timestamps", func(t *testing.T) {
		slots, err := repo.ListSlots(ctx, userID, item.ID)
		require.NoError(t, err)
		require.Len(t, slots, 3)
		assert.Equal(t, "a", slots[0].Content)
		assert.Equal(t, "c", slots[2].Content)
	})

	t.Run("UnpinSlots", func(t *testing.T) {
		require.NoError(t, repo.UnpinSlots(ctx, userID, item.ID, planner.SlotTypeTitle))
		slot, err := repo.GetSlot(ctx, userID, ids[0])
		require.NoError(t, err)
		assert.False(t, slot.IsPinned)
	})

	t.Run("DeleteSlot", func(t *testing.T) {
		require.NoError(t, repo.DeleteSlot(ctx, userID, ids[1]))
		slots, err := repo.ListSlots(ctx, userID, item.ID)
		require.NoError(t, err)
		assert.Len(t, slots, 2)
		assert.ErrorIs(t, repo.DeleteSlot(ctx, userID, ids[1]), planner.ErrSlotNotFound)
	})
}
