package postgres_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/content-planner/pkg/planner"
	"github.com/tendant/content-planner/pkg/planner/repo/postgres"
)

// newTestRepository connects to TEST_DATABASE_URL and applies the schema in a
// throwaway schema that is dropped when the test ends.
func newTestRepository(t *testing.T) *postgres.Repository {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if testing.Short() {
		t.Skip("Skipping database test in short mode")
	}

	ctx := context.Background()
	schemaName := "planner_test_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")

	admin, err := pgxpool.New(ctx, connString)
	require.NoError(t, err, "Failed to connect to test database")
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schemaName)
	require.NoError(t, err)

	cfg, err := pgxpool.ParseConfig(connString)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schemaName
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schemaName+" CASCADE")
		admin.Close()
	})

	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	// Applying twice must be harmless
	require.NoError(t, postgres.EnsureSchema(ctx, pool))

	return postgres.NewWithPool(pool)
}

func TestPostgresRepository_Items(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()
	otherUser := uuid.New()
	base := time.Now().UTC().Truncate(time.Microsecond)

	notes := "100% real, no_wildcards"
	first := &planner.ContentItem{ID: uuid.New(), UserID: userID, Title: "Bake Bread", Platform: planner.PlatformYouTube, Status: planner.StatusIdea, Notes: &notes, CreatedAt: base, UpdatedAt: base}
	second := &planner.ContentItem{ID: uuid.New(), UserID: userID, Title: "Dance", Platform: planner.PlatformTikTok, Status: planner.StatusDraft, CreatedAt: base.Add(time.Second), UpdatedAt: base.Add(time.Second)}
	foreign := &planner.ContentItem{ID: uuid.New(), UserID: otherUser, Title: "Bake Cake", Platform: planner.PlatformYouTube, Status: planner.StatusIdea, CreatedAt: base, UpdatedAt: base}
	for _, item := range []*planner.ContentItem{first, second, foreign} {
		require.NoError(t, repo.CreateItem(ctx, item))
	}

	t.Run("GetItem scoped to user", func(t *testing.T) {
		got, err := repo.GetItem(ctx, userID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bake Bread", got.Title)
		assert.Equal(t, notes, *got.Notes)
		assert.Nil(t, got.Tags)

		_, err = repo.GetItem(ctx, otherUser, first.ID)
		assert.ErrorIs(t, err, planner.ErrItemNotFound)
	})

	t.Run("ListItems", func(t *testing.T) {
		items, err := repo.ListItems(ctx, userID, planner.ItemFilter{})
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, second.ID, items[0].ID)

		items, err = repo.ListItems(ctx, userID, planner.ItemFilter{Query: "% REAL"})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, first.ID, items[0].ID)

		items, err = repo.ListItems(ctx, userID, planner.ItemFilter{Query: "_"})
		require.NoError(t, err)
		assert.Len(t, items, 1)

		p := planner.PlatformTikTok
		items, err = repo.ListItems(ctx, userID, planner.ItemFilter{Platform: &p, Limit: 5})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, second.ID, items[0].ID)
	})

	t.Run("UpdateItem", func(t *testing.T) {
		first.Title = "Bake Better Bread"
		first.UpdatedAt = base.Add(time.Hour)
		require.NoError(t, repo.UpdateItem(ctx, first))

		got, err := repo.GetItem(ctx, userID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bake Better Bread", got.Title)

		foreignCopy := *foreign
		foreignCopy.UserID = userID
		assert.ErrorIs(t, repo.UpdateItem(ctx, &foreignCopy), planner.ErrItemNotFound)
	})

	t.Run("bulk status and delete", func(t *testing.T) {
		n, err := repo.UpdateItemsStatus(ctx, userID, []uuid.UUID{first.ID, second.ID, foreign.ID}, planner.StatusPosted, base.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = repo.DeleteItems(ctx, userID, []uuid.UUID{second.ID, foreign.ID})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestPostgresRepository_ViewsAndSlots(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	userID := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	status := planner.StatusDraft
	view := &planner.SavedView{ID: uuid.New(), UserID: userID, Name: "Drafts", Filter: planner.ItemFilter{Status: &status, Query: "bread"}, IsDefault: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateView(ctx, view))

	got, err := repo.GetView(ctx, userID, view.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Filter.Status)
	assert.Equal(t, planner.StatusDraft, *got.Filter.Status)
	assert.Equal(t, "bread", got.Filter.Query)

	require.NoError(t, repo.ClearDefaultViews(ctx, userID))
	views, err := repo.ListViews(ctx, userID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].IsDefault)

	item := &planner.ContentItem{ID: uuid.New(), UserID: userID, Title: "Slots", Platform: planner.PlatformInstagram, Status: planner.StatusIdea, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateItem(ctx, item))

	for i := 0; i < 3; i++ {
		at := now.Add(time.Duration(i) * time.Microsecond)
		slot := &planner.OutputSlot{ID: uuid.New(), ContentItemID: item.ID, UserID: userID, SlotType: planner.SlotTypeTitle, Content: fmt.Sprintf("title %d", i), IsPinned: i == 0, CreatedAt: at, UpdatedAt: at}
		require.NoError(t, repo.CreateSlot(ctx, slot))
	}

	err = repo.CreateSlot(ctx, &planner.OutputSlot{ID: uuid.New(), ContentItemID: item.ID, UserID: uuid.New(), SlotType: planner.SlotTypeTitle, Content: "x", CreatedAt: now, UpdatedAt: now})
	assert.ErrorIs(t, err, planner.ErrItemNotFound)

	slots, err := repo.ListSlots(ctx, userID, item.ID)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "title 0", slots[0].Content)
	assert.True(t, slots[0].IsPinned)

	require.NoError(t, repo.UnpinSlots(ctx, userID, item.ID, planner.SlotTypeTitle))
	slots[2].IsPinned = true
	require.NoError(t, repo.UpdateSlot(ctx, slots[2]))

	pinned, err := repo.GetSlot(ctx, userID, slots[2].ID)
	require.NoError(t, err)
	assert.True(t, pinned.IsPinned)

	_, err = repo.DeleteItems(ctx, userID, []uuid.UUID{item.ID})
	require.NoError(t, err)
	_, err = repo.GetSlot(ctx, userID, slots[0].ID)
	assert.ErrorIs(t, err, planner.ErrSlotNotFound)
}
