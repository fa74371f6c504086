package postgres

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/content-planner/pkg/planner"
)

//go:embed schema.sql
var schema string

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements planner.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

var _ planner.Repository = (*Repository)(nil)

// EnsureSchema creates the tables and indexes if they do not exist
func EnsureSchema(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "one_default") {
				return fmt.Errorf("another saved view is already the default")
			}
			if strings.Contains(pgErr.ConstraintName, "one_pinned") {
				return fmt.Errorf("another slot of this type is already pinned")
			}
			return fmt.Errorf("duplicate entry")
		case "23503": // foreign_key_violation
			return planner.ErrItemNotFound
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing", pgErr.ColumnName)
		case "23514": // check_violation
			return fmt.Errorf("value rejected by constraint %s", pgErr.ConstraintName)
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Content item operations

const itemColumns = `id, user_id, title, platform, status, notes, yt_link, tags, created_at, updated_at`

func scanItem(row pgx.Row) (*planner.ContentItem, error) {
	var item planner.ContentItem
	err := row.Scan(
		&item.ID, &item.UserID, &item.Title, &item.Platform, &item.Status,
		&item.Notes, &item.YTLink, &item.Tags, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) CreateItem(ctx context.Context, item *planner.ContentItem) error {
	query := `
		INSERT INTO content_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(ctx, query,
		item.ID, item.UserID, item.Title, item.Platform, item.Status,
		item.Notes, item.YTLink, item.Tags, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create item", err)
	}
	return nil
}

func (r *Repository) GetItem(ctx context.Context, userID, id uuid.UUID) (*planner.ContentItem, error) {
	query := `SELECT ` + itemColumns + ` FROM content_items WHERE id = $1 AND user_id = $2`

	item, err := scanItem(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, planner.ErrItemNotFound
		}
		return nil, r.handlePostgresError("get item", err)
	}
	return item, nil
}

func (r *Repository) UpdateItem(ctx context.Context, item *planner.ContentItem) error {
	query := `
		UPDATE content_items SET
			title = $3, platform = $4, status = $5, notes = $6,
			yt_link = $7, tags = $8, updated_at = $9
		WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query,
		item.ID, item.UserID, item.Title, item.Platform, item.Status,
		item.Notes, item.YTLink, item.Tags, item.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update item", err)
	}
	if tag.RowsAffected() == 0 {
		return planner.ErrItemNotFound
	}
	return nil
}

func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, filter planner.ItemFilter) ([]*planner.ContentItem, error) {
	query := `SELECT ` + itemColumns + ` FROM content_items WHERE user_id = $1`
	args := []interface{}{userID}
	argIndex := 2

	if len(filter.IDs) > 0 {
		query += fmt.Sprintf(" AND id = ANY($%d)", argIndex)
		args = append(args, filter.IDs)
		argIndex++
	}
	if filter.Platform != nil {
		query += fmt.Sprintf(" AND platform = $%d", argIndex)
		args = append(args, *filter.Platform)
		argIndex++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}
	if filter.Query != "" {
		// strpos avoids escaping LIKE wildcards in user input
		query += fmt.Sprintf(` AND (strpos(lower(title), $%[1]d) > 0
			OR strpos(lower(coalesce(notes, '')), $%[1]d) > 0
			OR strpos(lower(coalesce(tags, '')), $%[1]d) > 0
			OR strpos(lower(coalesce(yt_link, '')), $%[1]d) > 0)`, argIndex)
		args = append(args, strings.ToLower(filter.Query))
		argIndex++
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list items", err)
	}
	defer rows.Close()

	items := []*planner.ContentItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate item rows", err)
	}
	return items, nil
}

func (r *Repository) UpdateItemsStatus(ctx context.Context, userID uuid.UUID, ids []uuid.UUID, status planner.Status, at time.Time) (int, error) {
	query := `UPDATE content_items SET status = $3, updated_at = $4 WHERE user_id = $1 AND id = ANY($2)`

	tag, err := r.db.Exec(ctx, query, userID, ids, status, at)
	if err != nil {
		return 0, r.handlePostgresError("update items status", err)
	}
	return int(tag.RowsAffected()), nil
}

func (r *Repository) DeleteItems(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int, error) {
	query := `DELETE FROM content_items WHERE user_id = $1 AND id = ANY($2)`

	tag, err := r.db.Exec(ctx, query, userID, ids)
	if err != nil {
		return 0, r.handlePostgresError("delete items", err)
	}
	return int(tag.RowsAffected()), nil
}

// Saved view operations

const viewColumns = `id, user_id, name, filter, is_default, created_at, updated_at`

func scanView(row pgx.Row) (*planner.SavedView, error) {
	var view planner.SavedView
	var filter []byte
	err := row.Scan(&view.ID, &view.UserID, &view.Name, &filter, &view.IsDefault, &view.CreatedAt, &view.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(filter) > 0 {
		if err := json.Unmarshal(filter, &view.Filter); err != nil {
			return nil, fmt.Errorf("decode view filter: %w", err)
		}
	}
	return &view, nil
}

func (r *Repository) CreateView(ctx context.Context, view *planner.SavedView) error {
	filter, err := json.Marshal(view.Filter)
	if err != nil {
		return fmt.Errorf("encode view filter: %w", err)
	}

	query := `
		INSERT INTO saved_views (` + viewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.Exec(ctx, query,
		view.ID, view.UserID, view.Name, filter, view.IsDefault, view.CreatedAt, view.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create view", err)
	}
	return nil
}

func (r *Repository) GetView(ctx context.Context, userID, id uuid.UUID) (*planner.SavedView, error) {
	query := `SELECT ` + viewColumns + ` FROM saved_views WHERE id = $1 AND user_id = $2`

	view, err := scanView(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, planner.ErrViewNotFound
		}
		return nil, r.handlePostgresError("get view", err)
	}
	return view, nil
}

func (r *Repository) UpdateView(ctx context.Context, view *planner.SavedView) error {
	filter, err := json.Marshal(view.Filter)
	if err != nil {
		return fmt.Errorf("encode view filter: %w", err)
	}

	query := `
		UPDATE saved_views SET name = $3, filter = $4, is_default = $5, updated_at = $6
		WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, view.ID, view.UserID, view.Name, filter, view.IsDefault, view.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update view", err)
	}
	if tag.RowsAffected() == 0 {
		return planner.ErrViewNotFound
	}
	return nil
}

func (r *Repository) DeleteView(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM saved_views WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return r.handlePostgresError("delete view", err)
	}
	if tag.RowsAffected() == 0 {
		return planner.ErrViewNotFound
	}
	return nil
}

func (r *Repository) ListViews(ctx context.Context, userID uuid.UUID) ([]*planner.SavedView, error) {
	query := `SELECT ` + viewColumns + ` FROM saved_views WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, r.handlePostgresError("list views", err)
	}
	defer rows.Close()

	views := []*planner.SavedView{}
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan view", err)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate view rows", err)
	}
	return views, nil
}

func (r *Repository) ClearDefaultViews(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE saved_views SET is_default = false WHERE user_id = $1 AND is_default`, userID)
	if err != nil {
		return r.handlePostgresError("clear default views", err)
	}
	return nil
}

// Output slot operations

const slotColumns = `id, content_item_id, user_id, slot_type, content, is_pinned, created_at, updated_at`

func scanSlot(row pgx.Row) (*planner.OutputSlot, error) {
	var slot planner.OutputSlot
	err := row.Scan(
		&slot.ID, &slot.ContentItemID, &slot.UserID, &slot.SlotType,
		&slot.Content, &slot.IsPinned, &slot.CreatedAt, &slot.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *Repository) CreateSlot(ctx context.Context, slot *planner.OutputSlot) error {
	// The item must exist and belong to the same user
	query := `
		INSERT INTO output_slots (` + slotColumns + `)
		SELECT $1::uuid, id, user_id, $3::varchar, $4::text, $5::boolean, $6::timestamptz, $7::timestamptz
		FROM content_items WHERE id = $2 AND user_id = $8`

	tag, err := r.db.Exec(ctx, query,
		slot.ID, slot.ContentItemID, slot.SlotType, slot.Content,
		slot.IsPinned, slot.CreatedAt, slot.UpdatedAt, slot.UserID)
	if err != nil {
		return r.handlePostgresError("create slot", err)
	}
	if tag.RowsAffected() == 0 {
		return planner.ErrItemNotFound
	}
	return nil
}

func (r *Repository) GetSlot(ctx context.Context, userID, id uuid.UUID) (*planner.OutputSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM output_slots WHERE id = $1 AND user_id = $2`

	slot, err := scanSlot(r.db.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, planner.ErrSlotNotFound
		}
		return nil, r.handlePostgresError("get slot", err)
	}
	return slot, nil
}

func (r *Repository) UpdateSlot(ctx context.Context, slot *planner.OutputSlot) error {
	query := `
		UPDATE output_slots SET content = $3, is_pinned = $4, updated_at = $5
		WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, slot.ID, slot.UserID, slot.Content, slot.IsPinned, slot.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update slot", err)
	}
	if tag.RowsAffected() == 0 {
		return planner.ErrSlotNotFound
	}
	return nil
}

func (r *Repository) DeleteSlot(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM output_slots WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return r.handlePostgresError("delete slot", err)
	}
	if tag.RowsAffected() == 0 {
		return planner.ErrSlotNotFound
	}
	return nil
}

func (r *Repository) ListSlots(ctx context.Context, userID, itemID uuid.UUID) ([]*planner.OutputSlot, error) {
	query := `SELECT ` + slotColumns + ` FROM output_slots
		WHERE content_item_id = $1 AND user_id = $2 ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, itemID, userID)
	if err != nil {
		return nil, r.handlePostgresError("list slots", err)
	}
	defer rows.Close()

	slots := []*planner.OutputSlot{}
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan slot", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("iterate slot rows", err)
	}
	return slots, nil
}

func (r *Repository) UnpinSlots(ctx context.Context, userID, itemID uuid.UUID, slotType planner.SlotType) error {
	query := `
		UPDATE output_slots SET is_pinned = false
		WHERE content_item_id = $1 AND user_id = $2 AND slot_type = $3 AND is_pinned`

	if _, err := r.db.Exec(ctx, query, itemID, userID, slotType); err != nil {
		return r.handlePostgresError("unpin slots", err)
	}
	return nil
}
