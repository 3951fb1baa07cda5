// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"blogcms/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, color, icon,
	meta_title, meta_description, sort_order, status, total_posts, total_views,
	created_by, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.Color, &c.Icon,
		&c.MetaTitle, &c.MetaDescription, &c.SortOrder, &c.Status,
		&c.Stats.TotalPosts, &c.Stats.TotalViews,
		&c.CreatedByID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryStore) query(ctx context.Context, q string, args ...any) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// List returns categories matching f ordered by sort_order, then name.
func (s *CategoryStore) List(ctx context.Context, f CategoryFilter) ([]*models.Category, error) {
	var where []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if f.RootsOnly {
		where = append(where, "parent_id IS NULL")
	}
	if f.ParentID != nil {
		args = append(args, *f.ParentID)
		where = append(where, "parent_id = $"+strconv.Itoa(len(args)))
	}

	q := `SELECT ` + categoryColumns + ` FROM categories`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY sort_order, name`

	items, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// FindByIDs returns the categories that exist among ids, in no particular order.
func (s *CategoryStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	items, err := s.query(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ANY($1::uuid[])`, idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("find categories by ids: %w", err)
	}
	return items, nil
}

// ChildIDs returns the ids of the direct children of a category.
func (s *CategoryStore) ChildIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM categories WHERE parent_id = $1 ORDER BY sort_order, name`, id)
	if err != nil {
		return nil, fmt.Errorf("list child categories: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var cid uuid.UUID
		if err := rows.Scan(&cid); err != nil {
			return nil, fmt.Errorf("scan child category: %w", err)
		}
		ids = append(ids, cid)
	}
	return ids, rows.Err()
}

// CountChildren returns how many categories have id as their parent.
func (s *CategoryStore) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE parent_id = $1`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count child categories: %w", err)
	}
	return n, nil
}

// SlugTaken reports whether another category already uses slug.
func (s *CategoryStore) SlugTaken(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND ($2::uuid IS NULL OR id <> $2))
	`, slug, exclude).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return exists, nil
}

// NextSortOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// Create inserts a new category and returns it. A zero ID is generated by
// the database.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	id := c.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (id, name, slug, description, parent_id, color, icon,
			meta_title, meta_description, sort_order, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+categoryColumns,
		id, c.Name, c.Slug, c.Description, c.ParentID, c.Color, c.Icon,
		c.MetaTitle, c.MetaDescription, c.SortOrder, c.Status, c.CreatedByID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// Update writes the editable fields of an existing category. Stats and
// created_by are left alone.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4, color = $5,
			icon = $6, meta_title = $7, meta_description = $8, sort_order = $9,
			status = $10, updated_at = NOW()
		WHERE id = $11
	`, c.Name, c.Slug, c.Description, c.ParentID, c.Color,
		c.Icon, c.MetaTitle, c.MetaDescription, c.SortOrder,
		c.Status, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// Delete removes a category by ID.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// DeleteMany removes every category in ids and returns how many went.
func (s *CategoryStore) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ANY($1::uuid[])`, idStrings(ids))
	if err != nil {
		return 0, fmt.Errorf("delete categories: %w", err)
	}
	return res.RowsAffected()
}

// Reparent moves every child of a category in from under to.
func (s *CategoryStore) Reparent(ctx context.Context, from []uuid.UUID, to uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET parent_id = $1, updated_at = NOW()
		WHERE parent_id = ANY($2::uuid[])
	`, to, idStrings(from))
	if err != nil {
		return 0, fmt.Errorf("reparent categories: %w", err)
	}
	return res.RowsAffected()
}

// Reorder updates sort_order and parent_id for multiple categories in a transaction.
func (s *CategoryStore) Reorder(ctx context.Context, items []ReorderItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE categories SET parent_id = $1, sort_order = $2, updated_at = $3
		WHERE id = $4`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.ParentID, item.Order, now, item.ID); err != nil {
			return fmt.Errorf("reorder category %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

// SetStats stores recomputed counters for a category.
func (s *CategoryStore) SetStats(ctx context.Context, id uuid.UUID, stats models.CategoryStats) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE categories SET total_posts = $1, total_views = $2 WHERE id = $3
	`, stats.TotalPosts, stats.TotalViews, id)
	if err != nil {
		return fmt.Errorf("set category stats: %w", err)
	}
	return nil
}
