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

// PostStore handles the post records categories and comments hang off.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, status, category_id, views, author_id,
	published_at, created_at, updated_at`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Status, &p.CategoryID, &p.Views, &p.AuthorID,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// List returns one page of posts matching f, newest first, plus the total
// number of matches.
func (s *PostStore) List(ctx context.Context, f PostFilter) ([]*models.Post, int, error) {
	var where []string
	var args []any
	if len(f.CategoryIDs) > 0 {
		args = append(args, idStrings(f.CategoryIDs))
		where = append(where, "category_id = ANY($"+strconv.Itoa(len(args))+"::uuid[])")
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	q := `SELECT ` + postColumns + ` FROM posts` + cond +
		` ORDER BY published_at DESC NULLS LAST, created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		q += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var items []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

// Create inserts a new post and returns it with the generated ID.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	// If publishing, set the published_at timestamp.
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	result, err := scanPost(s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, status, category_id, views, author_id, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Status, p.CategoryID, p.Views, p.AuthorID, p.PublishedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return result, nil
}

// Update modifies an existing post.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	// If transitioning to published and no published_at set, set it now.
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, status = $3, category_id = $4, views = $5,
			published_at = $6, updated_at = NOW()
		WHERE id = $7
	`, p.Title, p.Slug, p.Status, p.CategoryID, p.Views, p.PublishedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID. Its comments go with it.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// CountByCategory returns the number of posts of any status in a category.
func (s *PostStore) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE category_id = $1`, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts by category: %w", err)
	}
	return count, nil
}

// PublishedStats aggregates the published posts of a category.
func (s *PostStore) PublishedStats(ctx context.Context, categoryID uuid.UUID) (models.CategoryStats, error) {
	var st models.CategoryStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(views), 0)
		FROM posts WHERE category_id = $1 AND status = 'published'
	`, categoryID).Scan(&st.TotalPosts, &st.TotalViews)
	if err != nil {
		return models.CategoryStats{}, fmt.Errorf("aggregate category posts: %w", err)
	}
	return st, nil
}

// Reassign moves every post in a category listed in from to category to.
func (s *PostStore) Reassign(ctx context.Context, from []uuid.UUID, to uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET category_id = $1, updated_at = NOW()
		WHERE category_id = ANY($2::uuid[])
	`, to, idStrings(from))
	if err != nil {
		return 0, fmt.Errorf("reassign posts: %w", err)
	}
	return res.RowsAffected()
}
