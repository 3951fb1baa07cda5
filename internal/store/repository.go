// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"blogcms/internal/models"
)

// CategoryFilter narrows category listings. Zero values mean "any".
type CategoryFilter struct {
	Status    models.CategoryStatus
	RootsOnly bool
	ParentID  *uuid.UUID
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID       uuid.UUID  `json:"id"`
	ParentID *uuid.UUID `json:"parent_id"`
	Order    int        `json:"order"`
}

// CategoryRepository persists categories. Lookups by id or slug return
// (nil, nil) when nothing matches. Listings are ordered by sort order,
// then name.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Category, error)
	List(ctx context.Context, f CategoryFilter) ([]*models.Category, error)
	ChildIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	CountChildren(ctx context.Context, id uuid.UUID) (int, error)
	SlugTaken(ctx context.Context, slug string, exclude *uuid.UUID) (bool, error)
	NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
	Reparent(ctx context.Context, from []uuid.UUID, to uuid.UUID) (int64, error)
	Reorder(ctx context.Context, items []ReorderItem) error
	SetStats(ctx context.Context, id uuid.UUID, stats models.CategoryStats) error
}

// PostFilter narrows post listings. An empty CategoryIDs means any category.
type PostFilter struct {
	CategoryIDs []uuid.UUID
	Status      models.PostStatus
	Limit       int
	Offset      int
}

// PostRepository persists posts. The hierarchy manager only needs the
// category link and the published aggregates.
type PostRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context, f PostFilter) ([]*models.Post, int, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
	PublishedStats(ctx context.Context, categoryID uuid.UUID) (models.CategoryStats, error)
	Reassign(ctx context.Context, from []uuid.UUID, to uuid.UUID) (int64, error)
}

// CommentFilter narrows the moderation listing.
type CommentFilter struct {
	PostID *uuid.UUID
	Status models.CommentStatus
	Limit  int
	Offset int
}

// CommentRepository persists comments and their reactions. Every returned
// comment carries its like and dislike sets. Listings are newest first.
type CommentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID, status models.CommentStatus) ([]*models.Comment, error)
	List(ctx context.Context, f CommentFilter) ([]*models.Comment, int, error)
	Create(ctx context.Context, c *models.Comment) (*models.Comment, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string, editedBy *uuid.UUID, editedAt time.Time) error
	SetStatus(ctx context.Context, id uuid.UUID, status models.CommentStatus) error
	SetStatusMany(ctx context.Context, ids []uuid.UUID, status models.CommentStatus) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetReaction(ctx context.Context, commentID, userID uuid.UUID, kind models.Reaction) error
	ApprovedCounts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

// UserRepository reads the shared users table. Accounts are managed by the
// auth service; Create exists for seeding.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.User, error)
	Create(ctx context.Context, u *models.User, password string) (*models.User, error)
}

// Repositories bundles the four stores so callers can swap drivers.
type Repositories struct {
	Categories CategoryRepository
	Posts      PostRepository
	Comments   CommentRepository
	Users      UserRepository
}

// NewPostgres returns the PostgreSQL-backed repositories sharing db.
func NewPostgres(db *sql.DB) Repositories {
	return Repositories{
		Categories: NewCategoryStore(db),
		Posts:      NewPostStore(db),
		Comments:   NewCommentStore(db),
		Users:      NewUserStore(db),
	}
}

// idStrings converts ids for use with ANY($n::uuid[]).
func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
