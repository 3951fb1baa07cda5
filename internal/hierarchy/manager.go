// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hierarchy maintains the category tree: creation and updates with
// cycle prevention, guarded deletes, breadcrumbs, descendant collection,
// derived post statistics and merges.
package hierarchy

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"blogcms/internal/cache"
	"blogcms/internal/loader"
	"blogcms/internal/models"
	"blogcms/internal/store"
)

// Defaults used when Options leaves a field at zero.
const (
	DefaultTreeDepth = 2
	DefaultMaxWalk   = 64
)

// Options tunes a Manager.
type Options struct {
	// TreeDepth is how many levels of subcategories BuildTree nests under
	// each root.
	TreeDepth int
	// MaxWalk bounds every ancestor and descendant walk.
	MaxWalk int
	// Cache holds built trees. Nil disables caching.
	Cache *cache.TreeCache
}

// Manager implements the category operations on top of the repositories.
type Manager struct {
	categories store.CategoryRepository
	posts      store.PostRepository
	users      store.UserRepository
	cache      *cache.TreeCache
	depth      int
	maxWalk    int
}

// New creates a Manager.
func New(categories store.CategoryRepository, posts store.PostRepository, users store.UserRepository, opts Options) *Manager {
	if opts.TreeDepth <= 0 {
		opts.TreeDepth = DefaultTreeDepth
	}
	if opts.MaxWalk <= 0 {
		opts.MaxWalk = DefaultMaxWalk
	}
	return &Manager{
		categories: categories,
		posts:      posts,
		users:      users,
		cache:      opts.Cache,
		depth:      opts.TreeDepth,
		maxWalk:    opts.MaxWalk,
	}
}

// find adapts FindByID to the tree walkers.
func (m *Manager) find(ctx context.Context, id uuid.UUID) (*models.Category, bool, error) {
	c, err := m.categories.FindByID(ctx, id)
	return c, c != nil, err
}

// mustFind returns the category or ErrNotFound.
func (m *Manager) mustFind(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := m.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, models.ErrNotFound
	}
	return c, nil
}

// changed drops cached trees and loader entries after a write.
func (m *Manager) changed(ctx context.Context, ids ...uuid.UUID) {
	m.cache.InvalidateAll(ctx)
	if l := loader.From(ctx); l != nil {
		for _, id := range ids {
			l.Forget(ctx, id)
		}
	}
}

// populate fills Parent and CreatedBy on each category with one batched
// lookup per kind. Unresolvable references are left nil.
func (m *Manager) populate(ctx context.Context, cats ...*models.Category) error {
	if len(cats) == 0 {
		return nil
	}
	l := loader.From(ctx)
	if l == nil {
		l = loader.New(m.users, m.categories)
	}

	var parentIDs, userIDs []uuid.UUID
	for _, c := range cats {
		if c.ParentID != nil {
			parentIDs = append(parentIDs, *c.ParentID)
		}
		if c.CreatedByID != uuid.Nil {
			userIDs = append(userIDs, c.CreatedByID)
		}
	}

	parents, err := l.CategoryRefs(ctx, parentIDs)
	if err != nil {
		return err
	}
	users, err := l.UserSummaries(ctx, userIDs)
	if err != nil {
		return err
	}

	for _, c := range cats {
		if c.ParentID != nil {
			if ref, ok := parents[*c.ParentID]; ok {
				c.Parent = &ref
			}
		}
		if u, ok := users[c.CreatedByID]; ok {
			c.CreatedBy = &u
		}
	}
	return nil
}

// populateOne is populate for a single category. Failures are logged; the
// category is still returned without its display references.
func (m *Manager) populateOne(ctx context.Context, c *models.Category) *models.Category {
	if err := m.populate(ctx, c); err != nil {
		slog.Warn("populate category", "id", c.ID, "error", err)
	}
	return c
}
