// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"blogcms/internal/models"
	"blogcms/internal/slug"
	"blogcms/internal/store"
	"blogcms/internal/tree"
)

// Create validates in and stores a new category owned by creatorID. The
// slug is derived from the name when absent. The result has Parent and
// CreatedBy populated.
func (m *Manager) Create(ctx context.Context, in models.CategoryInput, creatorID uuid.UUID) (*models.Category, error) {
	if in.Name == nil {
		return nil, models.NewValidationError("name", "is required")
	}

	c := &models.Category{
		ID:          uuid.New(),
		Status:      models.CategoryStatusActive,
		CreatedByID: creatorID,
	}
	if err := applyInput(c, in); err != nil {
		return nil, err
	}
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
		if c.Slug == "" {
			return nil, models.NewValidationError("slug", "cannot be derived from name; provide one")
		}
	}

	if in.Parent != nil && in.Parent.Valid {
		parent, err := m.categories.FindByID(ctx, in.Parent.UUID)
		if err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		if parent == nil {
			return nil, models.ErrParentNotFound
		}
		// The new id cannot already be referenced, but a stale record
		// pointing at it would close a loop.
		if parent.ParentID != nil && *parent.ParentID == c.ID {
			return nil, models.ErrCircularHierarchy
		}
		pid := parent.ID
		c.ParentID = &pid
	}

	taken, err := m.categories.SlugTaken(ctx, c.Slug, nil)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	if taken {
		return nil, models.ErrDuplicateSlug
	}

	if in.SortOrder == nil {
		next, err := m.categories.NextSortOrder(ctx, c.ParentID)
		if err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		c.SortOrder = next
	}

	created, err := m.categories.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	m.changed(ctx, created.ID)

	slog.Info("category created", "id", created.ID, "slug", created.Slug, "parent", created.ParentID)
	return m.populateOne(ctx, created), nil
}

// Update applies the provided fields of in to the category id. Moving a
// category under itself or under one of its own descendants is rejected.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, in models.CategoryInput) (*models.Category, error) {
	c, err := m.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	oldSlug := c.Slug

	if err := applyInput(c, in); err != nil {
		return nil, err
	}

	if in.Parent != nil {
		if !in.Parent.Valid {
			c.ParentID = nil
		} else if err := m.checkParent(ctx, id, in.Parent.UUID); err != nil {
			return nil, err
		} else {
			pid := in.Parent.UUID
			c.ParentID = &pid
		}
	}

	if c.Slug != oldSlug {
		taken, err := m.categories.SlugTaken(ctx, c.Slug, &id)
		if err != nil {
			return nil, fmt.Errorf("update category: %w", err)
		}
		if taken {
			return nil, models.ErrDuplicateSlug
		}
	}

	if err := m.categories.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	m.changed(ctx, id)

	updated, err := m.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.populateOne(ctx, updated), nil
}

// checkParent verifies that parentID may become the parent of id.
func (m *Manager) checkParent(ctx context.Context, id, parentID uuid.UUID) error {
	if parentID == id {
		return models.ErrSelfParent
	}
	parent, err := m.categories.FindByID(ctx, parentID)
	if err != nil {
		return fmt.Errorf("check parent: %w", err)
	}
	if parent == nil {
		return models.ErrParentNotFound
	}

	cycle, err := tree.Reaches(ctx, parentID, id, m.find, m.maxWalk)
	if errors.Is(err, tree.ErrDepthExceeded) {
		slog.Warn("ancestor walk hit depth limit", "id", id, "parent", parentID, "limit", m.maxWalk)
		return models.ErrCircularHierarchy
	}
	if err != nil {
		return fmt.Errorf("check parent: %w", err)
	}
	if cycle {
		return models.ErrCircularHierarchy
	}
	return nil
}

// Delete removes a category that has no posts and no subcategories.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := m.mustFind(ctx, id); err != nil {
		return err
	}

	posts, err := m.posts.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if posts > 0 {
		return models.ErrHasPosts
	}

	children, err := m.categories.CountChildren(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if children > 0 {
		return models.ErrHasSubcategories
	}

	if err := m.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	m.changed(ctx, id)

	slog.Info("category deleted", "id", id)
	return nil
}

// Get returns a category by id or slug with its breadcrumb and active
// direct children.
func (m *Manager) Get(ctx context.Context, ref string) (*models.CategoryDetail, error) {
	var c *models.Category
	var err error
	if id, perr := uuid.Parse(ref); perr == nil {
		c, err = m.categories.FindByID(ctx, id)
	} else {
		c, err = m.categories.FindBySlug(ctx, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if c == nil {
		return nil, models.ErrNotFound
	}

	crumbs, err := m.Breadcrumb(ctx, c)
	if err != nil {
		return nil, err
	}

	kids, err := m.categories.List(ctx, store.CategoryFilter{ParentID: &c.ID, Status: models.CategoryStatusActive})
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if kids == nil {
		kids = []*models.Category{}
	}

	return &models.CategoryDetail{
		Category:      m.populateOne(ctx, c),
		Breadcrumb:    crumbs,
		Subcategories: kids,
	}, nil
}

// List returns a flat, populated listing ordered by sort order then name.
func (m *Manager) List(ctx context.Context, f store.CategoryFilter) ([]*models.Category, error) {
	cats, err := m.categories.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if err := m.populate(ctx, cats...); err != nil {
		slog.Warn("populate categories", "error", err)
	}
	if cats == nil {
		cats = []*models.Category{}
	}
	return cats, nil
}

// Reorder applies a batch of sibling orders and parent moves atomically.
// The batch is validated against the tree as it will look afterwards.
func (m *Manager) Reorder(ctx context.Context, items []store.ReorderItem) error {
	if len(items) == 0 {
		return models.NewValidationError("items", "at least one item is required")
	}

	all, err := m.categories.List(ctx, store.CategoryFilter{})
	if err != nil {
		return fmt.Errorf("reorder categories: %w", err)
	}
	proposed := make(map[uuid.UUID]*models.Category, len(all))
	for _, c := range all {
		proposed[c.ID] = c
	}

	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		c, ok := proposed[item.ID]
		if !ok {
			return models.ErrNotFound
		}
		if seen[item.ID] {
			return models.NewValidationError("items", "category listed twice: "+item.ID.String())
		}
		seen[item.ID] = true
		if item.ParentID != nil {
			if *item.ParentID == item.ID {
				return models.ErrSelfParent
			}
			if _, ok := proposed[*item.ParentID]; !ok {
				return models.ErrParentNotFound
			}
		}
		c.ParentID = item.ParentID
		c.SortOrder = item.Order
	}

	find := func(_ context.Context, id uuid.UUID) (*models.Category, bool, error) {
		c, ok := proposed[id]
		return c, ok, nil
	}
	for _, item := range items {
		if item.ParentID == nil {
			continue
		}
		cycle, err := tree.Reaches(ctx, *item.ParentID, item.ID, find, m.maxWalk)
		if err != nil || cycle {
			return models.ErrCircularHierarchy
		}
	}

	if err := m.categories.Reorder(ctx, items); err != nil {
		return fmt.Errorf("reorder categories: %w", err)
	}
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	m.changed(ctx, ids...)

	slog.Info("categories reordered", "count", len(items))
	return nil
}

// PostsInCategory lists the published posts of a category, optionally
// including every descendant category.
func (m *Manager) PostsInCategory(ctx context.Context, id uuid.UUID, includeDescendants bool, limit, offset int) ([]*models.Post, int, error) {
	if _, err := m.mustFind(ctx, id); err != nil {
		return nil, 0, err
	}

	ids := []uuid.UUID{id}
	if includeDescendants {
		desc, err := m.CollectDescendantIDs(ctx, id)
		if err != nil {
			return nil, 0, err
		}
		ids = append(ids, desc...)
	}

	posts, total, err := m.posts.List(ctx, store.PostFilter{
		CategoryIDs: ids,
		Status:      models.PostStatusPublished,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("posts in category: %w", err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return posts, total, nil
}
