// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"blogcms/internal/models"
	"blogcms/internal/store"
)

// Categories implements store.CategoryRepository.
type Categories struct {
	s *Store
}

var _ store.CategoryRepository = (*Categories)(nil)

func cloneCategory(c *models.Category) *models.Category {
	cp := *c
	cp.ParentID = copyID(c.ParentID)
	cp.Parent = nil
	cp.CreatedBy = nil
	cp.Subcategories = nil
	return &cp
}

func sortCategories(items []*models.Category) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].Name < items[j].Name
	})
}

func (r *Categories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return cloneCategory(c), nil
}

func (r *Categories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.categories {
		if c.Slug == slug {
			return cloneCategory(c), nil
		}
	}
	return nil, nil
}

func (r *Categories) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.Category
	for id := range idSet(ids) {
		if c, ok := r.s.categories[id]; ok {
			out = append(out, cloneCategory(c))
		}
	}
	return out, nil
}

func (r *Categories) List(_ context.Context, f store.CategoryFilter) ([]*models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.Category
	for _, c := range r.s.categories {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.RootsOnly && c.ParentID != nil {
			continue
		}
		if f.ParentID != nil && !sameParent(c.ParentID, f.ParentID) {
			continue
		}
		out = append(out, cloneCategory(c))
	}
	sortCategories(out)
	return out, nil
}

func (r *Categories) ChildIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	kids, err := r.List(ctx, store.CategoryFilter{ParentID: &id})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(kids))
	for i, c := range kids {
		ids[i] = c.ID
	}
	return ids, nil
}

func (r *Categories) CountChildren(ctx context.Context, id uuid.UUID) (int, error) {
	ids, err := r.ChildIDs(ctx, id)
	return len(ids), err
}

func (r *Categories) SlugTaken(_ context.Context, slug string, exclude *uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.categories {
		if c.Slug == slug && (exclude == nil || c.ID != *exclude) {
			return true, nil
		}
	}
	return false, nil
}

func (r *Categories) NextSortOrder(_ context.Context, parentID *uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	next := 0
	for _, c := range r.s.categories {
		if sameParent(c.ParentID, parentID) && c.SortOrder >= next {
			next = c.SortOrder + 1
		}
	}
	return next, nil
}

func (r *Categories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.categories {
		if existing.Slug == c.Slug {
			return nil, fmt.Errorf("create category: slug %q already exists", c.Slug)
		}
	}

	stored := cloneCategory(c)
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if _, ok := r.s.categories[stored.ID]; ok {
		return nil, fmt.Errorf("create category: id %s already exists", stored.ID)
	}
	now := time.Now().UTC()
	stored.CreatedAt, stored.UpdatedAt = now, now
	stored.Stats = models.CategoryStats{}
	r.s.categories[stored.ID] = stored
	return cloneCategory(stored), nil
}

func (r *Categories) Update(_ context.Context, c *models.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.categories[c.ID]
	if !ok {
		return nil
	}
	updated := cloneCategory(c)
	updated.Stats = existing.Stats
	updated.CreatedByID = existing.CreatedByID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.s.categories[c.ID] = updated
	return nil
}

func (r *Categories) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.deleteCategory(id)
	return nil
}

func (r *Categories) DeleteMany(_ context.Context, ids []uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id := range idSet(ids) {
		if _, ok := r.s.categories[id]; ok {
			r.s.deleteCategory(id)
			n++
		}
	}
	return n, nil
}

// deleteCategory mirrors the ON DELETE SET NULL foreign keys. Callers hold mu.
func (s *Store) deleteCategory(id uuid.UUID) {
	delete(s.categories, id)
	for _, c := range s.categories {
		if c.ParentID != nil && *c.ParentID == id {
			c.ParentID = nil
		}
	}
	for _, p := range s.posts {
		if p.CategoryID != nil && *p.CategoryID == id {
			p.CategoryID = nil
		}
	}
}

func (r *Categories) Reparent(_ context.Context, from []uuid.UUID, to uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	src := idSet(from)
	now := time.Now().UTC()
	var n int64
	for _, c := range r.s.categories {
		if c.ParentID != nil && src[*c.ParentID] {
			c.ParentID = copyID(&to)
			c.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *Categories) Reorder(_ context.Context, items []store.ReorderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, item := range items {
		if _, ok := r.s.categories[item.ID]; !ok {
			return fmt.Errorf("reorder category %s: not found", item.ID)
		}
	}
	now := time.Now().UTC()
	for _, item := range items {
		c := r.s.categories[item.ID]
		c.ParentID = copyID(item.ParentID)
		c.SortOrder = item.Order
		c.UpdatedAt = now
	}
	return nil
}

func (r *Categories) SetStats(_ context.Context, id uuid.UUID, stats models.CategoryStats) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c, ok := r.s.categories[id]; ok {
		c.Stats = stats
	}
	return nil
}
