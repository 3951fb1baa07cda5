// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"blogcms/internal/cache"
	"blogcms/internal/models"
	"blogcms/internal/store"
	"blogcms/internal/tree"
)

// BuildTree returns the root categories matching status (empty means any),
// each with subcategories nested TreeDepth levels deep and Parent and
// CreatedBy populated on every node. Every level uses
// the same status filter and is ordered by sort order, then name.
//
// When includeEmpty is false, roots without published posts are dropped.
// Only roots are filtered; empty children under a kept root stay.
func (m *Manager) BuildTree(ctx context.Context, status models.CategoryStatus, includeEmpty bool) ([]*models.Category, error) {
	key := cache.TreeKey(status, includeEmpty, m.depth)
	if cached, ok := m.cache.Get(ctx, key); ok {
		return cached, nil
	}

	flat, err := m.categories.List(ctx, store.CategoryFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("build category tree: %w", err)
	}
	if err := m.populate(ctx, flat...); err != nil {
		return nil, fmt.Errorf("build category tree: %w", err)
	}

	roots := tree.Build(flat, m.depth, func(parent *models.Category, kids []*models.Category) {
		parent.Subcategories = kids
	})
	if !includeEmpty {
		roots = slices.DeleteFunc(roots, func(c *models.Category) bool {
			return c.Stats.TotalPosts == 0
		})
	}
	if roots == nil {
		roots = []*models.Category{}
	}

	m.cache.Set(ctx, key, roots)
	return roots, nil
}

// Breadcrumb returns the ancestors of c, root first, excluding c itself.
// The walk stops at a missing parent.
func (m *Manager) Breadcrumb(ctx context.Context, c *models.Category) ([]models.CategoryRef, error) {
	ancestors, err := tree.Ancestors(ctx, c, m.find, m.maxWalk)
	if errors.Is(err, tree.ErrDepthExceeded) {
		slog.Warn("breadcrumb truncated", "id", c.ID, "limit", m.maxWalk)
	} else if err != nil {
		return nil, fmt.Errorf("breadcrumb: %w", err)
	}

	crumbs := make([]models.CategoryRef, len(ancestors))
	for i, a := range ancestors {
		crumbs[len(ancestors)-1-i] = a.Ref()
	}
	return crumbs, nil
}

// CollectDescendantIDs returns every category below id. The order carries
// no meaning; callers treat the result as a set.
func (m *Manager) CollectDescendantIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	ids, err := tree.Descendants(ctx, id, m.categories.ChildIDs, m.maxWalk)
	if errors.Is(err, tree.ErrDepthExceeded) {
		slog.Warn("descendant walk truncated", "id", id, "limit", m.maxWalk)
		return ids, nil
	}
	if err != nil {
		return nil, fmt.Errorf("collect descendants: %w", err)
	}
	return ids, nil
}
