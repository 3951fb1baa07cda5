// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"blogcms/internal/models"
	"blogcms/internal/tree"
)

// MergeResult reports what a merge moved.
type MergeResult struct {
	Target             *models.Category `json:"target"`
	PostsMoved         int64            `json:"posts_moved"`
	SubcategoriesMoved int64            `json:"subcategories_moved"`
	Deleted            int64            `json:"deleted"`
}

// Merge moves every post and subcategory of the sources to target, deletes
// the sources and recomputes the target's stats. The steps run one after
// another without a transaction.
func (m *Manager) Merge(ctx context.Context, sourceIDs []uuid.UUID, targetID uuid.UUID) (*MergeResult, error) {
	if len(sourceIDs) == 0 {
		return nil, models.NewValidationError("source_ids", "at least one source is required")
	}

	var sources []uuid.UUID
	seen := make(map[uuid.UUID]bool, len(sourceIDs))
	for _, id := range sourceIDs {
		if id == targetID {
			return nil, models.NewValidationError("source_ids", "target cannot also be a source")
		}
		if !seen[id] {
			seen[id] = true
			sources = append(sources, id)
		}
	}

	target, err := m.categories.FindByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("merge categories: %w", err)
	}
	if target == nil {
		return nil, models.ErrTargetNotFound
	}

	found, err := m.categories.FindByIDs(ctx, sources)
	if err != nil {
		return nil, fmt.Errorf("merge categories: %w", err)
	}
	if len(found) != len(sources) {
		return nil, models.ErrSomeSourcesNotFound
	}

	// A target inside a source subtree would end up as its own ancestor.
	for _, src := range sources {
		inside, err := tree.Reaches(ctx, targetID, src, m.find, m.maxWalk)
		if err != nil || inside {
			return nil, models.ErrCircularHierarchy
		}
	}

	res := &MergeResult{}
	if res.PostsMoved, err = m.posts.Reassign(ctx, sources, targetID); err != nil {
		return nil, fmt.Errorf("merge categories: %w", err)
	}
	if res.SubcategoriesMoved, err = m.categories.Reparent(ctx, sources, targetID); err != nil {
		return nil, fmt.Errorf("merge categories: %w", err)
	}
	if res.Deleted, err = m.categories.DeleteMany(ctx, sources); err != nil {
		return nil, fmt.Errorf("merge categories: %w", err)
	}
	m.changed(ctx, append(sources, targetID)...)

	if _, err := m.UpdateStats(ctx, targetID); err != nil {
		slog.Warn("category stats refresh failed after merge", "category", targetID, "error", err)
	}

	if res.Target, err = m.mustFind(ctx, targetID); err != nil {
		return nil, err
	}
	m.populateOne(ctx, res.Target)

	slog.Info("categories merged", "target", targetID, "sources", len(sources),
		"posts_moved", res.PostsMoved, "subcategories_moved", res.SubcategoriesMoved)
	return res, nil
}
