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
)

// UpdateStats recomputes a category's counters from its published posts.
// It is idempotent. Unknown ids return ErrNotFound.
func (m *Manager) UpdateStats(ctx context.Context, id uuid.UUID) (models.CategoryStats, error) {
	if _, err := m.mustFind(ctx, id); err != nil {
		return models.CategoryStats{}, err
	}
	stats, err := m.posts.PublishedStats(ctx, id)
	if err != nil {
		return models.CategoryStats{}, fmt.Errorf("update category stats: %w", err)
	}
	if err := m.categories.SetStats(ctx, id, stats); err != nil {
		return models.CategoryStats{}, fmt.Errorf("update category stats: %w", err)
	}
	m.changed(ctx)
	return stats, nil
}

// RefreshStatsBestEffort recomputes the stats of every distinct non-nil
// category in ids. Failures are logged and never returned; a stale counter
// must not fail the post write that triggered it.
func (m *Manager) RefreshStatsBestEffort(ctx context.Context, ids ...*uuid.UUID) {
	done := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if id == nil || done[*id] {
			continue
		}
		done[*id] = true
		if _, err := m.UpdateStats(ctx, *id); err != nil {
			slog.Warn("category stats refresh failed", "category", *id, "error", err)
		}
	}
}
