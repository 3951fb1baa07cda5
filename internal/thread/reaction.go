// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package thread

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"blogcms/internal/models"
)

// ToggleLike adds userID to the likes of a comment, or removes it when
// already present. Liking clears a dislike by the same user.
func (m *Manager) ToggleLike(ctx context.Context, id, userID uuid.UUID) (models.ReactionCounts, error) {
	return m.toggle(ctx, id, userID, models.ReactionLike)
}

// ToggleDislike is ToggleLike for dislikes.
func (m *Manager) ToggleDislike(ctx context.Context, id, userID uuid.UUID) (models.ReactionCounts, error) {
	return m.toggle(ctx, id, userID, models.ReactionDislike)
}

// toggle is a read then a write with no compare-and-swap. Two concurrent
// toggles by the same user race and the last write wins.
func (m *Manager) toggle(ctx context.Context, id, userID uuid.UUID, kind models.Reaction) (models.ReactionCounts, error) {
	c, err := m.mustFind(ctx, id)
	if err != nil {
		return models.ReactionCounts{}, err
	}

	next := kind
	if c.ReactionOf(userID) == kind {
		next = models.ReactionNone
	}
	if err := m.comments.SetReaction(ctx, id, userID, next); err != nil {
		return models.ReactionCounts{}, fmt.Errorf("toggle %s: %w", kind, err)
	}

	c, err = m.mustFind(ctx, id)
	if err != nil {
		return models.ReactionCounts{}, err
	}
	return c.Counts(userID), nil
}
