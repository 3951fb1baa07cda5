// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package thread

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"blogcms/internal/models"
)

// Approve makes a comment publicly visible.
func (m *Manager) Approve(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return m.SetStatus(ctx, id, models.CommentStatusApproved)
}

// MarkSpam hides a comment as spam.
func (m *Manager) MarkSpam(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return m.SetStatus(ctx, id, models.CommentStatusSpam)
}

// SetStatus moves a comment to any moderation state.
func (m *Manager) SetStatus(ctx context.Context, id uuid.UUID, status models.CommentStatus) (*models.Comment, error) {
	if !status.Valid() {
		return nil, models.NewValidationError("status", "is not a comment status")
	}
	c, err := m.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Status == status {
		return c, nil
	}

	if err := m.comments.SetStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("set comment status: %w", err)
	}

	slog.Info("comment moderated", "id", id, "from", c.Status, "to", status)
	return m.mustFind(ctx, id)
}

// BulkSetStatus moves every listed comment to status and returns how many
// existed.
func (m *Manager) BulkSetStatus(ctx context.Context, ids []uuid.UUID, status models.CommentStatus) (int64, error) {
	if len(ids) == 0 {
		return 0, models.NewValidationError("ids", "at least one comment is required")
	}
	if !status.Valid() {
		return 0, models.NewValidationError("status", "is not a comment status")
	}

	n, err := m.comments.SetStatusMany(ctx, ids, status)
	if err != nil {
		return 0, fmt.Errorf("bulk set comment status: %w", err)
	}

	slog.Info("comments moderated", "count", n, "to", status)
	return n, nil
}
