// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package thread

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"blogcms/internal/models"
	"blogcms/internal/tree"
)

// GetTree returns the top-level comments of a post in the given status
// (approved when empty), newest first, with replies of the same status
// nested TreeDepth levels deep. Replies whose parent is not in the result
// are left out.
func (m *Manager) GetTree(ctx context.Context, postID uuid.UUID, status models.CommentStatus) ([]*models.Comment, error) {
	if status == "" {
		status = models.CommentStatusApproved
	}
	if !status.Valid() {
		return nil, models.NewValidationError("status", "is not a comment status")
	}

	post, err := m.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("comment tree: %w", err)
	}
	if post == nil {
		return nil, models.ErrPostNotFound
	}

	flat, err := m.comments.ListByPost(ctx, postID, status)
	if err != nil {
		return nil, fmt.Errorf("comment tree: %w", err)
	}
	renderContent(flat...)

	roots := tree.Build(flat, m.depth, func(parent *models.Comment, replies []*models.Comment) {
		parent.Replies = replies
	})
	if roots == nil {
		roots = []*models.Comment{}
	}
	return roots, nil
}

// GetCommentCounts returns the number of approved comments for each post,
// including zero for posts without any.
func (m *Manager) GetCommentCounts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	counts, err := m.comments.ApprovedCounts(ctx, postIDs)
	if err != nil {
		return nil, fmt.Errorf("comment counts: %w", err)
	}
	for _, id := range postIDs {
		out[id] = counts[id]
	}
	return out, nil
}
