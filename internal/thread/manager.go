// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package thread manages post comments: guest and member submissions,
// owner edits and deletes, like/dislike toggles, moderation and the nested
// reply tree shown under a post.
//
// Replies are not stored on the parent. A comment's replies are whatever
// comments name it as parent, so deleting a comment never leaves a dangling
// reference behind; its replies simply stop being reachable from the tree.
package thread

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"blogcms/internal/markdown"
	"blogcms/internal/models"
	"blogcms/internal/screening"
	"blogcms/internal/store"
)

// DefaultTreeDepth is how many reply levels GetTree nests below the
// top-level comments when Options leaves it at zero.
const DefaultTreeDepth = 2

// Options tunes a Manager.
type Options struct {
	TreeDepth int
	// DefaultStatus is the moderation state of new comments. Defaults to
	// pending.
	DefaultStatus models.CommentStatus
	// Screener files flagged submissions as spam. Nil skips screening.
	Screener screening.Screener
}

// Manager implements the comment operations.
type Manager struct {
	comments      store.CommentRepository
	posts         store.PostRepository
	depth         int
	defaultStatus models.CommentStatus
	screener      screening.Screener
}

// New creates a Manager.
func New(comments store.CommentRepository, posts store.PostRepository, opts Options) *Manager {
	if opts.TreeDepth <= 0 {
		opts.TreeDepth = DefaultTreeDepth
	}
	if !opts.DefaultStatus.Valid() {
		opts.DefaultStatus = models.CommentStatusPending
	}
	return &Manager{
		comments:      comments,
		posts:         posts,
		depth:         opts.TreeDepth,
		defaultStatus: opts.DefaultStatus,
		screener:      opts.Screener,
	}
}

// mustFind returns the comment or ErrNotFound.
func (m *Manager) mustFind(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	c, err := m.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, models.ErrNotFound
	}
	return c, nil
}

// renderContent fills ContentHTML. A comment that fails to render is
// returned with only its raw content.
func renderContent(comments ...*models.Comment) {
	for _, c := range comments {
		html, err := markdown.ToHTML(c.Content)
		if err != nil {
			slog.Warn("render comment failed", "id", c.ID, "error", err)
			continue
		}
		c.ContentHTML = html
	}
}

// normalizeEmail is the form emails are stored and compared in.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ownedBy reports whether email matches the comment author's email.
// Ownership is decided by email alone because guest comments have no user.
func ownedBy(c *models.Comment, email string) bool {
	e := normalizeEmail(email)
	return e != "" && e == normalizeEmail(c.Author.Email)
}
