// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package thread

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"blogcms/internal/models"
	"blogcms/internal/store"
)

// Field limits for submitted comments.
const (
	MaxContentLen = 2000
	maxNameLen    = 100
	maxEmailLen   = 254
	maxWebsiteLen = 200
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CreateInput is a comment submission. Name, Email and Website are only
// read for guests; members are described by their principal.
type CreateInput struct {
	PostID    uuid.UUID
	ParentID  *uuid.UUID
	Content   string
	Name      string
	Email     string
	Website   string
	IPAddress string
	UserAgent string
}

// Create stores a new comment in the default moderation state. principal
// is nil for guests.
func (m *Manager) Create(ctx context.Context, in CreateInput, principal *models.Principal) (*models.Comment, error) {
	post, err := m.posts.FindByID(ctx, in.PostID)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	if post == nil {
		return nil, models.ErrPostNotFound
	}

	content, err := validContent(in.Content)
	if err != nil {
		return nil, err
	}

	author, err := buildAuthor(in, principal)
	if err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		parent, err := m.comments.FindByID(ctx, *in.ParentID)
		if err != nil {
			return nil, fmt.Errorf("create comment: %w", err)
		}
		if parent == nil {
			return nil, models.ErrParentNotFound
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("parent", "belongs to a different post")
		}
	}

	c, err := m.comments.Create(ctx, &models.Comment{
		PostID:   in.PostID,
		ParentID: in.ParentID,
		Content:  content,
		Author:   author,
		Status:   m.initialStatus(ctx, content),
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	slog.Info("comment created", "id", c.ID, "post", c.PostID, "parent", c.ParentID, "status", c.Status)
	renderContent(c)
	return c, nil
}

// initialStatus is the default status, or spam when the screener flags
// content. Screening failures are logged and ignored.
func (m *Manager) initialStatus(ctx context.Context, content string) models.CommentStatus {
	if m.screener == nil {
		return m.defaultStatus
	}
	res, err := m.screener.CheckSafety(ctx, content)
	if err != nil {
		slog.Warn("comment screening failed", "error", err)
		return m.defaultStatus
	}
	if !res.Safe {
		slog.Info("comment flagged by screening", "categories", res.Categories)
		return models.CommentStatusSpam
	}
	return m.defaultStatus
}

func validContent(s string) (string, error) {
	content := strings.TrimSpace(s)
	if content == "" {
		return "", models.NewValidationError("content", "is required")
	}
	if utf8.RuneCountInString(content) > MaxContentLen {
		return "", models.NewValidationError("content", "is too long (max 2000 characters)")
	}
	return content, nil
}

func buildAuthor(in CreateInput, p *models.Principal) (models.CommentAuthor, error) {
	author := models.CommentAuthor{
		IPAddress: in.IPAddress,
		UserAgent: in.UserAgent,
	}

	if p != nil {
		id := p.ID
		author.UserID = &id
		author.Name = p.DisplayName()
		author.Email = normalizeEmail(p.Email)
	} else {
		author.Name = strings.TrimSpace(in.Name)
		author.Email = normalizeEmail(in.Email)
		if author.Name == "" {
			return author, models.NewValidationError("name", "is required")
		}
		if utf8.RuneCountInString(author.Name) > maxNameLen {
			return author, models.NewValidationError("name", "is too long (max 100 characters)")
		}
		if author.Email == "" {
			return author, models.NewValidationError("email", "is required")
		}
		if len(author.Email) > maxEmailLen || !emailPattern.MatchString(author.Email) {
			return author, models.NewValidationError("email", "is not a valid address")
		}
	}

	author.Website = strings.TrimSpace(in.Website)
	if len(author.Website) > maxWebsiteLen {
		return author, models.NewValidationError("website", "is too long (max 200 characters)")
	}
	return author, nil
}

// Update replaces the content of a comment. Only the author, identified by
// email, may edit.
func (m *Manager) Update(ctx context.Context, id uuid.UUID, content string, requester *models.Principal) (*models.Comment, error) {
	c, err := m.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	if requester == nil || !ownedBy(c, requester.Email) {
		return nil, models.ErrForbidden
	}

	text, err := validContent(content)
	if err != nil {
		return nil, err
	}

	editor := requester.ID
	if err := m.comments.UpdateContent(ctx, id, text, &editor, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	updated, err := m.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	renderContent(updated)
	return updated, nil
}

// Delete removes a comment. The author or an elevated user may delete.
// Replies to the comment are kept but no longer reachable from the tree.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID, requester *models.Principal) error {
	c, err := m.mustFind(ctx, id)
	if err != nil {
		return err
	}
	if requester == nil || !(ownedBy(c, requester.Email) || requester.IsElevated()) {
		return models.ErrForbidden
	}

	if err := m.comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	slog.Info("comment deleted", "id", id, "by", requester.ID)
	return nil
}

// Get returns a single comment without its replies.
func (m *Manager) Get(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	c, err := m.mustFind(ctx, id)
	if err != nil {
		return nil, err
	}
	renderContent(c)
	return c, nil
}

// List returns the moderation queue, newest first, with the total count
// before pagination.
func (m *Manager) List(ctx context.Context, f store.CommentFilter) ([]*models.Comment, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, models.NewValidationError("status", "is not a comment status")
	}
	items, total, err := m.comments.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	if items == nil {
		items = []*models.Comment{}
	}
	return items, total, nil
}
