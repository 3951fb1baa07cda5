// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"blogcms/internal/models"
)

// CommentStore manages comments and comment_reactions.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore creates a new CommentStore with the given database connection.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

// commentSelect loads a comment with its like and dislike sets flattened
// into comma-separated id lists.
const commentSelect = `
	SELECT c.id, c.post_id, c.parent_id, c.content,
	       c.author_user_id, c.author_name, c.author_email, c.author_website,
	       c.author_ip, c.author_user_agent,
	       c.status, c.is_edited, c.edited_at, c.edited_by, c.created_at, c.updated_at,
	       COALESCE((SELECT string_agg(r.user_id::text, ',') FROM comment_reactions r
	                 WHERE r.comment_id = c.id AND r.kind = 'like'), ''),
	       COALESCE((SELECT string_agg(r.user_id::text, ',') FROM comment_reactions r
	                 WHERE r.comment_id = c.id AND r.kind = 'dislike'), '')
	FROM comments c`

func scanComment(scanner interface{ Scan(...any) error }) (*models.Comment, error) {
	var c models.Comment
	var likes, dislikes string
	err := scanner.Scan(
		&c.ID, &c.PostID, &c.ParentID, &c.Content,
		&c.Author.UserID, &c.Author.Name, &c.Author.Email, &c.Author.Website,
		&c.Author.IPAddress, &c.Author.UserAgent,
		&c.Status, &c.IsEdited, &c.EditedAt, &c.EditedBy, &c.CreatedAt, &c.UpdatedAt,
		&likes, &dislikes,
	)
	if err != nil {
		return nil, err
	}
	if c.Likes, err = parseIDList(likes); err != nil {
		return nil, err
	}
	if c.Dislikes, err = parseIDList(dislikes); err != nil {
		return nil, err
	}
	return &c, nil
}

func parseIDList(s string) ([]uuid.UUID, error) {
	if s == "" {
		return []uuid.UUID{}, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(p)
		if err != nil {
			return nil, fmt.Errorf("parse reaction user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *CommentStore) query(ctx context.Context, q string, args ...any) ([]*models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	c, err := scanComment(s.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// ListByPost returns every comment of a post in the given status, at any
// nesting level, newest first.
func (s *CommentStore) ListByPost(ctx context.Context, postID uuid.UUID, status models.CommentStatus) ([]*models.Comment, error) {
	items, err := s.query(ctx, commentSelect+`
		WHERE c.post_id = $1 AND c.status = $2
		ORDER BY c.created_at DESC, c.id`, postID, status)
	if err != nil {
		return nil, fmt.Errorf("list comments by post: %w", err)
	}
	return items, nil
}

// List returns one page of the moderation queue plus the total number of matches.
func (s *CommentStore) List(ctx context.Context, f CommentFilter) ([]*models.Comment, int, error) {
	var where []string
	var args []any
	if f.PostID != nil {
		args = append(args, *f.PostID)
		where = append(where, "c.post_id = $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, "c.status = $"+strconv.Itoa(len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments c`+cond, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	q := commentSelect + cond + ` ORDER BY c.created_at DESC, c.id`
	if f.Limit > 0 {
		args = append(args, f.Limit, f.Offset)
		q += ` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	}
	items, err := s.query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	return items, total, nil
}

// Create inserts a comment and returns it as stored.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, parent_id, content, author_user_id, author_name,
			author_email, author_website, author_ip, author_user_agent, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, c.PostID, c.ParentID, c.Content, c.Author.UserID, c.Author.Name,
		c.Author.Email, c.Author.Website, c.Author.IPAddress, c.Author.UserAgent, c.Status,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return s.FindByID(ctx, id)
}

// UpdateContent replaces the body of a comment and marks it edited.
func (s *CommentStore) UpdateContent(ctx context.Context, id uuid.UUID, content string, editedBy *uuid.UUID, editedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE comments SET content = $1, is_edited = TRUE, edited_at = $2,
			edited_by = $3, updated_at = NOW()
		WHERE id = $4
	`, content, editedAt, editedBy, id)
	if err != nil {
		return fmt.Errorf("update comment content: %w", err)
	}
	return nil
}

// SetStatus writes the moderation state of one comment.
func (s *CommentStore) SetStatus(ctx context.Context, id uuid.UUID, status models.CommentStatus) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE comments SET status = $1, updated_at = NOW() WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("set comment status: %w", err)
	}
	return nil
}

// SetStatusMany writes the moderation state of several comments at once.
func (s *CommentStore) SetStatusMany(ctx context.Context, ids []uuid.UUID, status models.CommentStatus) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE comments SET status = $1, updated_at = NOW() WHERE id = ANY($2::uuid[])
	`, status, idStrings(ids))
	if err != nil {
		return 0, fmt.Errorf("set comment statuses: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes a comment and its reactions. Replies keep their
// parent_id and drop out of the thread.
func (s *CommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// SetReaction records userID's vote on a comment. ReactionNone clears it.
// The primary key on (comment_id, user_id) keeps the two sets disjoint.
func (s *CommentStore) SetReaction(ctx context.Context, commentID, userID uuid.UUID, kind models.Reaction) error {
	var err error
	if kind == models.ReactionNone {
		_, err = s.db.ExecContext(ctx, `
			DELETE FROM comment_reactions WHERE comment_id = $1 AND user_id = $2
		`, commentID, userID)
	} else {
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO comment_reactions (comment_id, user_id, kind)
			VALUES ($1, $2, $3)
			ON CONFLICT (comment_id, user_id) DO UPDATE SET kind = EXCLUDED.kind
		`, commentID, userID, kind)
	}
	if err != nil {
		return fmt.Errorf("set comment reaction: %w", err)
	}
	return nil
}

// ApprovedCounts returns the number of approved comments per post. Posts
// without approved comments are absent from the map.
func (s *CommentStore) ApprovedCounts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT post_id, COUNT(*) FROM comments
		WHERE post_id = ANY($1::uuid[]) AND status = 'approved'
		GROUP BY post_id
	`, idStrings(postIDs))
	if err != nil {
		return nil, fmt.Errorf("count approved comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan comment count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
