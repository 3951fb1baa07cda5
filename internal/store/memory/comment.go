// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"blogcms/internal/models"
	"blogcms/internal/store"
)

// Comments implements store.CommentRepository.
type Comments struct {
	s *Store
}

var _ store.CommentRepository = (*Comments)(nil)

// snapshot copies a stored comment and fills its vote sets. Callers hold mu.
func (s *Store) snapshot(c *models.Comment) *models.Comment {
	cp := *c
	cp.ParentID = copyID(c.ParentID)
	cp.EditedBy = copyID(c.EditedBy)
	cp.Author.UserID = copyID(c.Author.UserID)
	if c.EditedAt != nil {
		t := *c.EditedAt
		cp.EditedAt = &t
	}
	cp.Replies = nil
	cp.Likes = []uuid.UUID{}
	cp.Dislikes = []uuid.UUID{}
	for _, v := range s.reactions[c.ID] {
		switch v.kind {
		case models.ReactionLike:
			cp.Likes = append(cp.Likes, v.user)
		case models.ReactionDislike:
			cp.Dislikes = append(cp.Dislikes, v.user)
		}
	}
	return &cp
}

// newestFirst orders comments by creation time, then insertion order.
func (s *Store) newestFirst(items []*models.Comment) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return s.commentSeq[items[i].ID] > s.commentSeq[items[j].ID]
	})
}

// deleteComment removes a comment and its votes. Callers hold mu.
func (s *Store) deleteComment(id uuid.UUID) {
	delete(s.comments, id)
	delete(s.commentSeq, id)
	delete(s.reactions, id)
}

func (r *Comments) FindByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, nil
	}
	return r.s.snapshot(c), nil
}

func (r *Comments) ListByPost(_ context.Context, postID uuid.UUID, status models.CommentStatus) ([]*models.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.Comment
	for _, c := range r.s.comments {
		if c.PostID == postID && c.Status == status {
			out = append(out, r.s.snapshot(c))
		}
	}
	r.s.newestFirst(out)
	return out, nil
}

func (r *Comments) List(_ context.Context, f store.CommentFilter) ([]*models.Comment, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.Comment
	for _, c := range r.s.comments {
		if f.PostID != nil && c.PostID != *f.PostID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, r.s.snapshot(c))
	}
	r.s.newestFirst(out)
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *Comments) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored := r.s.snapshot(c)
	stored.ID = uuid.New()
	stored.Likes, stored.Dislikes = nil, nil
	stored.IsEdited, stored.EditedAt, stored.EditedBy = false, nil, nil
	now := time.Now().UTC()
	stored.CreatedAt, stored.UpdatedAt = now, now

	r.s.comments[stored.ID] = stored
	r.s.commentSeq[stored.ID] = r.s.nextSeq()
	return r.s.snapshot(stored), nil
}

func (r *Comments) UpdateContent(_ context.Context, id uuid.UUID, content string, editedBy *uuid.UUID, editedAt time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil
	}
	c.Content = content
	c.IsEdited = true
	c.EditedAt = &editedAt
	c.EditedBy = copyID(editedBy)
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *Comments) SetStatus(_ context.Context, id uuid.UUID, status models.CommentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if c, ok := r.s.comments[id]; ok {
		c.Status = status
		c.UpdatedAt = time.Now().UTC()
	}
	return nil
}

func (r *Comments) SetStatusMany(_ context.Context, ids []uuid.UUID, status models.CommentStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := time.Now().UTC()
	var n int64
	for id := range idSet(ids) {
		if c, ok := r.s.comments[id]; ok {
			c.Status = status
			c.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *Comments) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.deleteComment(id)
	return nil
}

func (r *Comments) SetReaction(_ context.Context, commentID, userID uuid.UUID, kind models.Reaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.comments[commentID]; !ok {
		return nil
	}
	votes := r.s.reactions[commentID]
	kept := votes[:0]
	for _, v := range votes {
		if v.user != userID {
			kept = append(kept, v)
		}
	}
	if kind != models.ReactionNone {
		kept = append(kept, vote{user: userID, kind: kind})
	}
	r.s.reactions[commentID] = kept
	return nil
}

func (r *Comments) ApprovedCounts(_ context.Context, postIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := idSet(postIDs)
	counts := make(map[uuid.UUID]int, len(want))
	for _, c := range r.s.comments {
		if want[c.PostID] && c.Status == models.CommentStatusApproved {
			counts[c.PostID]++
		}
	}
	return counts, nil
}
