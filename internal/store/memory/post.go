// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"blogcms/internal/models"
	"blogcms/internal/store"
)

// Posts implements store.PostRepository.
type Posts struct {
	s *Store
}

var _ store.PostRepository = (*Posts)(nil)

func clonePost(p *models.Post) *models.Post {
	cp := *p
	cp.CategoryID = copyID(p.CategoryID)
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		cp.PublishedAt = &t
	}
	return &cp
}

func (r *Posts) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, nil
	}
	return clonePost(p), nil
}

func (r *Posts) List(_ context.Context, f store.PostFilter) ([]*models.Post, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	cats := idSet(f.CategoryIDs)
	var out []*models.Post
	for _, p := range r.s.posts {
		if len(cats) > 0 && (p.CategoryID == nil || !cats[*p.CategoryID]) {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		out = append(out, clonePost(p))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, f.Limit, f.Offset), len(out), nil
}

func (r *Posts) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.posts {
		if existing.Slug == p.Slug {
			return nil, fmt.Errorf("create post: slug %q already exists", p.Slug)
		}
	}

	stored := clonePost(p)
	stored.ID = uuid.New()
	now := time.Now().UTC()
	stored.CreatedAt, stored.UpdatedAt = now, now
	if stored.Status == models.PostStatusPublished && stored.PublishedAt == nil {
		stored.PublishedAt = &now
	}
	r.s.posts[stored.ID] = stored
	return clonePost(stored), nil
}

func (r *Posts) Update(_ context.Context, p *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.posts[p.ID]
	if !ok {
		return nil
	}
	updated := clonePost(p)
	updated.AuthorID = existing.AuthorID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	if updated.Status == models.PostStatusPublished && updated.PublishedAt == nil {
		now := updated.UpdatedAt
		updated.PublishedAt = &now
	}
	r.s.posts[p.ID] = updated
	return nil
}

func (r *Posts) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.posts, id)
	for cid, c := range r.s.comments {
		if c.PostID == id {
			r.s.deleteComment(cid)
		}
	}
	return nil
}

func (r *Posts) CountByCategory(_ context.Context, categoryID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, p := range r.s.posts {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *Posts) PublishedStats(_ context.Context, categoryID uuid.UUID) (models.CategoryStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var st models.CategoryStats
	for _, p := range r.s.posts {
		if p.CategoryID != nil && *p.CategoryID == categoryID && p.IsPublished() {
			st.TotalPosts++
			st.TotalViews += p.Views
		}
	}
	return st, nil
}

func (r *Posts) Reassign(_ context.Context, from []uuid.UUID, to uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	src := idSet(from)
	now := time.Now().UTC()
	var n int64
	for _, p := range r.s.posts {
		if p.CategoryID != nil && src[*p.CategoryID] {
			p.CategoryID = copyID(&to)
			p.UpdatedAt = now
			n++
		}
	}
	return n, nil
}
