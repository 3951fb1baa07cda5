// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"blogcms/internal/hierarchy"
	"blogcms/internal/middleware"
	"blogcms/internal/models"
	"blogcms/internal/slug"
	"blogcms/internal/store"
)

// Posts groups the post admin handlers. Every write refreshes the stats
// of the categories it touched; a failed refresh never fails the write.
type Posts struct {
	posts      store.PostRepository
	categories store.CategoryRepository
	hierarchy  *hierarchy.Manager
}

// NewPosts creates the post handlers.
func NewPosts(posts store.PostRepository, categories store.CategoryRepository, h *hierarchy.Manager) *Posts {
	return &Posts{posts: posts, categories: categories, hierarchy: h}
}

type postRequest struct {
	Title    *string            `json:"title"`
	Slug     *string            `json:"slug"`
	Status   *models.PostStatus `json:"status"`
	Category nullableID         `json:"category"`
}

// apply copies the request onto p and validates the result.
func (h *Posts) apply(r *http.Request, p *models.Post, req postRequest) error {
	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Slug != nil && strings.TrimSpace(*req.Slug) != "" {
		p.Slug = slug.Generate(*req.Slug)
	}
	if p.Slug == "" {
		p.Slug = slug.Generate(p.Title)
	}
	if msg := validatePost(p.Title, p.Slug); msg != "" {
		return models.NewValidationError("", msg)
	}
	if p.Slug == "" {
		return models.NewValidationError("slug", "cannot be derived from title; provide one")
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return models.NewValidationError("status", "must be draft, published or archived")
		}
		p.Status = *req.Status
	}
	if cat := req.Category.ptr(); cat != nil {
		if !cat.Valid {
			p.CategoryID = nil
		} else {
			c, err := h.categories.FindByID(r.Context(), cat.UUID)
			if err != nil {
				return fmt.Errorf("find category: %w", err)
			}
			if c == nil {
				return models.NewValidationError("category", "does not exist")
			}
			id := c.ID
			p.CategoryID = &id
		}
	}
	return nil
}

// Get returns one post.
// GET /api/posts/{id}
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.posts.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p == nil {
		writeError(w, r, models.ErrPostNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create adds a post authored by the caller.
// POST /api/posts
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p := &models.Post{Status: models.PostStatusDraft}
	if principal := middleware.PrincipalFromCtx(r.Context()); principal != nil {
		p.AuthorID = principal.ID
	}
	if err := h.apply(r, p, req); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.posts.Create(r.Context(), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.hierarchy.RefreshStatsBestEffort(r.Context(), created.CategoryID)

	slog.Info("post created", "id", created.ID, "slug", created.Slug, "category", created.CategoryID)
	writeJSON(w, http.StatusCreated, created)
}

// Update changes a post. Both the old and the new category get fresh
// stats.
// PUT /api/posts/{id}
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p, err := h.posts.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p == nil {
		writeError(w, r, models.ErrPostNotFound)
		return
	}
	oldCategory := p.CategoryID

	if err := h.apply(r, p, req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.posts.Update(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	h.hierarchy.RefreshStatsBestEffort(r.Context(), oldCategory, p.CategoryID)

	updated, err := h.posts.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a post and its comments.
// DELETE /api/posts/{id}
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.posts.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p == nil {
		writeError(w, r, models.ErrPostNotFound)
		return
	}

	if err := h.posts.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	h.hierarchy.RefreshStatsBestEffort(r.Context(), p.CategoryID)

	slog.Info("post deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
