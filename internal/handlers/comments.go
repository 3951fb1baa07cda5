// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"blogcms/internal/middleware"
	"blogcms/internal/models"
	"blogcms/internal/store"
	"blogcms/internal/thread"
)

// Comments groups the comment HTTP handlers.
type Comments struct {
	m *thread.Manager
}

// NewComments creates the comment handlers.
func NewComments(m *thread.Manager) *Comments {
	return &Comments{m: m}
}

// PostTree returns the comment tree of a post. Only elevated users may
// see statuses other than approved.
// GET /api/posts/{id}/comments?status=
func (h *Comments) PostTree(w http.ResponseWriter, r *http.Request) {
	postID, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	status := models.CommentStatus(r.URL.Query().Get("status"))
	if status != "" && status != models.CommentStatusApproved &&
		!middleware.PrincipalFromCtx(r.Context()).IsElevated() {
		writeError(w, r, models.ErrForbidden)
		return
	}

	roots, err := h.m.GetTree(r.Context(), postID, status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roots)
}

// Counts returns approved comment counts for a list of posts.
// GET /api/comments/counts?posts=a,b,c
func (h *Comments) Counts(w http.ResponseWriter, r *http.Request) {
	ids, err := parseIDList(r.URL.Query().Get("posts"))
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	counts, err := h.m.GetCommentCounts(r.Context(), ids)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

type commentRequest struct {
	Post    uuid.UUID  `json:"post"`
	Content string     `json:"content"`
	Parent  *uuid.UUID `json:"parent"`
	Name    string     `json:"name"`
	Email   string     `json:"email"`
	Website string     `json:"website"`
}

// Create submits a comment as a guest or as the signed-in user.
// POST /api/comments
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	var req commentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.m.Create(r.Context(), thread.CreateInput{
		PostID:    req.Post,
		ParentID:  req.Parent,
		Content:   req.Content,
		Name:      req.Name,
		Email:     req.Email,
		Website:   req.Website,
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	}, middleware.PrincipalFromCtx(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

type contentRequest struct {
	Content string `json:"content"`
}

// Update edits the caller's own comment.
// PUT /api/comments/{id}
func (h *Comments) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	var req contentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.m.Update(r.Context(), id, req.Content, middleware.PrincipalFromCtx(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete removes a comment owned by the caller, or any comment for
// elevated users.
// DELETE /api/comments/{id}
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.m.Delete(r.Context(), id, middleware.PrincipalFromCtx(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Like toggles the caller's like.
// POST /api/comments/{id}/like
func (h *Comments) Like(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, h.m.ToggleLike)
}

// Dislike toggles the caller's dislike.
// POST /api/comments/{id}/dislike
func (h *Comments) Dislike(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, h.m.ToggleDislike)
}

func (h *Comments) react(w http.ResponseWriter, r *http.Request, toggle func(context.Context, uuid.UUID, uuid.UUID) (models.ReactionCounts, error)) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	p := middleware.PrincipalFromCtx(r.Context())
	if p == nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
		return
	}

	counts, err := toggle(r.Context(), id, p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

// List returns the moderation queue.
// GET /api/comments?post=&status=&limit=&offset=
func (h *Comments) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	f := store.CommentFilter{
		Status: models.CommentStatus(r.URL.Query().Get("status")),
		Limit:  limit,
		Offset: offset,
	}
	if p := r.URL.Query().Get("post"); p != "" {
		id, err := uuid.Parse(p)
		if err != nil {
			badRequest(w, "invalid post")
			return
		}
		f.PostID = &id
	}

	items, total, err := h.m.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[*models.Comment]{Items: items, Total: total})
}

// Approve publishes a comment.
// POST /api/comments/{id}/approve
func (h *Comments) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, models.CommentStatusApproved)
}

// Spam marks a comment as spam.
// POST /api/comments/{id}/spam
func (h *Comments) Spam(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, models.CommentStatusSpam)
}

type statusRequest struct {
	Status models.CommentStatus `json:"status"`
}

// SetStatus moves a comment to any moderation state.
// PUT /api/comments/{id}/status
func (h *Comments) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.moderate(w, r, req.Status)
}

func (h *Comments) moderate(w http.ResponseWriter, r *http.Request, status models.CommentStatus) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var c *models.Comment
	var err error
	switch status {
	case models.CommentStatusApproved:
		c, err = h.m.Approve(r.Context(), id)
	case models.CommentStatusSpam:
		c, err = h.m.MarkSpam(r.Context(), id)
	default:
		c, err = h.m.SetStatus(r.Context(), id, status)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type bulkStatusRequest struct {
	IDs    []uuid.UUID          `json:"ids"`
	Status models.CommentStatus `json:"status"`
}

// BulkStatus moves many comments to one moderation state.
// POST /api/comments/bulk-status
func (h *Comments) BulkStatus(w http.ResponseWriter, r *http.Request) {
	var req bulkStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	n, err := h.m.BulkSetStatus(r.Context(), req.IDs, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}
