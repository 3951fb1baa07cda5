// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogcms/internal/hierarchy"
	"blogcms/internal/middleware"
	"blogcms/internal/models"
	"blogcms/internal/store"
)

// Categories groups the category HTTP handlers.
type Categories struct {
	m *hierarchy.Manager
}

// NewCategories creates the category handlers.
func NewCategories(m *hierarchy.Manager) *Categories {
	return &Categories{m: m}
}

// statusParam reads ?status=. "any" means no filter; absent means active.
func statusParam(r *http.Request) (models.CategoryStatus, bool) {
	switch v := r.URL.Query().Get("status"); v {
	case "":
		return models.CategoryStatusActive, true
	case "any":
		return "", true
	default:
		s := models.CategoryStatus(v)
		return s, s.Valid()
	}
}

// Tree returns the nested category tree.
// GET /api/categories?status=active|inactive|any&include_empty=true
func (h *Categories) Tree(w http.ResponseWriter, r *http.Request) {
	status, ok := statusParam(r)
	if !ok {
		badRequest(w, "invalid status")
		return
	}

	roots, err := h.m.BuildTree(r.Context(), status, queryBool(r, "include_empty", true))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roots)
}

// Flat returns categories as a flat list.
// GET /api/categories/flat?status=&roots=true&parent={id}
func (h *Categories) Flat(w http.ResponseWriter, r *http.Request) {
	status, ok := statusParam(r)
	if !ok {
		badRequest(w, "invalid status")
		return
	}

	f := store.CategoryFilter{Status: status, RootsOnly: queryBool(r, "roots", false)}
	if p := r.URL.Query().Get("parent"); p != "" {
		id, err := uuid.Parse(p)
		if err != nil {
			badRequest(w, "invalid parent")
			return
		}
		f.ParentID = &id
	}

	cats, err := h.m.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

// Get returns one category by id or slug with breadcrumb and children.
// GET /api/categories/{ref}
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.m.Get(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Posts lists the published posts of a category.
// GET /api/categories/{ref}/posts?descendants=true&limit=&offset=
func (h *Categories) Posts(w http.ResponseWriter, r *http.Request) {
	detail, err := h.m.Get(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	limit, offset := pagination(r)
	posts, total, err := h.m.PostsInCategory(r.Context(), detail.Category.ID, queryBool(r, "descendants", false), limit, offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse[*models.Post]{Items: posts, Total: total})
}

// Create adds a category owned by the caller.
// POST /api/categories
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	p := middleware.PrincipalFromCtx(r.Context())
	var creator uuid.UUID
	if p != nil {
		creator = p.ID
	}

	c, err := h.m.Create(r.Context(), req.input(), creator)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Update changes the provided fields of a category.
// PUT /api/categories/{id}
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	c, err := h.m.Update(r.Context(), id, req.input())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete removes an empty category.
// DELETE /api/categories/{id}
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	if err := h.m.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type mergeRequest struct {
	SourceIDs []uuid.UUID `json:"source_ids"`
	TargetID  uuid.UUID   `json:"target_id"`
}

// Merge folds source categories into a target.
// POST /api/categories/merge
func (h *Categories) Merge(w http.ResponseWriter, r *http.Request) {
	var req mergeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.TargetID == uuid.Nil {
		badRequest(w, "target_id is required")
		return
	}

	res, err := h.m.Merge(r.Context(), req.SourceIDs, req.TargetID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type reorderItem struct {
	ID       uuid.UUID  `json:"id"`
	ParentID *uuid.UUID `json:"parent_id"`
	Order    int        `json:"order"`
}

type reorderRequest struct {
	Items []reorderItem `json:"items"`
}

// Reorder applies sibling orders and parent moves in one batch.
// POST /api/categories/reorder
func (h *Categories) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	items := make([]store.ReorderItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = store.ReorderItem{ID: it.ID, ParentID: it.ParentID, Order: it.Order}
	}
	if err := h.m.Reorder(r.Context(), items); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RefreshStats recomputes a category's post counters.
// POST /api/categories/{id}/stats
func (h *Categories) RefreshStats(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	stats, err := h.m.UpdateStats(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
