// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests. Handlers run against the in-memory store; URL parameters are set
// through a chi route context and sessions are injected directly.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"blogcms/internal/hierarchy"
	"blogcms/internal/middleware"
	"blogcms/internal/models"
	"blogcms/internal/session"
	"blogcms/internal/store"
	"blogcms/internal/store/memory"
	"blogcms/internal/thread"
)

type testEnv struct {
	repos      store.Repositories
	categories *Categories
	comments   *Comments
	posts      *Posts
	admin      *session.Data
	member     *session.Data
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repos := memory.New().Repositories()
	h := hierarchy.New(repos.Categories, repos.Posts, repos.Users, hierarchy.Options{})
	th := thread.New(repos.Comments, repos.Posts, thread.Options{})

	ctx := context.Background()
	admin, err := repos.Users.Create(ctx, &models.User{Email: "admin@blog.local", Username: "admin", Role: models.RoleAdmin}, "pw")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	member, err := repos.Users.Create(ctx, &models.User{Email: "reader@blog.local", Username: "reader", Role: models.RoleAuthor}, "pw")
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	return &testEnv{
		repos:      repos,
		categories: NewCategories(h),
		comments:   NewComments(th),
		posts:      NewPosts(repos.Posts, repos.Categories, h),
		admin:      sessionFor(admin),
		member:     sessionFor(member),
	}
}

func sessionFor(u *models.User) *session.Data {
	return &session.Data{UserID: u.ID, Email: u.Email, Username: u.Username, Role: string(u.Role)}
}

// call runs handler with the given URL params, JSON body and session.
func call(t *testing.T, handler http.HandlerFunc, method, target string, params map[string]string, body any, sess *session.Data) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		if err := json.NewEncoder(&buf).Encode(b); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("User-Agent", "handler-test")
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if sess != nil {
		ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	}

	rr := httptest.NewRecorder()
	handler(rr, req.WithContext(ctx))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func wantStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status: got %d, want %d (body %s)", rr.Code, want, rr.Body.String())
	}
}

func (e *testEnv) createCategory(t *testing.T, name string, parent *uuid.UUID) models.Category {
	t.Helper()
	body := map[string]any{"name": name}
	if parent != nil {
		body["parent"] = parent.String()
	}
	rr := call(t, e.categories.Create, http.MethodPost, "/api/categories", nil, body, e.admin)
	wantStatus(t, rr, http.StatusCreated)
	return decode[models.Category](t, rr)
}

func (e *testEnv) createPost(t *testing.T, title string, status models.PostStatus, category *uuid.UUID) models.Post {
	t.Helper()
	body := map[string]any{"title": title, "status": status}
	if category != nil {
		body["category"] = category.String()
	}
	rr := call(t, e.posts.Create, http.MethodPost, "/api/posts", nil, body, e.admin)
	wantStatus(t, rr, http.StatusCreated)
	return decode[models.Post](t, rr)
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.NewValidationError("name", "is required"), http.StatusBadRequest},
		{models.ErrSelfParent, http.StatusBadRequest},
		{fmt.Errorf("update: %w", models.ErrCircularHierarchy), http.StatusBadRequest},
		{models.ErrNotFound, http.StatusNotFound},
		{models.ErrPostNotFound, http.StatusNotFound},
		{models.ErrParentNotFound, http.StatusNotFound},
		{models.ErrTargetNotFound, http.StatusNotFound},
		{models.ErrSomeSourcesNotFound, http.StatusNotFound},
		{models.ErrDuplicateSlug, http.StatusConflict},
		{models.ErrHasPosts, http.StatusConflict},
		{models.ErrHasSubcategories, http.StatusConflict},
		{models.ErrForbidden, http.StatusForbidden},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
			body := decode[errorResponse](t, rr)
			if body.Error == "" {
				t.Error("error message should not be empty")
			}
			if tt.want == http.StatusInternalServerError && body.Error != "internal server error" {
				t.Errorf("500 should not leak details, got %q", body.Error)
			}
		})
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", defaultLimit, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=1000", maxLimit, 0},
		{"?limit=-1&offset=-3", defaultLimit, 0},
		{"?limit=abc", defaultLimit, 0},
	}
	for _, tt := range tests {
		limit, offset := pagination(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
		if limit != tt.wantLimit || offset != tt.wantOffset {
			t.Errorf("%q: got %d/%d, want %d/%d", tt.query, limit, offset, tt.wantLimit, tt.wantOffset)
		}
	}
}
