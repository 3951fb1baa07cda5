// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"blogcms/internal/handlers"
	"blogcms/internal/hierarchy"
	"blogcms/internal/middleware"
	"blogcms/internal/models"
	"blogcms/internal/session"
	"blogcms/internal/store/memory"
	"blogcms/internal/thread"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestHealthHandlerMethods(t *testing.T) {
	// Health endpoint only accepts GET.
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("GET /health: got %d, want 200", w.Code)
	}
}

// cookieSessions resolves the session cookie value against a fixed map.
type cookieSessions map[string]*session.Data

func (c cookieSessions) Get(_ context.Context, r *http.Request) (*session.Data, error) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return nil, nil
	}
	return c[cookie.Value], nil
}

const csrfToken = "test-token"

func newTestRouter(t *testing.T, limiter *middleware.RateLimiter) http.Handler {
	t.Helper()
	repos := memory.New().Repositories()
	h := hierarchy.New(repos.Categories, repos.Posts, repos.Users, hierarchy.Options{})
	th := thread.New(repos.Comments, repos.Posts, thread.Options{})

	admin, err := repos.Users.Create(context.Background(), &models.User{Email: "admin@blog.local", Username: "admin", Role: models.RoleAdmin}, "pw")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	sessions := cookieSessions{
		"admin-session":  {UserID: admin.ID, Email: admin.Email, Username: admin.Username, Role: "admin"},
		"author-session": {Email: "author@blog.local", Username: "author", Role: "author"},
	}

	return New(Deps{
		Sessions:       sessions,
		Repos:          repos,
		CommentLimiter: limiter,
		Categories:     handlers.NewCategories(h),
		Comments:       handlers.NewComments(th),
		Posts:          handlers.NewPosts(repos.Posts, repos.Categories, h),
	})
}

// request builds a JSON request. A non-empty sess adds the session cookie
// together with a matching CSRF cookie and header.
func request(method, path, body, sess string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "198.51.100.7:4000"
	if sess != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: sess})
		req.AddCookie(&http.Cookie{Name: middleware.CSRFCookieName, Value: csrfToken})
		req.Header.Set(middleware.CSRFHeaderName, csrfToken)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRoutes(t *testing.T) {
	h := newTestRouter(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		sess   string
		want   int
	}{
		{"health", http.MethodGet, "/health", "", "", http.StatusOK},
		{"public tree", http.MethodGet, "/api/categories", "", "", http.StatusOK},
		{"public flat", http.MethodGet, "/api/categories/flat", "", "", http.StatusOK},
		{"missing category", http.MethodGet, "/api/categories/none", "", "", http.StatusNotFound},
		{"create category as guest", http.MethodPost, "/api/categories", `{"name":"X"}`, "", http.StatusUnauthorized},
		{"create category as author", http.MethodPost, "/api/categories", `{"name":"X"}`, "author-session", http.StatusForbidden},
		{"create category as admin", http.MethodPost, "/api/categories", `{"name":"X"}`, "admin-session", http.StatusCreated},
		{"moderation queue as guest", http.MethodGet, "/api/comments", "", "", http.StatusUnauthorized},
		{"moderation queue as admin", http.MethodGet, "/api/comments", "", "admin-session", http.StatusOK},
		{"like as guest", http.MethodPost, "/api/comments/00000000-0000-0000-0000-000000000001/like", "", "", http.StatusUnauthorized},
		{"counts", http.MethodGet, "/api/comments/counts?posts=", "", "", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/nothing", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(h, request(tt.method, tt.path, tt.body, tt.sess))
			if rr.Code != tt.want {
				t.Errorf("%s %s: got %d, want %d (body %s)", tt.method, tt.path, rr.Code, tt.want, rr.Body.String())
			}
		})
	}
}

func TestRoutesRequireCSRFForSessionWrites(t *testing.T) {
	h := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", strings.NewReader(`{"name":"X"}`))
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "admin-session"})
	rr := serve(h, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rr.Code)
	}
}

func TestRoutesSecurityHeaders(t *testing.T) {
	h := newTestRouter(t, nil)
	rr := serve(h, request(http.MethodGet, "/api/categories", "", ""))

	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options: got %q", got)
	}
	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control: got %q", got)
	}
}

func TestRoutesGuestCommentFlow(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	defer limiter.Stop()
	h := newTestRouter(t, limiter)

	rr := serve(h, request(http.MethodPost, "/api/posts", `{"title":"Hello","status":"published"}`, "admin-session"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create post: got %d (%s)", rr.Code, rr.Body.String())
	}
	var post models.Post
	if err := json.NewDecoder(rr.Body).Decode(&post); err != nil {
		t.Fatalf("decode post: %v", err)
	}

	body := `{"post":"` + post.ID.String() + `","content":"Hi","name":"Guest","email":"g@example.com"}`
	for i := 0; i < 2; i++ {
		rr = serve(h, request(http.MethodPost, "/api/comments", body, ""))
		if rr.Code != http.StatusCreated {
			t.Fatalf("comment %d: got %d (%s)", i+1, rr.Code, rr.Body.String())
		}
	}

	rr = serve(h, request(http.MethodPost, "/api/comments", body, ""))
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("third comment: got %d, want 429", rr.Code)
	}

	rr = serve(h, request(http.MethodGet, "/api/posts/"+post.ID.String()+"/comments?status=pending", "", "admin-session"))
	if rr.Code != http.StatusOK {
		t.Fatalf("pending tree: got %d", rr.Code)
	}
	var roots []models.Comment
	if err := json.NewDecoder(rr.Body).Decode(&roots); err != nil {
		t.Fatalf("decode tree: %v", err)
	}
	if len(roots) != 2 {
		t.Errorf("pending roots: got %d, want 2", len(roots))
	}
	for _, c := range roots {
		if c.Author.Email != "g@example.com" {
			t.Errorf("author email: got %q", c.Author.Email)
		}
	}
}
