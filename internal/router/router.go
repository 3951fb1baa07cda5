// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// blog API. Routes are grouped into public, authenticated and elevated
// sets with the matching middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"blogcms/internal/handlers"
	"blogcms/internal/loader"
	"blogcms/internal/middleware"
	"blogcms/internal/store"
)

// Deps carries everything the routes need.
type Deps struct {
	// Sessions resolves the session cookie. Nil serves every request as a
	// guest.
	Sessions middleware.SessionGetter
	// Repos backs the per-request loaders.
	Repos store.Repositories
	// CommentLimiter throttles comment submissions. Nil disables it.
	CommentLimiter *middleware.RateLimiter
	// SecureCookies marks the CSRF cookie Secure.
	SecureCookies bool

	Categories *handlers.Categories
	Comments   *handlers.Comments
	Posts      *handlers.Posts
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.LoadSession(d.Sessions))
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check, no session needed.
	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CSRF(d.SecureCookies))
		r.Use(loader.Middleware(d.Repos.Users, d.Repos.Categories))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.Tree)
			r.Get("/flat", d.Categories.Flat)
			r.Get("/{ref}", d.Categories.Get)
			r.Get("/{ref}/posts", d.Categories.Posts)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RequireElevated)
				r.Post("/", d.Categories.Create)
				r.Post("/merge", d.Categories.Merge)
				r.Post("/reorder", d.Categories.Reorder)
				r.Put("/{id}", d.Categories.Update)
				r.Delete("/{id}", d.Categories.Delete)
				r.Post("/{id}/stats", d.Categories.RefreshStats)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/{id}", d.Posts.Get)
			r.Get("/{id}/comments", d.Comments.PostTree)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RequireElevated)
				r.Post("/", d.Posts.Create)
				r.Put("/{id}", d.Posts.Update)
				r.Delete("/{id}", d.Posts.Delete)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/counts", d.Comments.Counts)

			// Guests may comment; the limiter keeps that cheap to abuse.
			r.Group(func(r chi.Router) {
				if d.CommentLimiter != nil {
					r.Use(d.CommentLimiter.Middleware)
				}
				r.Post("/", d.Comments.Create)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Put("/{id}", d.Comments.Update)
				r.Delete("/{id}", d.Comments.Delete)
				r.Post("/{id}/like", d.Comments.Like)
				r.Post("/{id}/dislike", d.Comments.Dislike)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.RequireElevated)
				r.Get("/", d.Comments.List)
				r.Post("/bulk-status", d.Comments.BulkStatus)
				r.Post("/{id}/approve", d.Comments.Approve)
				r.Post("/{id}/spam", d.Comments.Spam)
				r.Put("/{id}/status", d.Comments.SetStatus)
			})
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
