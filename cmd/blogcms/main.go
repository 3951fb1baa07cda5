// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the blog API server. It loads
// configuration, connects to services, sets up routing, and starts the
// HTTP server with graceful shutdown support.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"blogcms/internal/cache"
	"blogcms/internal/config"
	"blogcms/internal/database"
	"blogcms/internal/handlers"
	"blogcms/internal/hierarchy"
	"blogcms/internal/logging"
	"blogcms/internal/middleware"
	"blogcms/internal/models"
	"blogcms/internal/router"
	"blogcms/internal/screening"
	"blogcms/internal/session"
	"blogcms/internal/store"
	"blogcms/internal/store/memory"
	"blogcms/internal/thread"
)

func main() {
	// The environment decides the log format, so read it before config.
	slog.SetDefault(logging.New(os.Getenv("APP_ENV")))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logging.New(cfg.Env))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"storage", cfg.StorageDriver,
	)

	repos, db, err := openRepositories(cfg)
	if err != nil {
		slog.Error("failed to initialise storage", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	// Valkey backs sessions and the category tree cache. Without it every
	// request is served as a guest and trees are rebuilt each time.
	secureCookies := !cfg.IsDev()
	var (
		sessions  middleware.SessionGetter
		treeCache *cache.TreeCache
	)
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, sessions and tree cache disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		sessions = session.NewStore(valkeyClient)
		treeCache = newTreeCache(valkeyClient, cfg.TreeCacheTTL)
	}

	h := hierarchy.New(repos.Categories, repos.Posts, repos.Users, hierarchy.Options{
		TreeDepth: cfg.CategoryTreeDepth,
		MaxWalk:   cfg.MaxTreeWalk,
		Cache:     treeCache,
	})
	screener, err := screening.New(cfg.ScreeningProvider, cfg.ScreeningAPIKey, cfg.ScreeningBaseURL)
	if err != nil {
		slog.Error("failed to initialise comment screening", "error", err)
		os.Exit(1)
	}
	if screener == nil {
		slog.Info("comment screening disabled")
	} else {
		slog.Info("comment screening enabled", "provider", cfg.ScreeningProvider)
	}

	th := thread.New(repos.Comments, repos.Posts, thread.Options{
		TreeDepth:     cfg.CommentTreeDepth,
		DefaultStatus: cfg.CommentDefaultStatus,
		Screener:      screener,
	})

	var limiter *middleware.RateLimiter
	if cfg.CommentRateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.CommentRateLimit, cfg.CommentRateWindow)
		defer limiter.Stop()
	}

	r := router.New(router.Deps{
		Sessions:       sessions,
		Repos:          repos,
		CommentLimiter: limiter,
		SecureCookies:  secureCookies,
		Categories:     handlers.NewCategories(h),
		Comments:       handlers.NewComments(th),
		Posts:          handlers.NewPosts(repos.Posts, repos.Categories, h),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// openRepositories builds the configured storage driver. The returned
// *sql.DB is nil for the memory driver.
func openRepositories(cfg *config.Config) (store.Repositories, *sql.DB, error) {
	if cfg.StorageDriver == "memory" {
		repos := memory.New().Repositories()
		if cfg.IsDev() {
			if err := seedMemory(context.Background(), repos); err != nil {
				return store.Repositories{}, nil, err
			}
		}
		return repos, nil, nil
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return store.Repositories{}, nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return store.Repositories{}, nil, err
	}
	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			db.Close()
			return store.Repositories{}, nil, err
		}
	}
	return store.NewPostgres(db), db, nil
}

// seedMemory gives the in-memory driver the same starting data as
// database.Seed.
func seedMemory(ctx context.Context, repos store.Repositories) error {
	admin, err := repos.Users.Create(ctx, &models.User{
		Email:     database.SeedAdminEmail,
		Username:  "admin",
		FirstName: "Site",
		LastName:  "Admin",
		Role:      models.RoleAdmin,
	}, database.SeedAdminPassword)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	_, err = repos.Categories.Create(ctx, &models.Category{
		Name:        "General",
		Slug:        database.SeedCategorySlug,
		Description: "Posts that do not fit anywhere else.",
		Status:      models.CategoryStatusActive,
		CreatedByID: admin.ID,
	})
	if err != nil {
		return fmt.Errorf("seed category: %w", err)
	}

	slog.Info("memory store seeded with default admin user", "email", database.SeedAdminEmail)
	return nil
}

func newTreeCache(client *redis.Client, ttl time.Duration) *cache.TreeCache {
	if ttl <= 0 {
		return nil
	}
	return cache.NewTreeCache(client, ttl)
}
