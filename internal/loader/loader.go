// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package loader batches the user and category lookups needed to populate
// createdBy and parent on category responses. One Loaders value lives for
// one request; its results are cached for that request only.
package loader

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader"

	"blogcms/internal/models"
	"blogcms/internal/store"
)

type contextKey string

const key = contextKey("loaders")

// Loaders holds the per-request batch loaders.
type Loaders struct {
	users      *dataloader.Loader
	categories *dataloader.Loader
}

// New creates a fresh set of loaders over the given repositories.
func New(users store.UserRepository, categories store.CategoryRepository) *Loaders {
	return &Loaders{
		users:      dataloader.NewBatchedLoader(userBatch(users), dataloader.WithWait(time.Millisecond)),
		categories: dataloader.NewBatchedLoader(categoryBatch(categories), dataloader.WithWait(time.Millisecond)),
	}
}

// Middleware injects a fresh Loaders into every request context.
func Middleware(users store.UserRepository, categories store.CategoryRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), New(users, categories))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithLoaders returns a copy of ctx carrying l.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, key, l)
}

// From extracts the loaders from the context, or nil outside a request.
func From(ctx context.Context) *Loaders {
	l, _ := ctx.Value(key).(*Loaders)
	return l
}

// keysOf parses the string keys back into ids. Unparseable keys map to uuid.Nil.
func keysOf(keys dataloader.Keys) []uuid.UUID {
	ids := make([]uuid.UUID, len(keys))
	for i, k := range keys {
		ids[i], _ = uuid.Parse(k.String())
	}
	return ids
}

func failAll(keys dataloader.Keys, err error) []*dataloader.Result {
	results := make([]*dataloader.Result, len(keys))
	for i := range results {
		results[i] = &dataloader.Result{Error: err}
	}
	return results
}

func userBatch(repo store.UserRepository) dataloader.BatchFunc {
	return func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids := keysOf(keys)
		users, err := repo.FindByIDs(ctx, ids)
		if err != nil {
			return failAll(keys, err)
		}
		byID := make(map[uuid.UUID]*models.User, len(users))
		for _, u := range users {
			byID[u.ID] = u
		}

		// Results must line up with keys.
		results := make([]*dataloader.Result, len(keys))
		for i, id := range ids {
			results[i] = &dataloader.Result{Data: byID[id]}
		}
		return results
	}
}

func categoryBatch(repo store.CategoryRepository) dataloader.BatchFunc {
	return func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids := keysOf(keys)
		cats, err := repo.FindByIDs(ctx, ids)
		if err != nil {
			return failAll(keys, err)
		}
		byID := make(map[uuid.UUID]*models.Category, len(cats))
		for _, c := range cats {
			byID[c.ID] = c
		}

		results := make([]*dataloader.Result, len(keys))
		for i, id := range ids {
			results[i] = &dataloader.Result{Data: byID[id]}
		}
		return results
	}
}

// UserSummaries resolves ids to display summaries in one batch. Ids that
// do not resolve are absent from the result.
func (l *Loaders) UserSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.UserSummary, error) {
	thunks := make([]dataloader.Thunk, len(ids))
	for i, id := range ids {
		thunks[i] = l.users.Load(ctx, dataloader.StringKey(id.String()))
	}

	out := make(map[uuid.UUID]models.UserSummary, len(ids))
	for i, thunk := range thunks {
		v, err := thunk()
		if err != nil {
			return nil, err
		}
		if u, ok := v.(*models.User); ok && u != nil {
			out[ids[i]] = u.Summary()
		}
	}
	return out, nil
}

// CategoryRefs resolves ids to {id, name, slug} in one batch. Ids that do
// not resolve are absent from the result.
func (l *Loaders) CategoryRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.CategoryRef, error) {
	thunks := make([]dataloader.Thunk, len(ids))
	for i, id := range ids {
		thunks[i] = l.categories.Load(ctx, dataloader.StringKey(id.String()))
	}

	out := make(map[uuid.UUID]models.CategoryRef, len(ids))
	for i, thunk := range thunks {
		v, err := thunk()
		if err != nil {
			return nil, err
		}
		if c, ok := v.(*models.Category); ok && c != nil {
			out[ids[i]] = c.Ref()
		}
	}
	return out, nil
}

// Forget drops a cached category so the next lookup reads the store again.
func (l *Loaders) Forget(ctx context.Context, id uuid.UUID) {
	l.categories.Clear(ctx, dataloader.StringKey(id.String()))
}
