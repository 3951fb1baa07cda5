// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memory implements the store repositories on mutex-guarded maps.
// It backs STORAGE_DRIVER=memory and the handler and manager tests.
// Every read returns a copy, so callers may mutate what they get back.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"blogcms/internal/models"
	"blogcms/internal/store"
)

type vote struct {
	user uuid.UUID
	kind models.Reaction
}

// Store holds every entity in memory.
type Store struct {
	mu         sync.RWMutex
	seq        int64
	categories map[uuid.UUID]*models.Category
	posts      map[uuid.UUID]*models.Post
	comments   map[uuid.UUID]*models.Comment
	commentSeq map[uuid.UUID]int64
	reactions  map[uuid.UUID][]vote
	users      map[uuid.UUID]*models.User
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		categories: make(map[uuid.UUID]*models.Category),
		posts:      make(map[uuid.UUID]*models.Post),
		comments:   make(map[uuid.UUID]*models.Comment),
		commentSeq: make(map[uuid.UUID]int64),
		reactions:  make(map[uuid.UUID][]vote),
		users:      make(map[uuid.UUID]*models.User),
	}
}

// Repositories exposes the store through the four repository interfaces.
func (s *Store) Repositories() store.Repositories {
	return store.Repositories{
		Categories: &Categories{s: s},
		Posts:      &Posts{s: s},
		Comments:   &Comments{s: s},
		Users:      &Users{s: s},
	}
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func idSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func copyID(id *uuid.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
