// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// tree.go caches built category trees in Valkey. Building a tree costs a
// full category scan, and the public navigation asks for the same tree on
// every page, so the JSON result is kept until any category write.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"blogcms/internal/models"
)

const (
	// treeKeyPrefix is the Valkey key prefix for cached category trees.
	treeKeyPrefix = "cattree:"

	// DefaultTreeTTL is how long a built tree stays cached.
	DefaultTreeTTL = 5 * time.Minute
)

// TreeCache stores category trees in Valkey. A nil *TreeCache is valid and
// caches nothing.
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTreeCache creates a new tree cache backed by the given Valkey client.
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	if ttl == 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, ttl: ttl}
}

// TreeKey returns the cache key for one tree query.
func TreeKey(status models.CategoryStatus, includeEmpty bool, depth int) string {
	s := string(status)
	if s == "" {
		s = "any"
	}
	return s + ":" + strconv.FormatBool(includeEmpty) + ":" + strconv.Itoa(depth)
}

// Get retrieves a cached tree. The second result is false on a miss.
func (tc *TreeCache) Get(ctx context.Context, key string) ([]*models.Category, bool) {
	if tc == nil {
		return nil, false
	}
	val, err := tc.client.Get(ctx, treeKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("tree cache get error", "key", key, "error", err)
		return nil, false
	}

	var tree []*models.Category
	if err := json.Unmarshal(val, &tree); err != nil {
		slog.Warn("tree cache decode error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("tree cache hit", "key", key)
	return tree, true
}

// Set stores a built tree with the configured TTL.
func (tc *TreeCache) Set(ctx context.Context, key string, tree []*models.Category) {
	if tc == nil {
		return
	}
	data, err := json.Marshal(tree)
	if err != nil {
		slog.Warn("tree cache encode error", "key", key, "error", err)
		return
	}
	if err := tc.client.Set(ctx, treeKeyPrefix+key, data, tc.ttl).Err(); err != nil {
		slog.Warn("tree cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached tree by scanning for the prefix.
// Any category write can change any tree.
func (tc *TreeCache) InvalidateAll(ctx context.Context) {
	if tc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := tc.client.Scan(ctx, cursor, treeKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("tree cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := tc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("tree cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("tree cache cleared", "deleted", deleted)
	}
}
