// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tree holds the parent-pointer algorithms shared by categories and
// comments. Records are never linked in memory; every walk chases ids
// through a lookup function and is bounded by an explicit depth limit.
package tree

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrDepthExceeded is returned when a walk goes past its depth limit.
var ErrDepthExceeded = errors.New("tree walk exceeded depth limit")

// Node is a record with an id and a nullable parent reference.
type Node interface {
	NodeID() uuid.UUID
	NodeParent() *uuid.UUID
}

// Lookup resolves a node by id. ok is false when the id does not resolve.
type Lookup[T Node] func(ctx context.Context, id uuid.UUID) (node T, ok bool, err error)

// ChildrenFunc returns the ids of the direct children of id.
type ChildrenFunc func(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)

// Ancestors walks upward from start and returns its ancestors nearest
// first. The walk stops at a nil parent, at a parent that no longer
// resolves, or at an id it has already seen.
func Ancestors[T Node](ctx context.Context, start T, find Lookup[T], limit int) ([]T, error) {
	seen := map[uuid.UUID]bool{start.NodeID(): true}
	var out []T

	parent := start.NodeParent()
	for parent != nil && !seen[*parent] {
		if len(out) >= limit {
			return out, ErrDepthExceeded
		}
		node, ok, err := find(ctx, *parent)
		if err != nil {
			return out, fmt.Errorf("resolve ancestor %s: %w", *parent, err)
		}
		if !ok {
			break
		}
		seen[*parent] = true
		out = append(out, node)
		parent = node.NodeParent()
	}
	return out, nil
}

// Reaches reports whether walking upward from the node with id from
// (inclusive) ever arrives at target. A broken link ends the walk with
// false. Assigning from as the parent of target creates a cycle exactly
// when Reaches returns true.
func Reaches[T Node](ctx context.Context, from, target uuid.UUID, find Lookup[T], limit int) (bool, error) {
	seen := make(map[uuid.UUID]bool)
	cur := &from
	for steps := 0; cur != nil; steps++ {
		if *cur == target {
			return true, nil
		}
		if seen[*cur] {
			return false, nil
		}
		if steps > limit {
			return false, ErrDepthExceeded
		}
		seen[*cur] = true

		node, ok, err := find(ctx, *cur)
		if err != nil {
			return false, fmt.Errorf("resolve %s: %w", *cur, err)
		}
		if !ok {
			return false, nil
		}
		cur = node.NodeParent()
	}
	return false, nil
}

// Descendants collects every id below root, depth first. Order is not
// meaningful; callers use the result as a set.
func Descendants(ctx context.Context, root uuid.UUID, children ChildrenFunc, limit int) ([]uuid.UUID, error) {
	type frame struct {
		id    uuid.UUID
		depth int
	}

	seen := map[uuid.UUID]bool{root: true}
	stack := []frame{{id: root}}
	var out []uuid.UUID

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		ids, err := children(ctx, f.id)
		if err != nil {
			return out, fmt.Errorf("children of %s: %w", f.id, err)
		}
		if len(ids) > 0 && f.depth >= limit {
			return out, ErrDepthExceeded
		}
		for i := len(ids) - 1; i >= 0; i-- {
			id := ids[i]
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
			stack = append(stack, frame{id: id, depth: f.depth + 1})
		}
	}
	return out, nil
}

// Build nests a flat list under its roots (nodes without a parent), down
// to depth levels below them. The relative order of flat is kept at every
// level. attach is called once for each node that received children.
// Nodes whose parent is not in flat are dropped.
func Build[T Node](flat []T, depth int, attach func(parent T, children []T)) []T {
	byParent := make(map[uuid.UUID][]T)
	var roots []T
	for _, n := range flat {
		if p := n.NodeParent(); p != nil {
			byParent[*p] = append(byParent[*p], n)
		} else {
			roots = append(roots, n)
		}
	}

	var nest func(nodes []T, level int)
	nest = func(nodes []T, level int) {
		if level >= depth {
			return
		}
		for _, n := range nodes {
			kids := byParent[n.NodeID()]
			if len(kids) == 0 {
				continue
			}
			nest(kids, level+1)
			attach(n, kids)
		}
	}
	nest(roots, 0)
	return roots
}
