// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// CategoryStatus controls whether a category is shown on the public site.
type CategoryStatus string

const (
	CategoryStatusActive   CategoryStatus = "active"
	CategoryStatusInactive CategoryStatus = "inactive"
)

// Valid reports whether s is a known category status.
func (s CategoryStatus) Valid() bool {
	return s == CategoryStatusActive || s == CategoryStatusInactive
}

// CategoryStats holds derived counters. They are recomputed from published
// posts and are never the source of truth.
type CategoryStats struct {
	TotalPosts int   `json:"total_posts"`
	TotalViews int64 `json:"total_views"`
}

// Category represents a hierarchical content category. Posts can have at
// most one category assigned.
type Category struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	Slug            string         `json:"slug"`
	Description     string         `json:"description"`
	ParentID        *uuid.UUID     `json:"parent_id"`
	Color           string         `json:"color"`
	Icon            string         `json:"icon"`
	MetaTitle       string         `json:"meta_title"`
	MetaDescription string         `json:"meta_description"`
	SortOrder       int            `json:"sort_order"`
	Status          CategoryStatus `json:"status"`
	Stats           CategoryStats  `json:"stats"`
	CreatedByID     uuid.UUID      `json:"created_by_id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	// Virtual fields populated by the hierarchy manager.
	Parent        *CategoryRef `json:"parent,omitempty"`
	CreatedBy     *UserSummary `json:"created_by,omitempty"`
	Subcategories []*Category  `json:"subcategories,omitempty"`
}

// NodeID returns the category ID.
func (c *Category) NodeID() uuid.UUID { return c.ID }

// NodeParent returns the parent category ID, or nil for a root.
func (c *Category) NodeParent() *uuid.UUID { return c.ParentID }

// Ref returns the short display form of the category.
func (c *Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

// CategoryRef is the populated form of a category reference. Breadcrumbs
// are lists of these.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// CategoryInput carries the whitelisted fields accepted on create and
// update. A nil pointer means "not provided". Parent is tri-state: nil
// leaves the parent alone, a NullUUID with Valid=false clears it.
type CategoryInput struct {
	Name            *string
	Slug            *string
	Description     *string
	Parent          *uuid.NullUUID
	Color           *string
	Icon            *string
	MetaTitle       *string
	MetaDescription *string
	SortOrder       *int
	Status          *CategoryStatus
}

// CategoryDetail is a single category with its navigation context.
type CategoryDetail struct {
	Category      *Category     `json:"category"`
	Breadcrumb    []CategoryRef `json:"breadcrumb"`
	Subcategories []*Category   `json:"subcategories"`
}
