// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hierarchy

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"blogcms/internal/models"
	"blogcms/internal/slug"
)

// Validation limits for category fields.
const (
	maxNameLen     = 100
	maxSlugLen     = 120
	maxDescLen     = 500
	maxIconLen     = 50
	maxMetaTitle   = 60
	maxMetaDescLen = 160
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// applyInput copies the provided fields of in onto c, validating each one.
// Parent is handled by the callers because it needs store lookups.
func applyInput(c *models.Category, in models.CategoryInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return models.NewValidationError("name", "is required")
		}
		if utf8.RuneCountInString(name) > maxNameLen {
			return models.NewValidationError("name", "is too long (max 100 characters)")
		}
		c.Name = name
	}
	// An empty slug counts as absent: Create derives one from the name and
	// Update keeps the current slug.
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		s := slug.Generate(*in.Slug)
		if s == "" {
			return models.NewValidationError("slug", "must contain letters or digits")
		}
		if len(s) > maxSlugLen {
			return models.NewValidationError("slug", "is too long (max 120 characters)")
		}
		c.Slug = s
	}
	if in.Description != nil {
		if utf8.RuneCountInString(*in.Description) > maxDescLen {
			return models.NewValidationError("description", "is too long (max 500 characters)")
		}
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.Color != nil {
		color := strings.TrimSpace(*in.Color)
		if color != "" && !hexColor.MatchString(color) {
			return models.NewValidationError("color", "must be a hex colour such as #3b82f6")
		}
		c.Color = color
	}
	if in.Icon != nil {
		if utf8.RuneCountInString(*in.Icon) > maxIconLen {
			return models.NewValidationError("icon", "is too long (max 50 characters)")
		}
		c.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.MetaTitle != nil {
		if utf8.RuneCountInString(*in.MetaTitle) > maxMetaTitle {
			return models.NewValidationError("meta_title", "is too long (max 60 characters)")
		}
		c.MetaTitle = strings.TrimSpace(*in.MetaTitle)
	}
	if in.MetaDescription != nil {
		if utf8.RuneCountInString(*in.MetaDescription) > maxMetaDescLen {
			return models.NewValidationError("meta_description", "is too long (max 160 characters)")
		}
		c.MetaDescription = strings.TrimSpace(*in.MetaDescription)
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return models.NewValidationError("status", "must be active or inactive")
		}
		c.Status = *in.Status
	}
	return nil
}
