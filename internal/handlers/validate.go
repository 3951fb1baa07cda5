// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"blogcms/internal/models"
)

// Validation limits for post fields.
const (
	maxTitleLen = 300
	maxSlugLen  = 300
)

// validatePost checks post inputs and returns the first error found.
func validatePost(title, slug string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	return ""
}

// nullableID decodes a JSON field that may be absent, null or a UUID
// string. Absent leaves Set false; null yields Set with an invalid ID.
type nullableID struct {
	Set bool
	ID  uuid.NullUUID
}

func (n *nullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.ID = uuid.NullUUID{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		n.ID = uuid.NullUUID{}
		return nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	n.ID = uuid.NullUUID{UUID: id, Valid: true}
	return nil
}

// ptr returns nil for an unset field and &ID otherwise.
func (n nullableID) ptr() *uuid.NullUUID {
	if !n.Set {
		return nil
	}
	id := n.ID
	return &id
}

// categoryRequest is the whitelisted category body. Other fields are
// rejected by the decoder.
type categoryRequest struct {
	Name            *string                `json:"name"`
	Slug            *string                `json:"slug"`
	Description     *string                `json:"description"`
	Parent          nullableID             `json:"parent"`
	Color           *string                `json:"color"`
	Icon            *string                `json:"icon"`
	MetaTitle       *string                `json:"meta_title"`
	MetaDescription *string                `json:"meta_description"`
	SortOrder       *int                   `json:"sort_order"`
	Status          *models.CategoryStatus `json:"status"`
}

func (c categoryRequest) input() models.CategoryInput {
	return models.CategoryInput{
		Name:            c.Name,
		Slug:            c.Slug,
		Description:     c.Description,
		Parent:          c.Parent.ptr(),
		Color:           c.Color,
		Icon:            c.Icon,
		MetaTitle:       c.MetaTitle,
		MetaDescription: c.MetaDescription,
		SortOrder:       c.SortOrder,
		Status:          c.Status,
	}
}
