// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "errors"

// Sentinel errors returned by the hierarchy and thread managers. The HTTP
// layer maps each one to a status code with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrPostNotFound        = errors.New("post not found")
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateSlug       = errors.New("slug already in use")
	ErrParentNotFound      = errors.New("parent not found")
	ErrSelfParent          = errors.New("an item cannot be its own parent")
	ErrCircularHierarchy   = errors.New("circular hierarchy")
	ErrHasPosts            = errors.New("category still has posts")
	ErrHasSubcategories    = errors.New("category still has subcategories")
	ErrForbidden           = errors.New("forbidden")
	ErrTargetNotFound      = errors.New("merge target not found")
	ErrSomeSourcesNotFound = errors.New("some merge sources not found")
)

// ValidationError describes a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError returns a *ValidationError for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is makes every ValidationError match ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
