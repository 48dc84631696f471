// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrAuthFailure covers bad credentials and non-admin accounts alike.
	ErrAuthFailure = errors.New("invalid email or password")

	// ErrNotFound is returned when an edit or delete target is missing.
	ErrNotFound = errors.New("document not found")

	// ErrRemoteWrite wraps any failure of the document store to accept a write.
	ErrRemoteWrite = errors.New("document store write failed")

	// ErrForbidden is returned when a mutation is attempted without an admin session.
	ErrForbidden = errors.New("admin session required")
)

// ValidationError reports per-field problems with a document.
type ValidationError struct {
	Collection CollectionID
	Fields     map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "invalid " + string(e.Collection) + " document: " + strings.Join(parts, "; ")
}

// NewValidationError returns nil when problems is empty.
func NewValidationError(coll CollectionID, problems map[string]string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Collection: coll, Fields: problems}
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
