// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/olegiv/institute-go/internal/model"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"auth", model.ErrAuthFailure, msgAuthFailure},
		{"not found", fmt.Errorf("update: %w", model.ErrNotFound), "Course not found."},
		{"forbidden", model.ErrForbidden, "Please sign in as the administrator."},
		{"validation", model.NewValidationError(model.CollectionCourses, map[string]string{"title": "is required"}), msgFixFields},
		{"remote", model.ErrRemoteWrite, msgWriteFailed},
		{"other", errors.New("boom"), msgWriteFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage(tt.err, "course"))
		})
	}
}

func TestFieldErrors(t *testing.T) {
	err := model.NewValidationError(model.CollectionGallery, map[string]string{
		"imageUrl": "is required",
		"title":    "Title is too long",
	})

	got := fieldErrors(fmt.Errorf("create: %w", err))
	assert.Equal(t, "Image URL is required", got["imageUrl"])
	assert.Equal(t, "Title is too long", got["title"])

	assert.Nil(t, fieldErrors(errors.New("plain")))
}

func TestCapitalizeFirst(t *testing.T) {
	assert.Equal(t, "", capitalizeFirst(""))
	assert.Equal(t, "Course", capitalizeFirst("course"))
	assert.Equal(t, "Already", capitalizeFirst("Already"))
}
