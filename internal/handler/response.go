// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"unicode"

	"github.com/olegiv/institute-go/internal/auth"
	"github.com/olegiv/institute-go/internal/model"
	"github.com/olegiv/institute-go/internal/render"
)

// Toast messages shown when a content operation fails.
const (
	msgAuthFailure = "Invalid email or password."
	msgWriteFailed = "Could not save your changes. Please try again."
	msgLoadFailed  = "Content could not be loaded. Please try again later."
	msgFixFields   = "Please correct the highlighted fields."
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses http.StatusSeeOther (303) for POST redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashError)
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, render.FlashSuccess)
}

// parseFormOrRedirect parses the request form and redirects with an error message on failure.
// Returns true if parsing succeeded, false if it failed (and redirect was performed).
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// logAndInternalError logs an error and writes a 500 Internal Server Error response.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// errorMessage maps a façade error to the toast shown to the user.
// entity names the document kind for not-found messages.
func errorMessage(err error, entity string) string {
	switch {
	case errors.Is(err, model.ErrAuthFailure):
		return msgAuthFailure
	case errors.Is(err, model.ErrNotFound):
		return capitalizeFirst(entity) + " not found."
	case errors.Is(err, model.ErrForbidden):
		return "Please sign in as the administrator."
	case model.IsValidationError(err):
		return msgFixFields
	default:
		return msgWriteFailed
	}
}

// handleWriteError redirects with a toast describing err. A lost admin
// session goes back to the login page.
func handleWriteError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL, entity string, err error) {
	if errors.Is(err, model.ErrForbidden) {
		flashError(w, r, renderer, RouteLogin, errorMessage(err, entity))
		return
	}
	flashError(w, r, renderer, redirectURL, errorMessage(err, entity))
}

// fieldErrors extracts per-field messages from a validation error.
// Lower-case messages ("is required") are prefixed with the field label.
func fieldErrors(err error) map[string]string {
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	out := make(map[string]string, len(ve.Fields))
	for name, msg := range ve.Fields {
		if msg != "" && unicode.IsLower(rune(msg[0])) {
			msg = fieldLabel(name) + " " + msg
		}
		out[name] = msg
	}
	return out
}

// fieldLabel turns a document field name into a label: imageUrl becomes
// "Image URL".
func fieldLabel(name string) string {
	switch name {
	case "imageUrl":
		return "Image URL"
	case "admissionFormLink":
		return "Admission form link"
	case "learningOutcomes":
		return "Learning outcomes"
	}
	return capitalizeFirst(name)
}

// sessionEmail returns the signed-in email, or "" for anonymous requests.
func sessionEmail(r *http.Request) string {
	if id := auth.SessionFrom(r.Context()).Identity; id != nil {
		return id.Email
	}
	return ""
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// formValues copies the named form values for re-rendering a form.
func formValues(r *http.Request, names ...string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		out[name] = r.FormValue(name)
	}
	return out
}
