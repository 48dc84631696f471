// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/institute-go/internal/content"
	"github.com/olegiv/institute-go/internal/model"
	"github.com/olegiv/institute-go/internal/render"
)

// FeedbackHandler moderates visitor testimonials.
type FeedbackHandler struct {
	renderer *render.Renderer
	content  *content.Service
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(renderer *render.Renderer, svc *content.Service) *FeedbackHandler {
	return &FeedbackHandler{renderer: renderer, content: svc}
}

// FeedbackListData holds data for the moderation template.
type FeedbackListData struct {
	Entries []model.FeedbackDoc
	Summary content.FeedbackSummary
}

// List handles GET /admin/feedback.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	td := adminPage("Feedback", nil)
	entries, err := h.content.Feedback.List(r.Context())
	if err != nil {
		slog.Error("failed to list feedback", "error", err)
		td.Flash, td.FlashType = msgLoadFailed, render.FlashError
	}
	td.Data = FeedbackListData{Entries: entries, Summary: content.Summarize(entries)}
	h.renderer.RenderPage(w, r, "admin/feedback", td)
}

// Delete handles POST /admin/feedback/{id}/delete.
func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.content.Feedback.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleWriteError(w, r, h.renderer, redirectAdminFeedback, "feedback", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminFeedback, "Feedback removed.")
}
