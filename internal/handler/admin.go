// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/olegiv/institute-go/internal/content"
	"github.com/olegiv/institute-go/internal/model"
	"github.com/olegiv/institute-go/internal/render"
)

// dashboardEventLimit is the number of recent events on the dashboard.
const dashboardEventLimit = 10

// EventLister reads the most recent event log entries.
// *store.SQLStore satisfies it.
type EventLister interface {
	ListEvents(ctx context.Context, limit int) ([]model.Event, error)
}

// adminPage builds template data for admin pages. Admin routes are only
// reachable behind RequireAdmin.
func adminPage(title string, data any) render.TemplateData {
	return render.TemplateData{
		Title:   title,
		Nav:     navAdmin,
		IsAdmin: true,
		Data:    data,
	}
}

// AdminHandler serves the admin dashboard.
type AdminHandler struct {
	renderer *render.Renderer
	content  *content.Service
	events   EventLister
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(renderer *render.Renderer, svc *content.Service, events EventLister) *AdminHandler {
	return &AdminHandler{
		renderer: renderer,
		content:  svc,
		events:   events,
	}
}

// DashboardData holds data for the dashboard template.
type DashboardData struct {
	Stats    content.Stats
	Feedback content.FeedbackSummary
	Events   []model.Event
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	td := adminPage("Dashboard", nil)
	var data DashboardData

	stats, err := h.content.Stats(ctx)
	if err != nil {
		slog.Error("failed to load dashboard stats", "error", err)
		td.Flash, td.FlashType = msgLoadFailed, render.FlashError
	}
	data.Stats = stats

	if entries, err := h.content.Feedback.List(ctx); err == nil {
		data.Feedback = content.Summarize(entries)
	}

	if h.events != nil {
		events, err := h.events.ListEvents(ctx, dashboardEventLimit)
		if err != nil {
			slog.Warn("failed to load recent events", "error", err)
		}
		data.Events = events
	}

	td.Data = data
	h.renderer.RenderPage(w, r, "admin/dashboard", td)
}
