// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/institute-go/internal/render"
	"github.com/olegiv/institute-go/internal/scheduler"
)

// JobRunner is the scheduler surface used by the jobs page.
// *scheduler.Scheduler satisfies it.
type JobRunner interface {
	List() []scheduler.JobInfo
	TriggerNow(name string) error
	UpdateSchedule(name, schedule string) error
	ResetSchedule(name string) error
}

// SchedulerHandler handles background job routes.
type SchedulerHandler struct {
	renderer *render.Renderer
	jobs     JobRunner
}

// NewSchedulerHandler creates a new SchedulerHandler.
func NewSchedulerHandler(renderer *render.Renderer, jobs JobRunner) *SchedulerHandler {
	return &SchedulerHandler{renderer: renderer, jobs: jobs}
}

// List handles GET /admin/jobs.
func (h *SchedulerHandler) List(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderPage(w, r, "admin/jobs", adminPage("Scheduled Jobs", h.jobs.List()))
}

// TriggerNow handles POST /admin/jobs/{name}/run.
func (h *SchedulerHandler) TriggerNow(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.jobs.TriggerNow(name); err != nil {
		slog.Warn("manual job run failed", "category", "scheduler", "job", name, "error", err)
		flashError(w, r, h.renderer, redirectAdminJobs, "Job "+name+" failed: "+err.Error())
		return
	}
	slog.Info("job triggered manually", "category", "scheduler", "job", name, "by", sessionEmail(r))
	flashSuccess(w, r, h.renderer, redirectAdminJobs, "Job "+name+" completed.")
}

// UpdateSchedule handles POST /admin/jobs/{name}/schedule.
func (h *SchedulerHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminJobs) {
		return
	}

	schedule := strings.TrimSpace(r.FormValue("schedule"))
	if schedule == "" {
		flashError(w, r, h.renderer, redirectAdminJobs, "Schedule is required")
		return
	}

	if err := h.jobs.UpdateSchedule(name, schedule); err != nil {
		flashError(w, r, h.renderer, redirectAdminJobs, "Invalid schedule: "+err.Error())
		return
	}
	slog.Info("job schedule updated", "category", "scheduler", "job", name, "schedule", schedule)
	flashSuccess(w, r, h.renderer, redirectAdminJobs, "Schedule for "+name+" updated.")
}

// ResetSchedule handles POST /admin/jobs/{name}/reset.
func (h *SchedulerHandler) ResetSchedule(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.jobs.ResetSchedule(name); err != nil {
		flashError(w, r, h.renderer, redirectAdminJobs, err.Error())
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminJobs, "Schedule for "+name+" reset to default.")
}
