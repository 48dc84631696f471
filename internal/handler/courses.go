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

// courseFields are the inputs of the course form.
var courseFields = []string{"title", "description", "duration", "category", "level", "overview", "learningOutcomes"}

// CoursesHandler handles course management routes.
type CoursesHandler struct {
	renderer *render.Renderer
	content  *content.Service
}

// NewCoursesHandler creates a new CoursesHandler.
func NewCoursesHandler(renderer *render.Renderer, svc *content.Service) *CoursesHandler {
	return &CoursesHandler{renderer: renderer, content: svc}
}

// CourseFormData holds data for the course form template.
type CourseFormData struct {
	Key    string
	IsEdit bool
	Levels []string
}

// List handles GET /admin/courses.
func (h *CoursesHandler) List(w http.ResponseWriter, r *http.Request) {
	td := adminPage("Courses", nil)
	courses, err := h.content.Courses.List(r.Context())
	if err != nil {
		slog.Error("failed to list courses", "error", err)
		td.Flash, td.FlashType = msgLoadFailed, render.FlashError
	}
	td.Data = courses
	h.renderer.RenderPage(w, r, "admin/courses", td)
}

// NewForm handles GET /admin/courses/new.
func (h *CoursesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "", map[string]string{"level": model.LevelBeginner}, nil)
}

// EditForm handles GET /admin/courses/{id}/edit.
func (h *CoursesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "id")
	course, err := h.content.Courses.Get(r.Context(), key)
	if err != nil {
		handleWriteError(w, r, h.renderer, redirectAdminCourses, "course", err)
		return
	}

	h.renderForm(w, r, http.StatusOK, key, map[string]string{
		"title":            course.Title,
		"description":      course.Description,
		"duration":         course.Duration,
		"category":         course.Category,
		"level":            course.Level,
		"overview":         course.Overview,
		"learningOutcomes": course.LearningOutcomes,
	}, nil)
}

func (h *CoursesHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, key string, form, errs map[string]string) {
	title := "New Course"
	if key != "" {
		title = "Edit Course"
	}
	td := adminPage(title, CourseFormData{
		Key:    key,
		IsEdit: key != "",
		Levels: []string{model.LevelBeginner, model.LevelIntermediate, model.LevelAdvanced},
	})
	td.Form = form
	td.Errors = errs
	h.renderer.RenderPageStatus(w, r, status, "admin/course_form", td)
}

func courseFromForm(r *http.Request) model.CourseDoc {
	return model.CourseDoc{
		Title:            r.FormValue("title"),
		Description:      r.FormValue("description"),
		Duration:         r.FormValue("duration"),
		Category:         r.FormValue("category"),
		Level:            r.FormValue("level"),
		Overview:         r.FormValue("overview"),
		LearningOutcomes: r.FormValue("learningOutcomes"),
	}
}

// Create handles POST /admin/courses.
func (h *CoursesHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCourses+RouteSuffixNew) {
		return
	}

	course, err := h.content.Courses.Create(r.Context(), courseFromForm(r))
	if err != nil {
		if model.IsValidationError(err) {
			h.renderForm(w, r, http.StatusUnprocessableEntity, "", formValues(r, courseFields...), fieldErrors(err))
			return
		}
		handleWriteError(w, r, h.renderer, redirectAdminCourses, "course", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminCourses, "Course \""+course.Title+"\" created.")
}

// Update handles POST /admin/courses/{id}.
func (h *CoursesHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "id")
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminCourses) {
		return
	}

	course, err := h.content.Courses.Update(r.Context(), key, courseFromForm(r))
	if err != nil {
		if model.IsValidationError(err) {
			h.renderForm(w, r, http.StatusUnprocessableEntity, key, formValues(r, courseFields...), fieldErrors(err))
			return
		}
		handleWriteError(w, r, h.renderer, redirectAdminCourses, "course", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminCourses, "Course \""+course.Title+"\" updated.")
}

// Delete handles POST /admin/courses/{id}/delete.
func (h *CoursesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.content.Courses.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleWriteError(w, r, h.renderer, redirectAdminCourses, "course", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminCourses, "Course deleted.")
}
