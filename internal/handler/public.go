// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP handlers of the public site and the
// admin area.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/institute-go/internal/content"
	"github.com/olegiv/institute-go/internal/mail"
	"github.com/olegiv/institute-go/internal/middleware"
	"github.com/olegiv/institute-go/internal/model"
	"github.com/olegiv/institute-go/internal/render"
)

// homeCourseCount is how many courses the home page features.
const homeCourseCount = 3

// PublicHandler serves the visitor-facing pages.
type PublicHandler struct {
	renderer   *render.Renderer
	content    *content.Service
	notifier   *mail.Notifier
	adminEmail string
}

// NewPublicHandler creates a new PublicHandler.
func NewPublicHandler(renderer *render.Renderer, svc *content.Service, notifier *mail.Notifier, adminEmail string) *PublicHandler {
	return &PublicHandler{
		renderer:   renderer,
		content:    svc,
		notifier:   notifier,
		adminEmail: adminEmail,
	}
}

// page builds the template data shared by every public page.
func (h *PublicHandler) page(r *http.Request, title, nav string, data any) render.TemplateData {
	return render.TemplateData{
		Title:   title,
		Nav:     nav,
		IsAdmin: middleware.IsAdmin(r, h.adminEmail),
		Data:    data,
	}
}

// HomeData holds data for the home page.
type HomeData struct {
	About   model.AboutDoc
	Updates model.UpdatesDoc
	Courses []model.CourseDoc
	Contact model.ContactDoc
}

// Home handles GET /.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := HomeData{
		About:   h.content.Site.About(ctx),
		Updates: h.content.Site.Updates(ctx),
		Contact: h.content.Site.Contact(ctx),
	}

	td := h.page(r, "Home", navHome, nil)
	courses, err := h.content.Courses.List(ctx)
	if err != nil {
		slog.Error("failed to load courses", "error", err)
		td.Flash, td.FlashType = msgLoadFailed, render.FlashError
	}
	if len(courses) > homeCourseCount {
		courses = courses[:homeCourseCount]
	}
	data.Courses = courses
	td.Data = data

	h.renderer.RenderPage(w, r, "public/home", td)
}

// Courses handles GET /courses.
func (h *PublicHandler) Courses(w http.ResponseWriter, r *http.Request) {
	td := h.page(r, "Courses", navCourses, nil)
	courses, err := h.content.Courses.List(r.Context())
	if err != nil {
		slog.Error("failed to load courses", "error", err)
		td.Flash, td.FlashType = msgLoadFailed, render.FlashError
	}
	td.Data = courses
	h.renderer.RenderPage(w, r, "public/courses", td)
}

// Course handles GET /courses/{id}.
func (h *PublicHandler) Course(w http.ResponseWriter, r *http.Request) {
	course, err := h.content.Courses.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		slog.Error("failed to load course", "key", chi.URLParam(r, "id"), "error", err)
		td := h.page(r, "Courses", navCourses, nil)
		td.Flash, td.FlashType = msgLoadFailed, render.FlashError
		h.renderer.RenderPage(w, r, "public/courses", td)
		return
	}

	h.renderer.RenderPage(w, r, "public/course", h.page(r, course.Title, navCourses, course))
}

// Gallery handles GET /gallery.
func (h *PublicHandler) Gallery(w http.ResponseWriter, r *http.Request) {
	td := h.page(r, "Gallery", navGallery, nil)
	images, err := h.content.Gallery.List(r.Context())
	if err != nil {
		slog.Error("failed to load gallery", "error", err)
		td.Flash, td.FlashType = msgLoadFailed, render.FlashError
	}
	td.Data = images
	h.renderer.RenderPage(w, r, "public/gallery", td)
}

// contactFields are the inputs of the contact form.
var contactFields = []string{"name", "email", "phone", "subject", "message"}

// Contact handles GET /contact.
func (h *PublicHandler) Contact(w http.ResponseWriter, r *http.Request) {
	h.renderContact(w, r, http.StatusOK, nil, nil)
}

func (h *PublicHandler) renderContact(w http.ResponseWriter, r *http.Request, status int, form, errs map[string]string) {
	td := h.page(r, "Contact", navContact, h.content.Site.Contact(r.Context()))
	td.Form = form
	td.Errors = errs
	h.renderer.RenderPageStatus(w, r, status, "public/contact", td)
}

// ContactSubmit handles POST /contact.
func (h *PublicHandler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteContact) {
		return
	}

	msg := mail.ContactMessage{
		Name:    r.FormValue("name"),
		Email:   r.FormValue("email"),
		Phone:   r.FormValue("phone"),
		Subject: r.FormValue("subject"),
		Message: r.FormValue("message"),
	}

	if err := h.notifier.Submit(r.Context(), msg); err != nil {
		if model.IsValidationError(err) {
			h.renderContact(w, r, http.StatusUnprocessableEntity, formValues(r, contactFields...), fieldErrors(err))
			return
		}
		slog.Error("failed to send contact message", "category", "mail", "error", err)
		flashError(w, r, h.renderer, RouteContact, "Your message could not be sent. Please try again later.")
		return
	}

	flashSuccess(w, r, h.renderer, RouteContact, "Thank you! Your message has been sent.")
}

// FeedbackData holds data for the testimonials page.
type FeedbackData struct {
	Entries []model.FeedbackDoc
	Summary content.FeedbackSummary
	Courses []model.CourseDoc
}

// feedbackFields are the inputs of the testimonial form.
var feedbackFields = []string{"name", "email", "course", "rating", "message"}

// Feedback handles GET /feedback.
func (h *PublicHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	h.renderFeedback(w, r, http.StatusOK, nil, nil)
}

func (h *PublicHandler) renderFeedback(w http.ResponseWriter, r *http.Request, status int, form, errs map[string]string) {
	ctx := r.Context()
	td := h.page(r, "Feedback", navFeedback, nil)

	entries, err := h.content.Feedback.List(ctx)
	if err != nil {
		slog.Error("failed to load feedback", "error", err)
		td.Flash, td.FlashType = msgLoadFailed, render.FlashError
	}
	// Course list only feeds the form's select; a failure leaves it empty.
	courses, _ := h.content.Courses.List(ctx)

	td.Data = FeedbackData{
		Entries: entries,
		Summary: content.Summarize(entries),
		Courses: courses,
	}
	td.Form = form
	td.Errors = errs
	h.renderer.RenderPageStatus(w, r, status, "public/feedback", td)
}

// FeedbackSubmit handles POST /feedback.
func (h *PublicHandler) FeedbackSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteFeedback) {
		return
	}

	rating, _ := strconv.Atoi(r.FormValue("rating"))
	doc := model.FeedbackDoc{
		Name:    render.PlainText(r.FormValue("name")),
		Email:   r.FormValue("email"),
		Course:  r.FormValue("course"),
		Rating:  rating,
		Message: render.PlainText(r.FormValue("message")),
	}

	if _, err := h.content.Feedback.Create(r.Context(), doc); err != nil {
		if model.IsValidationError(err) {
			h.renderFeedback(w, r, http.StatusUnprocessableEntity, formValues(r, feedbackFields...), fieldErrors(err))
			return
		}
		flashError(w, r, h.renderer, RouteFeedback, errorMessage(err, "feedback"))
		return
	}

	flashSuccess(w, r, h.renderer, RouteFeedback, "Thank you for your feedback!")
}

// NotFound renders the not-found page.
func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderPageStatus(w, r, http.StatusNotFound, "public/not_found", h.page(r, "Page not found", "", nil))
}
