// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"

	"github.com/olegiv/institute-go/internal/content"
	"github.com/olegiv/institute-go/internal/model"
	"github.com/olegiv/institute-go/internal/render"
)

// SiteHandler edits the fixed site text blocks.
type SiteHandler struct {
	renderer *render.Renderer
	content  *content.Service
}

// NewSiteHandler creates a new SiteHandler.
func NewSiteHandler(renderer *render.Renderer, svc *content.Service) *SiteHandler {
	return &SiteHandler{renderer: renderer, content: svc}
}

// Index handles GET /admin/site.
func (h *SiteHandler) Index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, redirectAdminSite+"/"+model.SiteKeyAbout, http.StatusSeeOther)
}

// AboutForm handles GET /admin/site/about.
func (h *SiteHandler) AboutForm(w http.ResponseWriter, r *http.Request) {
	about := h.content.Site.About(r.Context())
	h.render(w, r, http.StatusOK, "admin/site_about", "About Text",
		map[string]string{"text": about.Text}, nil)
}

// SaveAbout handles POST /admin/site/about.
func (h *SiteHandler) SaveAbout(w http.ResponseWriter, r *http.Request) {
	const redirect = redirectAdminSite + "/" + model.SiteKeyAbout
	if !parseFormOrRedirect(w, r, h.renderer, redirect) {
		return
	}

	err := h.content.Site.SetAbout(r.Context(), model.AboutDoc{Text: r.FormValue("text")})
	h.finish(w, r, redirect, "admin/site_about", "About Text", formValues(r, "text"), err)
}

// ContactForm handles GET /admin/site/contact.
func (h *SiteHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	c := h.content.Site.Contact(r.Context())
	h.render(w, r, http.StatusOK, "admin/site_contact", "Contact Details", map[string]string{
		"address":           c.Address,
		"phone":             c.Phone,
		"email":             c.Email,
		"hours":             c.Hours,
		"admissionFormLink": c.AdmissionFormLink,
	}, nil)
}

// SaveContact handles POST /admin/site/contact.
func (h *SiteHandler) SaveContact(w http.ResponseWriter, r *http.Request) {
	const redirect = redirectAdminSite + "/" + model.SiteKeyContact
	if !parseFormOrRedirect(w, r, h.renderer, redirect) {
		return
	}

	err := h.content.Site.SetContact(r.Context(), model.ContactDoc{
		Address:           r.FormValue("address"),
		Phone:             r.FormValue("phone"),
		Email:             r.FormValue("email"),
		Hours:             r.FormValue("hours"),
		AdmissionFormLink: r.FormValue("admissionFormLink"),
	})
	h.finish(w, r, redirect, "admin/site_contact", "Contact Details",
		formValues(r, "address", "phone", "email", "hours", "admissionFormLink"), err)
}

// UpdatesForm handles GET /admin/site/updates. Items are edited one per line.
func (h *SiteHandler) UpdatesForm(w http.ResponseWriter, r *http.Request) {
	updates := h.content.Site.Updates(r.Context())
	h.render(w, r, http.StatusOK, "admin/site_updates", "Latest Updates",
		map[string]string{"items": strings.Join(updates.Items, "\n")}, nil)
}

// SaveUpdates handles POST /admin/site/updates.
func (h *SiteHandler) SaveUpdates(w http.ResponseWriter, r *http.Request) {
	const redirect = redirectAdminSite + "/" + model.SiteKeyUpdates
	if !parseFormOrRedirect(w, r, h.renderer, redirect) {
		return
	}

	items := strings.Split(strings.ReplaceAll(r.FormValue("items"), "\r\n", "\n"), "\n")
	err := h.content.Site.SetUpdates(r.Context(), model.UpdatesDoc{Items: items})
	h.finish(w, r, redirect, "admin/site_updates", "Latest Updates", formValues(r, "items"), err)
}

func (h *SiteHandler) render(w http.ResponseWriter, r *http.Request, status int, tmpl, title string, form, errs map[string]string) {
	td := adminPage(title, nil)
	td.Form = form
	td.Errors = errs
	h.renderer.RenderPageStatus(w, r, status, tmpl, td)
}

// finish redirects after a save, or re-renders the form on validation errors.
func (h *SiteHandler) finish(w http.ResponseWriter, r *http.Request, redirect, tmpl, title string, form map[string]string, err error) {
	if err == nil {
		flashSuccess(w, r, h.renderer, redirect, title+" saved.")
		return
	}
	if model.IsValidationError(err) {
		h.render(w, r, http.StatusUnprocessableEntity, tmpl, title, form, fieldErrors(err))
		return
	}
	handleWriteError(w, r, h.renderer, redirect, "site text", err)
}
