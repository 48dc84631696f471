// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/institute-go/internal/content"
	"github.com/olegiv/institute-go/internal/imaging"
	"github.com/olegiv/institute-go/internal/model"
	"github.com/olegiv/institute-go/internal/render"
)

// uploadField is the multipart field carrying an image file.
const uploadField = "image_file"

// multipartOverhead covers the non-file form fields of an upload.
const multipartOverhead = 1 << 20

// GalleryHandler handles gallery management routes.
type GalleryHandler struct {
	renderer  *render.Renderer
	content   *content.Service
	processor *imaging.Processor
	maxUpload int64
}

// NewGalleryHandler creates a new GalleryHandler. Uploads larger than
// maxUpload bytes are rejected.
func NewGalleryHandler(renderer *render.Renderer, svc *content.Service, processor *imaging.Processor, maxUpload int64) *GalleryHandler {
	return &GalleryHandler{
		renderer:  renderer,
		content:   svc,
		processor: processor,
		maxUpload: maxUpload,
	}
}

// GalleryFormData holds data for the gallery form template.
type GalleryFormData struct {
	Key       string
	IsEdit    bool
	Current   string // current image, shown as a preview when editing
	MaxUpload int64
}

// List handles GET /admin/gallery.
func (h *GalleryHandler) List(w http.ResponseWriter, r *http.Request) {
	td := adminPage("Gallery", nil)
	images, err := h.content.Gallery.List(r.Context())
	if err != nil {
		slog.Error("failed to list gallery", "error", err)
		td.Flash, td.FlashType = msgLoadFailed, render.FlashError
	}
	td.Data = images
	h.renderer.RenderPage(w, r, "admin/gallery", td)
}

// NewForm handles GET /admin/gallery/new.
func (h *GalleryHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, model.GalleryDoc{}, nil, nil)
}

// EditForm handles GET /admin/gallery/{id}/edit.
func (h *GalleryHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	img, err := h.content.Gallery.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleWriteError(w, r, h.renderer, redirectAdminGallery, "image", err)
		return
	}

	form := map[string]string{"title": img.Title, "description": img.Description}
	if !img.IsDataURL() {
		form["imageUrl"] = img.ImageURL
	}
	h.renderForm(w, r, http.StatusOK, img, form, nil)
}

func (h *GalleryHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, current model.GalleryDoc, form, errs map[string]string) {
	title := "Add Image"
	if current.Key != "" {
		title = "Edit Image"
	}
	td := adminPage(title, GalleryFormData{
		Key:       current.Key,
		IsEdit:    current.Key != "",
		Current:   current.ImageURL,
		MaxUpload: h.maxUpload >> 20,
	})
	td.Form = form
	td.Errors = errs
	h.renderer.RenderPageStatus(w, r, status, "admin/gallery_form", td)
}

// parseGalleryForm reads the form and resolves the image source: an
// uploaded file wins over the URL field. It returns field errors for an
// unusable upload.
func (h *GalleryHandler) parseGalleryForm(w http.ResponseWriter, r *http.Request) (model.GalleryDoc, map[string]string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUpload + multipartOverhead); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return model.GalleryDoc{}, map[string]string{
				uploadField: fmt.Sprintf("Image must be at most %d MB", h.maxUpload>>20),
			}, nil
		}
		return model.GalleryDoc{}, nil, err
	}

	doc := model.GalleryDoc{
		ImageURL:    r.FormValue("imageUrl"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	}

	file, header, err := r.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return doc, nil, nil
	}
	if err != nil {
		return doc, nil, err
	}
	defer func() { _ = file.Close() }()

	if header.Size == 0 {
		return doc, nil, nil
	}

	res, err := h.processor.Process(file)
	if err != nil {
		msg := "Image could not be processed"
		switch {
		case errors.Is(err, imaging.ErrTooLarge):
			msg = fmt.Sprintf("Image must be at most %d MB", h.maxUpload>>20)
		case errors.Is(err, imaging.ErrUnsupportedFormat):
			msg = "Image must be a JPEG, PNG, GIF or WebP file"
		}
		slog.Info("rejected gallery upload", "filename", header.Filename, "error", err)
		return doc, map[string]string{uploadField: msg}, nil
	}

	slog.Info("processed gallery upload",
		"filename", header.Filename, "mime", res.MimeType,
		"width", res.Width, "height", res.Height, "bytes", res.Size)
	doc.ImageURL = res.DataURL
	return doc, nil, nil
}

// Create handles POST /admin/gallery.
func (h *GalleryHandler) Create(w http.ResponseWriter, r *http.Request) {
	doc, uploadErrs, err := h.parseGalleryForm(w, r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminGallery+RouteSuffixNew, "Invalid form data")
		return
	}
	form := formValues(r, "imageUrl", "title", "description")
	if uploadErrs != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, model.GalleryDoc{}, form, uploadErrs)
		return
	}

	if _, err := h.content.Gallery.Create(r.Context(), doc); err != nil {
		if model.IsValidationError(err) {
			h.renderForm(w, r, http.StatusUnprocessableEntity, model.GalleryDoc{}, form, fieldErrors(err))
			return
		}
		handleWriteError(w, r, h.renderer, redirectAdminGallery, "image", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminGallery, "Image added.")
}

// Update handles POST /admin/gallery/{id}. Leaving both the URL and the
// file empty keeps the current image.
func (h *GalleryHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "id")
	current, err := h.content.Gallery.Get(r.Context(), key)
	if err != nil {
		handleWriteError(w, r, h.renderer, redirectAdminGallery, "image", err)
		return
	}

	doc, uploadErrs, err := h.parseGalleryForm(w, r)
	if err != nil {
		flashError(w, r, h.renderer, redirectAdminGallery, "Invalid form data")
		return
	}
	form := formValues(r, "imageUrl", "title", "description")
	if uploadErrs != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, current, form, uploadErrs)
		return
	}
	if doc.ImageURL == "" {
		doc.ImageURL = current.ImageURL
	}

	if _, err := h.content.Gallery.Update(r.Context(), key, doc); err != nil {
		if model.IsValidationError(err) {
			h.renderForm(w, r, http.StatusUnprocessableEntity, current, form, fieldErrors(err))
			return
		}
		handleWriteError(w, r, h.renderer, redirectAdminGallery, "image", err)
		return
	}

	flashSuccess(w, r, h.renderer, redirectAdminGallery, "Image updated.")
}

// Delete handles POST /admin/gallery/{id}/delete.
func (h *GalleryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.content.Gallery.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleWriteError(w, r, h.renderer, redirectAdminGallery, "image", err)
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdminGallery, "Image deleted.")
}
