// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/institute-go/internal/content"
	"github.com/olegiv/institute-go/internal/model"
)

// Handler serves the read API.
type Handler struct {
	content *content.Service
}

// NewHandler creates a new API handler.
func NewHandler(svc *content.Service) *Handler {
	return &Handler{content: svc}
}

// StatusResponse contains API status information.
type StatusResponse struct {
	Status      string   `json:"status"`
	Version     string   `json:"version"`
	Collections []string `json:"collections"`
}

// Status handles GET /api/v1.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0, len(model.Collections))
	for _, c := range model.Collections {
		names = append(names, c.String())
	}
	WriteSuccess(w, StatusResponse{Status: "ok", Version: "v1", Collections: names}, nil)
}

// List handles GET /api/v1/{collection}.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	coll := model.CollectionID(chi.URLParam(r, "collection"))
	if !coll.Valid() {
		WriteNotFound(w, "Unknown collection")
		return
	}

	page, perPage, err := pagination(r)
	if err != nil {
		WriteBadRequest(w, "Invalid pagination parameters", map[string]string{
			"page": "must be a positive integer", "per_page": "must be a positive integer",
		})
		return
	}

	items, err := h.content.Collection(r.Context(), coll)
	if err != nil {
		slog.Error("api: failed to load collection", "collection", coll, "error", err)
		WriteInternalError(w, "Failed to load "+coll.String())
		return
	}

	docs := make([]any, 0, len(items))
	for _, item := range items {
		docs = append(docs, publicDoc(coll, item))
	}
	data, meta := paginate(docs, page, perPage)
	WriteSuccess(w, data, meta)
}

// Get handles GET /api/v1/{collection}/{key}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	coll := model.CollectionID(chi.URLParam(r, "collection"))
	if !coll.Valid() {
		WriteNotFound(w, "Unknown collection")
		return
	}
	key := chi.URLParam(r, "key")

	items, err := h.content.Collection(r.Context(), coll)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			WriteNotFound(w, "Document not found")
			return
		}
		slog.Error("api: failed to load collection", "collection", coll, "error", err)
		WriteInternalError(w, "Failed to load "+coll.String())
		return
	}

	item, ok := items.Find(key)
	if !ok {
		WriteNotFound(w, "Document not found")
		return
	}
	WriteSuccess(w, publicDoc(coll, item), nil)
}

// publicDoc decodes an item into its typed document. Visitor email
// addresses are never exposed.
func publicDoc(coll model.CollectionID, item model.ContentItem) any {
	switch coll {
	case model.CollectionCourses:
		return model.CourseFromItem(item)
	case model.CollectionGallery:
		return model.GalleryFromItem(item)
	case model.CollectionFeedback:
		doc := model.FeedbackFromItem(item)
		doc.Email = ""
		return doc
	case model.CollectionSiteContent:
		switch item.Key {
		case model.SiteKeyAbout:
			return model.AboutFromItem(item)
		case model.SiteKeyContact:
			return model.ContactFromItem(item)
		case model.SiteKeyUpdates:
			return model.UpdatesFromItem(item)
		}
	}
	return item.Fields
}
