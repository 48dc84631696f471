// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/institute-go/internal/content"
	"github.com/olegiv/institute-go/internal/seo"
)

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	content *content.Service
	siteURL string
}

// NewSEOHandler creates a new SEOHandler. An empty siteURL is derived
// from each request.
func NewSEOHandler(svc *content.Service, siteURL string) *SEOHandler {
	return &SEOHandler{content: svc, siteURL: strings.TrimRight(siteURL, "/")}
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	items, err := h.content.Courses.Items(r.Context())
	if err != nil {
		slog.Error("sitemap: failed to load courses", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	courses := make([]seo.SitemapCourse, 0, len(items))
	for _, item := range items {
		courses = append(courses, seo.SitemapCourse{Key: item.Key, UpdatedAt: item.UpdatedAt})
	}

	out, err := seo.GenerateSitemap(h.baseURL(r), courses)
	if err != nil {
		slog.Error("sitemap: failed to build", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	body := seo.NewRobotsBuilder(seo.RobotsConfig{SiteURL: h.baseURL(r)}).Build()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(body))
}
