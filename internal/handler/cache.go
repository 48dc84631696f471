// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/olegiv/institute-go/internal/cache"
	"github.com/olegiv/institute-go/internal/render"
)

// CacheHandler handles cache management routes.
type CacheHandler struct {
	renderer     *render.Renderer
	cacheManager *cache.Manager
}

// NewCacheHandler creates a new CacheHandler.
func NewCacheHandler(renderer *render.Renderer, cm *cache.Manager) *CacheHandler {
	return &CacheHandler{
		renderer:     renderer,
		cacheManager: cm,
	}
}

// CacheStatsData holds data for the cache stats template.
type CacheStatsData struct {
	Info  cache.Info
	Stats cache.Stats
}

// Stats handles GET /admin/cache - displays cache statistics.
func (h *CacheHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.cacheManager == nil {
		flashError(w, r, h.renderer, redirectAdmin, "Cache system not initialized")
		return
	}

	h.renderer.RenderPage(w, r, "admin/cache", adminPage("Cache", CacheStatsData{
		Info:  h.cacheManager.Info(),
		Stats: h.cacheManager.Stats(),
	}))
}

// cacheActionHelper runs a cache operation, logs it and redirects with a flash.
func (h *CacheHandler) cacheActionHelper(w http.ResponseWriter, r *http.Request, fn func(context.Context) error, logMsg, flashMsg string) {
	if h.cacheManager == nil {
		flashError(w, r, h.renderer, redirectAdminCache, "Cache system not initialized")
		return
	}

	if err := fn(r.Context()); err != nil {
		slog.Error(logMsg+" failed", "category", "cache", "error", err)
		flashError(w, r, h.renderer, redirectAdminCache, "Cache operation failed: "+err.Error())
		return
	}

	slog.Info(logMsg, "category", "cache", "by", sessionEmail(r))
	flashSuccess(w, r, h.renderer, redirectAdminCache, flashMsg)
}

// Clear handles POST /admin/cache/clear - drops every snapshot.
func (h *CacheHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.cacheActionHelper(w, r, h.cacheManager.ClearAll,
		"cache cleared", "All cached content cleared")
}

// Refresh handles POST /admin/cache/refresh - reloads every collection.
func (h *CacheHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.cacheActionHelper(w, r, h.cacheManager.RefreshAll,
		"cache refreshed", "Cached content reloaded from the store")
}
