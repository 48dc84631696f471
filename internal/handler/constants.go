// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixEdit is the suffix for edit routes.
	RouteSuffixEdit = "/edit"
	// RouteSuffixDelete is the suffix for delete routes.
	RouteSuffixDelete = "/delete"

	// RouteParamID is the document key parameter pattern.
	RouteParamID = "/{id}"

	// RouteLogin is the login route.
	RouteLogin = "/admin/login"

	RouteCourses  = "/courses"
	RouteGallery  = "/gallery"
	RouteContact  = "/contact"
	RouteFeedback = "/feedback"
	RouteHealth   = "/health"
	RouteMetrics  = "/metrics"
	RouteStatic   = "/static/*"
	RouteSitemap  = "/sitemap.xml"
	RouteRobots   = "/robots.txt"
)

// Admin redirect targets.
const (
	redirectAdmin         = "/admin"
	redirectAdminCourses  = "/admin/courses"
	redirectAdminGallery  = "/admin/gallery"
	redirectAdminSite     = "/admin/site"
	redirectAdminFeedback = "/admin/feedback"
	redirectAdminPassword = "/admin/password"
	redirectAdminCache    = "/admin/cache"
	redirectAdminJobs     = "/admin/jobs"
)

// Navigation keys highlighted by the layout.
const (
	navHome     = "home"
	navCourses  = "courses"
	navGallery  = "gallery"
	navContact  = "contact"
	navFeedback = "feedback"
	navAdmin    = "admin"
)
