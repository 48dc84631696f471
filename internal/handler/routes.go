// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/institute-go/internal/auth"
	"github.com/olegiv/institute-go/internal/cache"
	"github.com/olegiv/institute-go/internal/content"
	"github.com/olegiv/institute-go/internal/handler/api"
	"github.com/olegiv/institute-go/internal/imaging"
	"github.com/olegiv/institute-go/internal/mail"
	"github.com/olegiv/institute-go/internal/metrics"
	"github.com/olegiv/institute-go/internal/middleware"
	"github.com/olegiv/institute-go/internal/render"
	"github.com/olegiv/institute-go/internal/version"
)

// Request limits.
const (
	defaultRequestTimeout = 30 * time.Second
	staticMaxAge          = 24 * time.Hour

	// Public form posts (contact, feedback) per IP.
	formRateLimit = 0.2
	formBurst     = 5

	apiRateLimit = 10
	apiBurst     = 20
)

// App holds everything the router wires into handlers.
type App struct {
	Renderer        *render.Renderer
	Content         *content.Service
	Gate            *auth.Gate
	Sessions        *scs.SessionManager
	Cache           *cache.Manager
	Jobs            JobRunner
	Events          EventLister
	DB              Pinger
	Notifier        *mail.Notifier
	Images          *imaging.Processor
	LoginProtection *middleware.LoginProtection
	Static          fs.FS
	Version         *version.Info

	AdminEmail     string
	SiteURL        string
	CSRFKey        []byte
	IsDev          bool
	MaxUpload      int64
	RequestTimeout time.Duration
}

// NewRouter builds the chi router for the whole site.
func NewRouter(app App) http.Handler {
	timeout := app.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	public := NewPublicHandler(app.Renderer, app.Content, app.Notifier, app.AdminEmail)
	authH := NewAuthHandler(app.Renderer, app.Gate, app.LoginProtection)
	adminH := NewAdminHandler(app.Renderer, app.Content, app.Events)
	coursesH := NewCoursesHandler(app.Renderer, app.Content)
	galleryH := NewGalleryHandler(app.Renderer, app.Content, app.Images, app.MaxUpload)
	siteH := NewSiteHandler(app.Renderer, app.Content)
	feedbackH := NewFeedbackHandler(app.Renderer, app.Content)
	cacheH := NewCacheHandler(app.Renderer, app.Cache)
	healthH := NewHealthHandler(app.DB, app.Cache, app.AdminEmail, app.Version)
	apiH := api.NewHandler(app.Content)
	seoH := NewSEOHandler(app.Content, app.SiteURL)

	formLimiter := middleware.NewRateLimiter(formRateLimit, formBurst)
	apiLimiter := middleware.NewRateLimiter(apiRateLimit, apiBurst)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RedirectSlashes)
	r.Use(chimw.Compress(5))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(app.IsDev)))
	r.Use(middleware.RequestPath)

	// Stateless routes: no session cookie.
	if app.Static != nil {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(app.Static)))
		r.With(middleware.StaticCache(staticMaxAge)).Handle(RouteStatic, fileServer)
	}
	r.Handle(RouteMetrics, metrics.Handler())
	r.Get(RouteSitemap, seoH.Sitemap)
	r.Get(RouteRobots, seoH.Robots)
	r.Get(RouteHealth+"/live", healthH.Liveness)
	r.Get(RouteHealth+"/ready", healthH.Readiness)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiLimiter.Middleware())
		r.Get(RouteRoot, apiH.Status)
		r.Get("/{collection}", apiH.List)
		r.Get("/{collection}/{key}", apiH.Get)
	})

	// Page routes resolve the admin session and reject cross-origin posts.
	withSession := chi.Chain(
		middleware.Timeout(timeout),
		app.Sessions.LoadAndSave,
		middleware.LoadSession(app.Gate),
		middleware.CSRF(middleware.DefaultCSRFConfig(app.CSRFKey, app.IsDev)),
	)

	r.Group(func(r chi.Router) {
		r.Use(withSession...)

		r.Get(RouteRoot, public.Home)
		r.Get(RouteCourses, public.Courses)
		r.Get(RouteCourses+RouteParamID, public.Course)
		r.Get(RouteGallery, public.Gallery)
		r.Get(RouteContact, public.Contact)
		r.With(formLimiter.HTMLMiddleware()).Post(RouteContact, public.ContactSubmit)
		r.Get(RouteFeedback, public.Feedback)
		r.With(formLimiter.HTMLMiddleware()).Post(RouteFeedback, public.FeedbackSubmit)
		r.Get(RouteHealth, healthH.Health)

		r.Route(redirectAdmin, func(r chi.Router) {
			r.With(middleware.RedirectIfAdmin(app.AdminEmail, redirectAdmin)).Get("/login", authH.LoginForm)
			if app.LoginProtection != nil {
				r.With(app.LoginProtection.Middleware()).Post("/login", authH.Login)
			} else {
				r.Post("/login", authH.Login)
			}
			r.Post("/logout", authH.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(app.AdminEmail))
				r.Use(middleware.NoStore)
				adminRoutes(r, app, adminH, authH, coursesH, galleryH, siteH, feedbackH, cacheH)
			})
		})
	})

	r.NotFound(withSession.HandlerFunc(public.NotFound).ServeHTTP)

	return r
}

func adminRoutes(r chi.Router, app App, adminH *AdminHandler, authH *AuthHandler,
	coursesH *CoursesHandler, galleryH *GalleryHandler, siteH *SiteHandler,
	feedbackH *FeedbackHandler, cacheH *CacheHandler) {
	r.Get(RouteRoot, adminH.Dashboard)
	r.Get("/password", authH.PasswordForm)
	r.Post("/password", authH.ChangePassword)

	r.Route(RouteCourses, func(r chi.Router) {
		r.Get(RouteRoot, coursesH.List)
		r.Get(RouteSuffixNew, coursesH.NewForm)
		r.Post(RouteRoot, coursesH.Create)
		r.Get(RouteParamID+RouteSuffixEdit, coursesH.EditForm)
		r.Post(RouteParamID, coursesH.Update)
		r.Post(RouteParamID+RouteSuffixDelete, coursesH.Delete)
	})

	r.Route(RouteGallery, func(r chi.Router) {
		r.Get(RouteRoot, galleryH.List)
		r.Get(RouteSuffixNew, galleryH.NewForm)
		r.Post(RouteRoot, galleryH.Create)
		r.Get(RouteParamID+RouteSuffixEdit, galleryH.EditForm)
		r.Post(RouteParamID, galleryH.Update)
		r.Post(RouteParamID+RouteSuffixDelete, galleryH.Delete)
	})

	r.Route("/site", func(r chi.Router) {
		r.Get(RouteRoot, siteH.Index)
		r.Get("/about", siteH.AboutForm)
		r.Post("/about", siteH.SaveAbout)
		r.Get("/contact", siteH.ContactForm)
		r.Post("/contact", siteH.SaveContact)
		r.Get("/updates", siteH.UpdatesForm)
		r.Post("/updates", siteH.SaveUpdates)
	})

	r.Route(RouteFeedback, func(r chi.Router) {
		r.Get(RouteRoot, feedbackH.List)
		r.Post(RouteParamID+RouteSuffixDelete, feedbackH.Delete)
	})

	r.Get("/cache", cacheH.Stats)
	r.Post("/cache/clear", cacheH.Clear)
	r.Post("/cache/refresh", cacheH.Refresh)

	if app.Jobs != nil {
		jobsH := NewSchedulerHandler(app.Renderer, app.Jobs)
		r.Get("/jobs", jobsH.List)
		r.Post("/jobs/{name}/run", jobsH.TriggerNow)
		r.Post("/jobs/{name}/schedule", jobsH.UpdateSchedule)
		r.Post("/jobs/{name}/reset", jobsH.ResetSchedule)
	}
}
