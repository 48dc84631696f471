// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/institute-go/internal/auth"
	"github.com/olegiv/institute-go/internal/cache"
	"github.com/olegiv/institute-go/internal/config"
	"github.com/olegiv/institute-go/internal/content"
	"github.com/olegiv/institute-go/internal/handler"
	"github.com/olegiv/institute-go/internal/imaging"
	"github.com/olegiv/institute-go/internal/logging"
	"github.com/olegiv/institute-go/internal/mail"
	"github.com/olegiv/institute-go/internal/middleware"
	"github.com/olegiv/institute-go/internal/render"
	"github.com/olegiv/institute-go/internal/scheduler"
	"github.com/olegiv/institute-go/internal/session"
	"github.com/olegiv/institute-go/internal/store"
	"github.com/olegiv/institute-go/internal/version"
	"github.com/olegiv/institute-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	envFile := flag.String("env", ".env", "Optional .env file loaded before reading the environment")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "institute - institute website and content admin\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTITUTE_SESSION_SECRET   Session and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTITUTE_ADMIN_EMAIL      The administrator account (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTITUTE_ADMIN_PASSWORD   Password used to create the admin account on first start\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTITUTE_DB_DRIVER        sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTITUTE_DB_PATH          SQLite database path (default: ./data/institute.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTITUTE_DB_DSN           MySQL DSN\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTITUTE_SITE_URL         Public base URL used in sitemap.xml (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTITUTE_REDIS_URL        Redis URL for shared snapshot caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INSTITUTE_RESEND_API_KEY   Deliver contact messages through Resend (optional)\n")
	}

	flag.Parse()

	info := &version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Printf("institute %s\n", info)
		os.Exit(0)
	}

	if err := run(*envFile, info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(envFile string, info *version.Info) error {
	// Missing .env is normal outside development.
	_ = godotenv.Load(envFile)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	if cfg.DBDriver == store.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	dbCfg := store.DefaultDBConfig()
	dbCfg.Driver = cfg.DBDriver
	slog.Info("initializing database", "driver", cfg.DBDriver)
	db, err := store.NewDBWithConfig(cfg.DSN(), dbCfg)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	slog.Info("running database migrations")
	if err := store.Migrate(db, cfg.DBDriver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	st := store.New(db)

	// From here on WARN and ERROR records also land in the event log.
	slog.SetDefault(slog.New(logging.NewEventLogHandler(textHandler, st)))
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.SeedAdmin(ctx, st, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	cacheManager := cache.NewManager(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheTTLDuration(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, st)
	defer func() { _ = cacheManager.Close() }()

	if cacheInfo := cacheManager.Info(); cacheInfo.Fallback {
		slog.Warn("cache manager initialized", "backend", cacheInfo.Backend,
			"note", "Redis unavailable, using fallback", "reason", cacheInfo.Reason)
	} else {
		slog.Info("cache manager initialized", "backend", cacheInfo.Backend)
	}

	sessionManager := session.New(db, cfg.DBDriver, cfg.IsDevelopment())
	gate := auth.NewGate(auth.NewLocalProvider(st), sessionManager, cfg.AdminEmail)
	contentService := content.NewService(st, cacheManager.Snapshots, cfg.AdminEmail)

	templates, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS: templates,
		Flash:       sessionManager,
		IsDev:       cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	var sender mail.Sender
	if cfg.MailEnabled() {
		sender = mail.NewResendSender(cfg.ResendAPIKey, cfg.MailFrom)
		slog.Info("contact notifications enabled", "provider", "resend", "to", cfg.ContactTo())
	} else {
		sender = mail.NewLogSender()
		slog.Info("contact notifications are logged only; set INSTITUTE_RESEND_API_KEY to deliver them")
	}

	jobs := scheduler.New(slog.Default())
	if err := jobs.Register(scheduler.PruneEventsJob(st, cfg.EventRetentionDays, slog.Default())); err != nil {
		return fmt.Errorf("registering job: %w", err)
	}
	if err := jobs.Register(scheduler.RefreshSnapshotsJob(cacheManager)); err != nil {
		return fmt.Errorf("registering job: %w", err)
	}
	jobs.Start()
	defer jobs.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}

	router := handler.NewRouter(handler.App{
		Renderer:        renderer,
		Content:         contentService,
		Gate:            gate,
		Sessions:        sessionManager,
		Cache:           cacheManager,
		Jobs:            jobs,
		Events:          st,
		DB:              db,
		Notifier:        mail.NewNotifier(sender, cfg.ContactTo()),
		Images:          imaging.NewProcessor(cfg.MaxUploadBytes()),
		LoginProtection: loginProtection,
		Static:          static,
		Version:         info,
		AdminEmail:      cfg.AdminEmail,
		SiteURL:         cfg.SiteURL,
		CSRFKey:         []byte(cfg.SessionSecret),
		IsDev:           cfg.IsDevelopment(),
		MaxUpload:       cfg.MaxUploadBytes(),
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // gallery uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
