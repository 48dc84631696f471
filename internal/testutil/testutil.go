// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/olegiv/institute-go/internal/auth"
	"github.com/olegiv/institute-go/internal/cache"
	"github.com/olegiv/institute-go/internal/store"
)

// AdminEmail is the admin account used across tests.
const AdminEmail = "admin@example.com"

// TestLogger creates a test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a temporary migrated SQLite database.
// Returns the database and a cleanup function that should be deferred.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "institute-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	_ = f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		_ = os.Remove(dbPath)
		t.Fatalf("NewDB: %v", err)
	}

	if err := store.Migrate(db, store.DriverSQLite); err != nil {
		_ = db.Close()
		_ = os.Remove(dbPath)
		t.Fatalf("Migrate: %v", err)
	}

	return db, func() {
		_ = db.Close()
		_ = os.Remove(dbPath)
	}
}

// TestStore returns a document store over a temporary database that is
// closed when the test ends.
func TestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	db, cleanup := TestDB(t)
	t.Cleanup(cleanup)
	return store.New(db)
}

// TestSnapshots returns a memory-backed snapshot cache over s.
func TestSnapshots(t *testing.T, s cache.Source) *cache.SnapshotCache {
	t.Helper()
	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = backend.Close() })
	return cache.NewSnapshotCache(backend, s, time.Hour)
}

// AdminContext returns a context carrying a signed-in admin session.
func AdminContext() context.Context {
	return auth.WithSession(context.Background(), auth.SignedIn(auth.Identity{Email: AdminEmail}))
}

// VisitorContext returns a context carrying an anonymous session.
func VisitorContext() context.Context {
	return auth.WithSession(context.Background(), auth.AnonymousSession())
}
