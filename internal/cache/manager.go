// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/olegiv/institute-go/internal/model"
)

// Manager owns the cache backend and the snapshot cache built on it.
type Manager struct {
	Snapshots *SnapshotCache

	backend Cacher
	info    Info
}

// NewManager creates the backend described by cfg and a snapshot cache
// reading from source.
func NewManager(cfg Config, source Source) *Manager {
	backend, info := NewCache(cfg)
	return NewManagerWithBackend(backend, info, source, cfg.DefaultTTL)
}

// NewManagerWithBackend wraps an existing backend.
func NewManagerWithBackend(backend Cacher, info Info, source Source, ttl time.Duration) *Manager {
	return &Manager{
		Snapshots: NewSnapshotCache(backend, source, ttl),
		backend:   backend,
		info:      info,
	}
}

// Info describes the active backend.
func (m *Manager) Info() Info {
	return m.info
}

// Stats returns backend counters, or zero stats for backends that do
// not count.
func (m *Manager) Stats() Stats {
	if sp, ok := m.backend.(StatsProvider); ok {
		return sp.Stats()
	}
	return Stats{}
}

// ClearAll drops every snapshot and resets the counters.
func (m *Manager) ClearAll(ctx context.Context) error {
	if err := m.backend.Clear(ctx); err != nil {
		return err
	}
	if sp, ok := m.backend.(StatsProvider); ok {
		sp.ResetStats()
	}
	slog.Info("cache cleared", "backend", m.info.Backend)
	return nil
}

// RefreshAll reloads every collection from the store.
func (m *Manager) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, coll := range model.Collections {
		if err := m.Snapshots.Refresh(ctx, coll); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close releases the backend.
func (m *Manager) Close() error {
	return m.backend.Close()
}
