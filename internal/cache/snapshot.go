// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/institute-go/internal/metrics"
	"github.com/olegiv/institute-go/internal/model"
)

// Source is the authoritative store behind the snapshot cache.
type Source interface {
	List(ctx context.Context, coll model.CollectionID) ([]model.ContentItem, error)
	Put(ctx context.Context, coll model.CollectionID, key string, fields model.Fields) (model.ContentItem, error)
}

// Seed is a default document written to an empty collection.
type Seed struct {
	Key    string
	Fields model.Fields
}

// SnapshotCache holds one ordered snapshot per collection.
type SnapshotCache struct {
	snapshots *TypedCache[model.Snapshot]
	source    Source

	mu    sync.Mutex
	locks map[model.CollectionID]*sync.Mutex
}

// NewSnapshotCache creates a snapshot cache over backend and source.
func NewSnapshotCache(backend Cacher, source Source, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		snapshots: NewTypedCache[model.Snapshot](backend, ttl),
		source:    source,
		locks:     make(map[model.CollectionID]*sync.Mutex),
	}
}

func snapshotKey(coll model.CollectionID) string {
	return "snapshot:" + string(coll)
}

// Get returns the held snapshot of coll, fetching it from the source on a
// miss. The returned snapshot is owned by the caller.
func (c *SnapshotCache) Get(ctx context.Context, coll model.CollectionID) (model.Snapshot, error) {
	return c.GetOrSeed(ctx, coll, nil)
}

// GetOrSeed is Get, except that a collection the source reports as empty
// is first populated with defaults. An empty held snapshot counts as a miss
// when defaults are given. Seeds are written at their fixed keys, so a
// repeated seed converges on the same documents.
func (c *SnapshotCache) GetOrSeed(ctx context.Context, coll model.CollectionID, defaults []Seed) (model.Snapshot, error) {
	if snap, ok := c.held(ctx, coll, defaults); ok {
		metrics.ObserveCacheLookup(string(coll), true)
		return snap, nil
	}
	metrics.ObserveCacheLookup(string(coll), false)

	unlock := c.lock(coll)
	defer unlock()

	// Another request may have loaded it while we waited.
	if snap, ok := c.held(ctx, coll, defaults); ok {
		return snap, nil
	}

	items, err := c.source.List(ctx, coll)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", coll, err)
	}
	snap := model.Snapshot(items)

	if len(snap) == 0 && len(defaults) > 0 {
		if snap, err = c.seed(ctx, coll, defaults); err != nil {
			return nil, err
		}
	}

	c.put(ctx, coll, snap)
	return snap.Clone(), nil
}

func (c *SnapshotCache) held(ctx context.Context, coll model.CollectionID, defaults []Seed) (model.Snapshot, bool) {
	snap, ok := c.snapshots.Get(ctx, snapshotKey(coll))
	if !ok || (len(snap) == 0 && len(defaults) > 0) {
		return nil, false
	}
	return snap, true
}

// Peek returns the held snapshot without touching the source.
func (c *SnapshotCache) Peek(ctx context.Context, coll model.CollectionID) (model.Snapshot, bool) {
	return c.snapshots.Get(ctx, snapshotKey(coll))
}

// Invalidate drops the held snapshot; the next Get refetches.
func (c *SnapshotCache) Invalidate(ctx context.Context, coll model.CollectionID) error {
	metrics.ObserveCacheInvalidation(string(coll))
	if err := c.snapshots.Delete(ctx, snapshotKey(coll)); err != nil {
		return fmt.Errorf("invalidating %s: %w", coll, err)
	}
	return nil
}

// Replace overwrites the held snapshot.
func (c *SnapshotCache) Replace(ctx context.Context, coll model.CollectionID, snap model.Snapshot) error {
	unlock := c.lock(coll)
	defer unlock()
	return c.snapshots.Set(ctx, snapshotKey(coll), snap)
}

// Refresh reloads coll from the source and replaces the held snapshot.
func (c *SnapshotCache) Refresh(ctx context.Context, coll model.CollectionID) error {
	unlock := c.lock(coll)
	defer unlock()

	items, err := c.source.List(ctx, coll)
	if err != nil {
		return fmt.Errorf("refreshing %s: %w", coll, err)
	}
	c.put(ctx, coll, items)
	return nil
}

// ApplyUpsert writes a server-confirmed item into the held snapshot.
// Nothing is cached when no snapshot is held.
func (c *SnapshotCache) ApplyUpsert(ctx context.Context, coll model.CollectionID, item model.ContentItem) {
	c.apply(ctx, coll, func(s model.Snapshot) model.Snapshot { return s.Upsert(item) })
}

// ApplyRemove removes key from the held snapshot.
func (c *SnapshotCache) ApplyRemove(ctx context.Context, coll model.CollectionID, key string) {
	c.apply(ctx, coll, func(s model.Snapshot) model.Snapshot {
		if s.Index(key) < 0 {
			return s
		}
		return s.Remove(key)
	})
}

func (c *SnapshotCache) apply(ctx context.Context, coll model.CollectionID, fn func(model.Snapshot) model.Snapshot) {
	unlock := c.lock(coll)
	defer unlock()

	snap, ok := c.snapshots.Get(ctx, snapshotKey(coll))
	if !ok {
		return
	}

	if err := c.snapshots.Set(ctx, snapshotKey(coll), fn(snap)); err != nil {
		slog.Warn("snapshot update failed, invalidating", "collection", coll, "error", err)
		_ = c.Invalidate(ctx, coll)
	}
}

func (c *SnapshotCache) seed(ctx context.Context, coll model.CollectionID, defaults []Seed) (model.Snapshot, error) {
	snap := make(model.Snapshot, 0, len(defaults))
	for _, d := range defaults {
		item, err := c.source.Put(ctx, coll, d.Key, d.Fields)
		if err != nil {
			return nil, fmt.Errorf("seeding %s: %w", coll, err)
		}
		snap = append(snap, item)
	}
	slog.Info("seeded empty collection", "collection", coll, "count", len(snap))
	return snap, nil
}

func (c *SnapshotCache) put(ctx context.Context, coll model.CollectionID, snap model.Snapshot) {
	if err := c.snapshots.Set(ctx, snapshotKey(coll), snap); err != nil {
		slog.Warn("failed to cache snapshot", "collection", coll, "error", err)
	}
}

// lock serializes loads and updates of one collection.
func (c *SnapshotCache) lock(coll model.CollectionID) func() {
	c.mu.Lock()
	l, ok := c.locks[coll]
	if !ok {
		l = &sync.Mutex{}
		c.locks[coll] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}
