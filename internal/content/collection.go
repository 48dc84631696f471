// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content is the only write path for site content. Every mutation
// is authorized against the request session, validated, written to the
// document store and then applied to the cached snapshot using the
// store-confirmed document.
package content

import (
	"context"
	"errors"
	"log/slog"

	"github.com/olegiv/institute-go/internal/auth"
	"github.com/olegiv/institute-go/internal/cache"
	"github.com/olegiv/institute-go/internal/model"
)

// Store is the document store write API used by the façade.
type Store interface {
	Create(ctx context.Context, coll model.CollectionID, fields model.Fields) (model.ContentItem, error)
	Put(ctx context.Context, coll model.CollectionID, key string, fields model.Fields) (model.ContentItem, error)
	Update(ctx context.Context, coll model.CollectionID, key string, fields model.Fields) (model.ContentItem, error)
	Delete(ctx context.Context, coll model.CollectionID, key string) error
}

// Doc is a typed document that encodes to and validates as flat fields.
type Doc interface {
	Fields() model.Fields
	Validate() error
}

// Collection is the CRUD façade over one keyed collection.
type Collection[D Doc] struct {
	id         model.CollectionID
	store      Store
	snapshots  *cache.SnapshotCache
	adminEmail string
	decode     func(model.ContentItem) D
	defaults   []cache.Seed

	// publicCreate lets anonymous visitors create documents.
	publicCreate bool
	// prepare normalizes a document before it is validated on create.
	prepare func(D) D
}

// ID returns the collection this façade manages.
func (c *Collection[D]) ID() model.CollectionID {
	return c.id
}

// Items returns the ordered raw snapshot, seeding defaults on first use.
func (c *Collection[D]) Items(ctx context.Context) (model.Snapshot, error) {
	return c.snapshots.GetOrSeed(ctx, c.id, c.defaults)
}

// List returns every document in display order.
func (c *Collection[D]) List(ctx context.Context) ([]D, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]D, 0, len(items))
	for _, item := range items {
		docs = append(docs, c.decode(item))
	}
	return docs, nil
}

// Get returns one document or model.ErrNotFound.
func (c *Collection[D]) Get(ctx context.Context, key string) (D, error) {
	var zero D
	items, err := c.Items(ctx)
	if err != nil {
		return zero, err
	}
	item, ok := items.Find(key)
	if !ok {
		return zero, model.ErrNotFound
	}
	return c.decode(item), nil
}

// Count returns the number of documents.
func (c *Collection[D]) Count(ctx context.Context) (int, error) {
	items, err := c.Items(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Create stores a new document under a store-assigned key.
func (c *Collection[D]) Create(ctx context.Context, doc D) (D, error) {
	var zero D
	if !c.publicCreate {
		if err := auth.RequireAdmin(ctx, c.adminEmail); err != nil {
			return zero, err
		}
	}
	if c.prepare != nil {
		doc = c.prepare(doc)
	}
	if err := doc.Validate(); err != nil {
		return zero, err
	}

	item, err := c.store.Create(ctx, c.id, doc.Fields())
	if err != nil {
		slog.Error("failed to create document", "collection", c.id, "error", err)
		return zero, err
	}

	c.snapshots.ApplyUpsert(ctx, c.id, item)
	slog.Info("document created", "collection", c.id, "key", item.Key)
	return c.decode(item), nil
}

// Update replaces the fields of an existing document. The key must be
// present in the current snapshot.
func (c *Collection[D]) Update(ctx context.Context, key string, doc D) (D, error) {
	var zero D
	if err := auth.RequireAdmin(ctx, c.adminEmail); err != nil {
		return zero, err
	}

	items, err := c.Items(ctx)
	if err != nil {
		return zero, err
	}
	if items.Index(key) < 0 {
		return zero, model.ErrNotFound
	}

	if err := doc.Validate(); err != nil {
		return zero, err
	}

	item, err := c.store.Update(ctx, c.id, key, doc.Fields())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// Deleted behind our back; drop the stale snapshot.
			_ = c.snapshots.Invalidate(ctx, c.id)
			return zero, err
		}
		slog.Error("failed to update document", "collection", c.id, "key", key, "error", err)
		return zero, err
	}

	c.snapshots.ApplyUpsert(ctx, c.id, item)
	slog.Info("document updated", "collection", c.id, "key", key)
	return c.decode(item), nil
}

// Delete removes a document. Deleting an absent key succeeds and leaves
// the snapshot unchanged.
func (c *Collection[D]) Delete(ctx context.Context, key string) error {
	if err := auth.RequireAdmin(ctx, c.adminEmail); err != nil {
		return err
	}

	if err := c.store.Delete(ctx, c.id, key); err != nil {
		slog.Error("failed to delete document", "collection", c.id, "key", key, "error", err)
		return err
	}

	c.snapshots.ApplyRemove(ctx, c.id, key)
	slog.Info("document deleted", "collection", c.id, "key", key)
	return nil
}
