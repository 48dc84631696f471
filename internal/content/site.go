// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"log/slog"

	"github.com/olegiv/institute-go/internal/auth"
	"github.com/olegiv/institute-go/internal/cache"
	"github.com/olegiv/institute-go/internal/model"
)

// SiteText manages the fixed-key siteContent documents. Reads never fail:
// an absent or unreadable document yields its fallback.
type SiteText struct {
	store      Store
	snapshots  *cache.SnapshotCache
	adminEmail string
}

// About returns the about block.
func (s *SiteText) About(ctx context.Context) model.AboutDoc {
	if item, ok := s.item(ctx, model.SiteKeyAbout); ok {
		if doc := model.AboutFromItem(item); doc.Text != "" {
			return doc
		}
	}
	return FallbackAbout
}

// Contact returns the contact details.
func (s *SiteText) Contact(ctx context.Context) model.ContactDoc {
	if item, ok := s.item(ctx, model.SiteKeyContact); ok {
		return model.ContactFromItem(item)
	}
	return FallbackContact
}

// Updates returns the news lines.
func (s *SiteText) Updates(ctx context.Context) model.UpdatesDoc {
	if item, ok := s.item(ctx, model.SiteKeyUpdates); ok {
		return model.UpdatesFromItem(item)
	}
	return model.UpdatesDoc{Items: []string{}}
}

// SetAbout replaces the about block.
func (s *SiteText) SetAbout(ctx context.Context, doc model.AboutDoc) error {
	return s.put(ctx, model.SiteKeyAbout, doc)
}

// SetContact replaces the contact details.
func (s *SiteText) SetContact(ctx context.Context, doc model.ContactDoc) error {
	return s.put(ctx, model.SiteKeyContact, doc)
}

// SetUpdates replaces the news lines.
func (s *SiteText) SetUpdates(ctx context.Context, doc model.UpdatesDoc) error {
	return s.put(ctx, model.SiteKeyUpdates, doc)
}

func (s *SiteText) item(ctx context.Context, key string) (model.ContentItem, bool) {
	items, err := s.snapshots.Get(ctx, model.CollectionSiteContent)
	if err != nil {
		slog.Warn("site text unavailable, using fallback", "key", key, "error", err)
		return model.ContentItem{}, false
	}
	return items.Find(key)
}

func (s *SiteText) put(ctx context.Context, key string, doc Doc) error {
	if err := auth.RequireAdmin(ctx, s.adminEmail); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	item, err := s.store.Put(ctx, model.CollectionSiteContent, key, doc.Fields())
	if err != nil {
		slog.Error("failed to save site text", "key", key, "error", err)
		return err
	}

	s.snapshots.ApplyUpsert(ctx, model.CollectionSiteContent, item)
	slog.Info("site text saved", "key", key)
	return nil
}
