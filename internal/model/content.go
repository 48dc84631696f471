// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the content documents, identities and events
// shared by the store, cache, façade and presentation layers.
package model

import (
	"maps"
	"time"
)

// CollectionID names a collection in the document store.
type CollectionID string

// Collections known to the site.
const (
	CollectionCourses     CollectionID = "courses"
	CollectionGallery     CollectionID = "gallery"
	CollectionSiteContent CollectionID = "siteContent"
	CollectionFeedback    CollectionID = "feedback"
)

// Collections lists every collection in display order.
var Collections = []CollectionID{
	CollectionCourses,
	CollectionGallery,
	CollectionSiteContent,
	CollectionFeedback,
}

// Valid reports whether c is a known collection.
func (c CollectionID) Valid() bool {
	for _, known := range Collections {
		if c == known {
			return true
		}
	}
	return false
}

func (c CollectionID) String() string {
	return string(c)
}

// Fixed keys of the siteContent collection.
const (
	SiteKeyAbout   = "about"
	SiteKeyContact = "contact"
	SiteKeyUpdates = "updates"
)

// SiteKeys lists the only keys accepted in the siteContent collection.
var SiteKeys = []string{SiteKeyAbout, SiteKeyContact, SiteKeyUpdates}

// IsSiteKey reports whether key is one of the fixed siteContent keys.
func IsSiteKey(key string) bool {
	for _, k := range SiteKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Fields is the flat attribute map of a document.
type Fields map[string]string

// Get returns the value of a field or an empty string.
func (f Fields) Get(name string) string {
	if f == nil {
		return ""
	}
	return f[name]
}

// Clone returns a copy of f that does not share storage.
func (f Fields) Clone() Fields {
	if f == nil {
		return Fields{}
	}
	return maps.Clone(f)
}

// Equal reports whether f and other hold the same attributes.
func (f Fields) Equal(other Fields) bool {
	return maps.Equal(f, other)
}

// ContentItem is one document of a collection, identified by an opaque key.
type ContentItem struct {
	Key        string       `json:"key"`
	Collection CollectionID `json:"collection"`
	Fields     Fields       `json:"fields"`
	Position   int          `json:"position"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// Snapshot is an ordered copy of a collection held by the cache.
// It is advisory and can always be discarded and refetched.
type Snapshot []ContentItem

// Index returns the position of key in the snapshot or -1.
func (s Snapshot) Index(key string) int {
	for i := range s {
		if s[i].Key == key {
			return i
		}
	}
	return -1
}

// Find returns the item with the given key.
func (s Snapshot) Find(key string) (ContentItem, bool) {
	if i := s.Index(key); i >= 0 {
		return s[i], true
	}
	return ContentItem{}, false
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	for i, item := range s {
		item.Fields = item.Fields.Clone()
		out[i] = item
	}
	return out
}

// Upsert returns a copy of the snapshot with item replaced in place,
// or appended when its key is not present.
func (s Snapshot) Upsert(item ContentItem) Snapshot {
	out := s.Clone()
	if i := out.Index(item.Key); i >= 0 {
		out[i] = item
		return out
	}
	return append(out, item)
}

// Remove returns a copy of the snapshot without key.
func (s Snapshot) Remove(key string) Snapshot {
	out := make(Snapshot, 0, len(s))
	for _, item := range s.Clone() {
		if item.Key != key {
			out = append(out, item)
		}
	}
	return out
}
