// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "testing"

func TestCollectionIDValid(t *testing.T) {
	for _, c := range Collections {
		if !c.Valid() {
			t.Errorf("%q should be valid", c)
		}
	}
	if CollectionID("users").Valid() {
		t.Error("users should not be a content collection")
	}
}

func TestIsSiteKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{SiteKeyAbout, true},
		{SiteKeyContact, true},
		{SiteKeyUpdates, true},
		{"footer", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := IsSiteKey(tt.key); got != tt.want {
				t.Errorf("IsSiteKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestSnapshotUpsertAndRemove(t *testing.T) {
	base := Snapshot{
		{Key: "a", Fields: Fields{"title": "A"}},
		{Key: "b", Fields: Fields{"title": "B"}},
	}

	replaced := base.Upsert(ContentItem{Key: "a", Fields: Fields{"title": "A2"}})
	if replaced[0].Fields["title"] != "A2" {
		t.Errorf("upsert did not replace in place: %v", replaced)
	}
	if base[0].Fields["title"] != "A" {
		t.Error("upsert mutated the original snapshot")
	}

	appended := base.Upsert(ContentItem{Key: "c"})
	if len(appended) != 3 || appended[2].Key != "c" {
		t.Errorf("upsert did not append: %v", appended)
	}

	removed := appended.Remove("c")
	if len(removed) != 2 || removed.Index("c") != -1 {
		t.Errorf("remove failed: %v", removed)
	}

	unchanged := base.Remove("missing")
	if len(unchanged) != len(base) {
		t.Errorf("removing a missing key changed length: %d", len(unchanged))
	}
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := Snapshot{{Key: "a", Fields: Fields{"title": "A"}}}
	c := s.Clone()
	c[0].Fields["title"] = "changed"
	if s[0].Fields["title"] != "A" {
		t.Error("Clone shares field storage")
	}
	if Snapshot(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
