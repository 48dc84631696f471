// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testItem struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestTyped(t *testing.T) (*TypedCache[testItem], *MemoryCache) {
	t.Helper()
	backend := NewMemoryCache(MemoryCacheOptions{DefaultTTL: time.Hour})
	t.Cleanup(func() { _ = backend.Close() })
	return NewTypedCache[testItem](backend, time.Minute), backend
}

func TestTypedCache_SetGet(t *testing.T) {
	c, _ := newTestTyped(t)
	ctx := context.Background()

	if err := c.Set(ctx, "item", testItem{Name: "a", Count: 2}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get(ctx, "item")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.Name != "a" || got.Count != 2 {
		t.Errorf("Get() = %+v", got)
	}

	_ = c.Delete(ctx, "item")
	if _, ok := c.Get(ctx, "item"); ok {
		t.Error("expected miss after Delete")
	}
}

func TestTypedCache_CorruptEntryIsMiss(t *testing.T) {
	c, backend := newTestTyped(t)
	ctx := context.Background()

	_ = backend.Set(ctx, "item", []byte("{not json"), 0)
	if _, ok := c.Get(ctx, "item"); ok {
		t.Error("corrupt entry should be a miss")
	}
}

func TestTypedCache_GetOrSet(t *testing.T) {
	c, _ := newTestTyped(t)
	ctx := context.Background()

	calls := 0
	load := func() (testItem, error) {
		calls++
		return testItem{Name: "loaded"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.GetOrSet(ctx, "k", load)
		if err != nil {
			t.Fatalf("GetOrSet failed: %v", err)
		}
		if got.Name != "loaded" {
			t.Errorf("Name = %q, want loaded", got.Name)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}

	wantErr := errors.New("boom")
	if _, err := c.GetOrSet(ctx, "other", func() (testItem, error) { return testItem{}, wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("GetOrSet error = %v, want %v", err, wantErr)
	}
}
