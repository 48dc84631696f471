// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Backend names reported by Info.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config selects and tunes the cache backend.
type Config struct {
	// RedisURL selects the Redis backend when set.
	RedisURL string

	// Prefix namespaces Redis keys.
	Prefix string

	DefaultTTL time.Duration

	// MaxSize bounds the memory backend (0 = unlimited).
	MaxSize int

	CleanupInterval time.Duration
}

// DefaultConfig returns an in-memory configuration.
func DefaultConfig() Config {
	return Config{
		Prefix:          "institute:",
		DefaultTTL:      10 * time.Minute,
		MaxSize:         1000,
		CleanupInterval: time.Minute,
	}
}

// Info describes the backend that NewCache chose.
type Info struct {
	Backend  string
	Fallback bool   // Redis was configured but unreachable
	Reason   string // why the fallback happened
}

// NewCache creates the configured backend. When Redis is configured but
// cannot be reached the memory backend is used instead.
func NewCache(cfg Config) (Cacher, Info) {
	if cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		if cfg.DefaultTTL > 0 {
			opts.DefaultTTL = cfg.DefaultTTL
		}

		rc, err := NewRedisCache(opts)
		if err == nil {
			slog.Info("using redis cache", "prefix", opts.Prefix)
			return rc, Info{Backend: BackendRedis}
		}

		slog.Warn("redis unavailable, falling back to memory cache", "error", err)
		return newMemoryFromConfig(cfg), Info{Backend: BackendMemory, Fallback: true, Reason: err.Error()}
	}

	return newMemoryFromConfig(cfg), Info{Backend: BackendMemory}
}

func newMemoryFromConfig(cfg Config) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}
