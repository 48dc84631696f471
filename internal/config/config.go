// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBDriver      string `env:"INSTITUTE_DB_DRIVER" envDefault:"sqlite"`
	DBPath        string `env:"INSTITUTE_DB_PATH" envDefault:"./data/institute.db"`
	DBDSN         string `env:"INSTITUTE_DB_DSN"` // MySQL DSN, required when DBDriver is mysql
	SessionSecret string `env:"INSTITUTE_SESSION_SECRET,required"`
	ServerHost    string `env:"INSTITUTE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"INSTITUTE_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"INSTITUTE_ENV" envDefault:"development"`
	LogLevel      string `env:"INSTITUTE_LOG_LEVEL" envDefault:"info"`
	SiteURL       string `env:"INSTITUTE_SITE_URL"` // public base URL for sitemap.xml; derived from the request when empty

	// The single account allowed to edit content.
	AdminEmail    string `env:"INSTITUTE_ADMIN_EMAIL,required"`
	AdminPassword string `env:"INSTITUTE_ADMIN_PASSWORD"` // bootstrap only

	// Cache configuration
	RedisURL     string `env:"INSTITUTE_REDIS_URL"`
	CachePrefix  string `env:"INSTITUTE_CACHE_PREFIX" envDefault:"institute:"`
	CacheTTL     int    `env:"INSTITUTE_CACHE_TTL" envDefault:"600"` // seconds
	CacheMaxSize int    `env:"INSTITUTE_CACHE_MAX_SIZE" envDefault:"1000"`

	// Contact form notifications
	ResendAPIKey     string `env:"INSTITUTE_RESEND_API_KEY"`
	MailFrom         string `env:"INSTITUTE_MAIL_FROM" envDefault:"Institute <noreply@example.com>"`
	ContactRecipient string `env:"INSTITUTE_CONTACT_RECIPIENT"` // defaults to AdminEmail

	EventRetentionDays int   `env:"INSTITUTE_EVENT_RETENTION_DAYS" envDefault:"30"`
	MaxUploadMB        int64 `env:"INSTITUTE_MAX_UPLOAD_MB" envDefault:"5"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns the snapshot TTL.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// MailEnabled returns true if contact notifications are delivered through Resend.
func (c Config) MailEnabled() bool {
	return c.ResendAPIKey != ""
}

// ContactTo returns the address that receives contact form messages.
func (c Config) ContactTo() string {
	if c.ContactRecipient != "" {
		return c.ContactRecipient
	}
	return c.AdminEmail
}

// MaxUploadBytes returns the gallery upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// DSN returns the data source for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == "mysql" {
		return c.DBDSN
	}
	return c.DBPath
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("INSTITUTE_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("INSTITUTE_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return errors.New("INSTITUTE_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if _, err := mail.ParseAddress(c.AdminEmail); err != nil {
		return fmt.Errorf("INSTITUTE_ADMIN_EMAIL is not a valid address: %w", err)
	}

	switch c.DBDriver {
	case "sqlite":
	case "mysql":
		if c.DBDSN == "" {
			return errors.New("INSTITUTE_DB_DSN is required when INSTITUTE_DB_DRIVER is mysql")
		}
	default:
		return fmt.Errorf("INSTITUTE_DB_DRIVER must be sqlite or mysql, got %q", c.DBDriver)
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("INSTITUTE_CACHE_TTL must be positive, got %d", c.CacheTTL)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("INSTITUTE_MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
