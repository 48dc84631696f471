// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/olegiv/institute-go/internal/auth"
)

// maxLockout caps the doubling lockout.
const maxLockout = 24 * time.Hour

// LoginProtection throttles sign-in attempts per client IP and locks an
// email out after repeated failures. The site has a single admin account,
// so a lockout effectively freezes admin sign-in; the IP limiter keeps one
// client from triggering it cheaply.
type LoginProtection struct {
	ipLimiters *limiterCache[string]
	cfg        LoginProtectionConfig
	now        func() time.Time

	mu       sync.Mutex
	accounts map[string]*lockout

	done     chan struct{}
	stopOnce sync.Once
}

// lockout is the failure history of one normalized email.
type lockout struct {
	failures    int
	windowStart time.Time
	until       time.Time
	strikes     int
}

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	IPRateLimit       float64       // requests per second per IP
	IPBurst           int
	MaxFailedAttempts int           // failures inside AttemptWindow that trigger a lockout
	LockoutDuration   time.Duration // first lockout; doubles per strike up to 24h
	AttemptWindow     time.Duration
}

// DefaultLoginProtectionConfig returns the production settings.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// withDefaults fills zero fields from DefaultLoginProtectionConfig.
func (c LoginProtectionConfig) withDefaults() LoginProtectionConfig {
	d := DefaultLoginProtectionConfig()
	if c.IPRateLimit <= 0 {
		c.IPRateLimit = d.IPRateLimit
	}
	if c.IPBurst <= 0 {
		c.IPBurst = d.IPBurst
	}
	if c.MaxFailedAttempts <= 0 {
		c.MaxFailedAttempts = d.MaxFailedAttempts
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = d.LockoutDuration
	}
	if c.AttemptWindow <= 0 {
		c.AttemptWindow = d.AttemptWindow
	}
	return c
}

// NewLoginProtection creates a LoginProtection and starts its cleanup loop.
// Call Stop to end the loop.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	cfg = cfg.withDefaults()
	lp := &LoginProtection{
		ipLimiters: newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		cfg:        cfg,
		now:        time.Now,
		accounts:   make(map[string]*lockout),
		done:       make(chan struct{}),
	}

	go lp.cleanupLoop(10 * time.Minute)

	return lp
}

// Stop ends the background cleanup goroutine. It is safe to call twice.
func (lp *LoginProtection) Stop() {
	lp.stopOnce.Do(func() { close(lp.done) })
}

// CheckIPRateLimit reports whether a sign-in attempt from ip may proceed.
func (lp *LoginProtection) CheckIPRateLimit(ip string) bool {
	return lp.ipLimiters.get(ip).Allow()
}

// IsAccountLocked reports whether email is locked and for how much longer.
func (lp *LoginProtection) IsAccountLocked(email string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	acct, ok := lp.accounts[auth.NormalizeEmail(email)]
	if !ok {
		return false, 0
	}
	if left := acct.until.Sub(lp.now()); left > 0 {
		return true, left
	}
	return false, 0
}

// RecordFailedAttempt counts a failed sign-in. When the failure count
// reaches the limit inside the window the email is locked and the lockout
// length is returned.
func (lp *LoginProtection) RecordFailedAttempt(email string) (bool, time.Duration) {
	email = auth.NormalizeEmail(email)
	now := lp.now()

	lp.mu.Lock()
	defer lp.mu.Unlock()

	acct, ok := lp.accounts[email]
	if !ok {
		acct = &lockout{}
		lp.accounts[email] = acct
	}
	if acct.failures == 0 || now.Sub(acct.windowStart) > lp.cfg.AttemptWindow {
		acct.failures = 0
		acct.windowStart = now
	}
	acct.failures++

	if acct.failures < lp.cfg.MaxFailedAttempts {
		slog.Debug("failed login counted", "email", email, "failures", acct.failures)
		return false, 0
	}

	d := lp.lockoutFor(acct.strikes)
	acct.until = now.Add(d)
	acct.strikes++
	acct.failures = 0

	slog.Warn("account locked due to failed attempts",
		"category", "auth", "email", email, "strikes", acct.strikes, "duration", d)
	return true, d
}

// lockoutFor returns the lockout length after the given number of earlier
// lockouts.
func (lp *LoginProtection) lockoutFor(strikes int) time.Duration {
	d := lp.cfg.LockoutDuration
	for i := 0; i < strikes && d < maxLockout; i++ {
		d *= 2
	}
	return min(d, maxLockout)
}

// RecordSuccessfulLogin forgets the failure history of email.
func (lp *LoginProtection) RecordSuccessfulLogin(email string) {
	lp.mu.Lock()
	delete(lp.accounts, auth.NormalizeEmail(email))
	lp.mu.Unlock()
}

// GetRemainingAttempts returns how many failures email may still make
// before it is locked.
func (lp *LoginProtection) GetRemainingAttempts(email string) int {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	acct, ok := lp.accounts[auth.NormalizeEmail(email)]
	if !ok || lp.now().Sub(acct.windowStart) > lp.cfg.AttemptWindow {
		return lp.cfg.MaxFailedAttempts
	}
	return max(lp.cfg.MaxFailedAttempts-acct.failures, 0)
}

func (lp *LoginProtection) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lp.prune()
		case <-lp.done:
			return
		}
	}
}

// prune drops expired lockouts and stale failure windows.
func (lp *LoginProtection) prune() {
	if lp.ipLimiters.clearIfExceeds(10000) {
		slog.Info("cleared IP rate limiters due to size")
	}

	now := lp.now()
	lp.mu.Lock()
	for email, acct := range lp.accounts {
		if now.After(acct.until) && now.Sub(acct.windowStart) > lp.cfg.AttemptWindow {
			delete(lp.accounts, email)
		}
	}
	lp.mu.Unlock()
}

// Middleware rate limits POSTs per client IP. Apply it to the login route.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := GetClientIP(r)
			if !lp.CheckIPRateLimit(ip) {
				slog.Warn("login rate limit exceeded", "category", "auth", "ip", ip)
				http.Error(w, "Too many login attempts. Please wait and try again.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
