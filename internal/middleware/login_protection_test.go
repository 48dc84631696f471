// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const adminEmail = "admin@example.com"

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestProtection returns a LoginProtection driven by a fake clock.
func newTestProtection(t *testing.T, maxAttempts int, lockout, window time.Duration) (*LoginProtection, *fakeClock) {
	t.Helper()
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       100,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	t.Cleanup(lp.Stop)

	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	lp.now = clock.now
	return lp, clock
}

func TestLoginProtectionConfigDefaults(t *testing.T) {
	got := LoginProtectionConfig{MaxFailedAttempts: 3}.withDefaults()

	if got.MaxFailedAttempts != 3 {
		t.Errorf("MaxFailedAttempts = %d, want 3", got.MaxFailedAttempts)
	}
	if got.LockoutDuration != 15*time.Minute || got.AttemptWindow != 15*time.Minute {
		t.Errorf("durations = %v/%v, want 15m/15m", got.LockoutDuration, got.AttemptWindow)
	}
	if got.IPRateLimit != 0.5 || got.IPBurst != 5 {
		t.Errorf("ip limit = %v/%d, want 0.5/5", got.IPRateLimit, got.IPBurst)
	}
}

func TestAdminLockedAfterRepeatedFailures(t *testing.T) {
	lp, clock := newTestProtection(t, 3, 10*time.Minute, time.Hour)

	for i := 1; i < 3; i++ {
		if locked, _ := lp.RecordFailedAttempt(adminEmail); locked {
			t.Fatalf("locked after %d failures, want 3", i)
		}
	}
	if got := lp.GetRemainingAttempts(adminEmail); got != 1 {
		t.Errorf("GetRemainingAttempts() = %d, want 1", got)
	}

	locked, d := lp.RecordFailedAttempt(adminEmail)
	if !locked || d != 10*time.Minute {
		t.Fatalf("RecordFailedAttempt() = %v, %v; want true, 10m", locked, d)
	}

	clock.advance(4 * time.Minute)
	locked, left := lp.IsAccountLocked(adminEmail)
	if !locked || left != 6*time.Minute {
		t.Errorf("IsAccountLocked() = %v, %v; want true, 6m", locked, left)
	}

	clock.advance(6 * time.Minute)
	if locked, _ := lp.IsAccountLocked(adminEmail); locked {
		t.Error("lockout should expire")
	}
}

func TestLockoutIgnoresEmailCase(t *testing.T) {
	lp, _ := newTestProtection(t, 2, time.Minute, time.Hour)

	lp.RecordFailedAttempt("Admin@Example.com")
	if locked, _ := lp.RecordFailedAttempt("  admin@example.com "); !locked {
		t.Fatal("differently cased emails should share one counter")
	}
	if locked, _ := lp.IsAccountLocked("ADMIN@EXAMPLE.COM"); !locked {
		t.Error("lockout should apply regardless of case")
	}
}

func TestLockoutDoesNotSpreadToOtherEmails(t *testing.T) {
	lp, _ := newTestProtection(t, 2, time.Minute, time.Hour)

	lp.RecordFailedAttempt("intruder@example.com")
	lp.RecordFailedAttempt("intruder@example.com")

	if locked, _ := lp.IsAccountLocked(adminEmail); locked {
		t.Error("admin locked by failures against another email")
	}
	if got := lp.GetRemainingAttempts(adminEmail); got != 2 {
		t.Errorf("GetRemainingAttempts(admin) = %d, want 2", got)
	}
}

func TestLockoutDoublesPerStrike(t *testing.T) {
	lp, clock := newTestProtection(t, 1, 8*time.Hour, time.Hour)

	want := []time.Duration{8 * time.Hour, 16 * time.Hour, 24 * time.Hour, 24 * time.Hour}
	for i, w := range want {
		locked, d := lp.RecordFailedAttempt(adminEmail)
		if !locked || d != w {
			t.Errorf("strike %d: got %v, %v; want true, %v", i+1, locked, d, w)
		}
		clock.advance(d)
	}
}

func TestFailureWindowResets(t *testing.T) {
	lp, clock := newTestProtection(t, 3, time.Minute, 5*time.Minute)

	lp.RecordFailedAttempt(adminEmail)
	lp.RecordFailedAttempt(adminEmail)
	clock.advance(6 * time.Minute)

	if got := lp.GetRemainingAttempts(adminEmail); got != 3 {
		t.Errorf("GetRemainingAttempts() after window = %d, want 3", got)
	}
	if locked, _ := lp.RecordFailedAttempt(adminEmail); locked {
		t.Error("stale failures should not count toward a lockout")
	}
}

func TestSuccessfulLoginClearsFailures(t *testing.T) {
	lp, _ := newTestProtection(t, 3, time.Minute, time.Hour)

	lp.RecordFailedAttempt(adminEmail)
	lp.RecordFailedAttempt(adminEmail)
	lp.RecordSuccessfulLogin("ADMIN@example.com")

	if got := lp.GetRemainingAttempts(adminEmail); got != 3 {
		t.Errorf("GetRemainingAttempts() = %d, want 3", got)
	}
}

func TestPruneDropsExpiredEntries(t *testing.T) {
	lp, clock := newTestProtection(t, 1, time.Minute, 5*time.Minute)

	lp.RecordFailedAttempt(adminEmail)
	lp.prune()
	if _, ok := lp.accounts[adminEmail]; !ok {
		t.Fatal("active lockout pruned")
	}

	clock.advance(10 * time.Minute)
	lp.prune()
	if _, ok := lp.accounts[adminEmail]; ok {
		t.Error("expired lockout kept")
	}
}

func TestLoginProtectionStopIsIdempotent(t *testing.T) {
	lp := NewLoginProtection(DefaultLoginProtectionConfig())
	lp.Stop()
	lp.Stop()
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 1})
	defer lp.Stop()

	wrapped := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method, addr string) int {
		req := httptest.NewRequest(method, "/admin/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		return rr.Code
	}

	if got := send(http.MethodPost, "203.0.113.7:4000"); got != http.StatusOK {
		t.Errorf("first POST = %d, want 200", got)
	}
	if got := send(http.MethodPost, "203.0.113.7:4001"); got != http.StatusTooManyRequests {
		t.Errorf("second POST = %d, want 429", got)
	}
	if got := send(http.MethodGet, "203.0.113.7:4002"); got != http.StatusOK {
		t.Errorf("GET = %d, want 200", got)
	}
	if got := send(http.MethodPost, "198.51.100.2:4000"); got != http.StatusOK {
		t.Errorf("POST from another IP = %d, want 200", got)
	}
}
