// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth implements admin authentication: argon2id password hashing,
// the local identity provider and the gate that admits exactly one
// configured admin account into a session.
package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/olegiv/institute-go/internal/metrics"
	"github.com/olegiv/institute-go/internal/model"
)

// SessionKeyEmail is the session key holding the signed-in admin email.
const SessionKeyEmail = "admin_email"

// SessionStore is the subset of the session manager the gate writes to.
// *scs.SessionManager satisfies it.
type SessionStore interface {
	RenewToken(ctx context.Context) error
	Put(ctx context.Context, key string, val interface{})
	Remove(ctx context.Context, key string)
	GetString(ctx context.Context, key string) string
}

// Gate admits the single admin account into a session.
type Gate struct {
	provider   IdentityProvider
	sessions   SessionStore
	adminEmail string
}

// NewGate creates a gate for the given admin email.
func NewGate(provider IdentityProvider, sessions SessionStore, adminEmail string) *Gate {
	return &Gate{
		provider:   provider,
		sessions:   sessions,
		adminEmail: NormalizeEmail(adminEmail),
	}
}

// AdminEmail returns the normalized admin email.
func (g *Gate) AdminEmail() string {
	return g.adminEmail
}

// IsAdmin reports whether identity is the configured admin.
func (g *Gate) IsAdmin(identity Identity) bool {
	return SameEmail(identity.Email, g.adminEmail)
}

// Login signs in through the provider and writes the session only when
// the resulting identity is the admin. Every failure collapses to false.
func (g *Gate) Login(ctx context.Context, email, password string) bool {
	identity, err := g.provider.SignIn(ctx, email, password)
	if err != nil {
		if !errors.Is(err, model.ErrAuthFailure) {
			slog.Error("sign-in failed", "email", email, "error", err)
		}
		metrics.ObserveLogin(false)
		return false
	}

	if !g.IsAdmin(identity) {
		// A valid non-admin account never reaches a signed-in state.
		slog.Warn("rejected sign-in for non-admin account", "email", identity.Email)
		g.clear(ctx)
		metrics.ObserveLogin(false)
		return false
	}

	if err := g.sessions.RenewToken(ctx); err != nil {
		slog.Error("failed to renew session token", "error", err)
		metrics.ObserveLogin(false)
		return false
	}
	g.sessions.Put(ctx, SessionKeyEmail, NormalizeEmail(identity.Email))

	slog.Info("admin logged in", "email", identity.Email)
	metrics.ObserveLogin(true)
	return true
}

// Logout clears the admin from the session.
func (g *Gate) Logout(ctx context.Context) {
	email := g.sessions.GetString(ctx, SessionKeyEmail)
	g.clear(ctx)
	if email != "" {
		slog.Info("admin logged out", "email", email)
	}
}

// Resolve builds the Session for the current request from the session
// store. A stored email that is no longer the admin resolves anonymous.
func (g *Gate) Resolve(ctx context.Context) Session {
	email := g.sessions.GetString(ctx, SessionKeyEmail)
	if email == "" {
		return AnonymousSession()
	}
	if !SameEmail(email, g.adminEmail) {
		g.clear(ctx)
		return AnonymousSession()
	}
	return SignedIn(Identity{Email: email})
}

// ChangePassword changes the admin password. The session in ctx must be
// privileged.
func (g *Gate) ChangePassword(ctx context.Context, current, next string) error {
	if err := RequireAdmin(ctx, g.adminEmail); err != nil {
		return err
	}
	return g.provider.ChangePassword(ctx, g.adminEmail, current, next)
}

func (g *Gate) clear(ctx context.Context) {
	g.sessions.Remove(ctx, SessionKeyEmail)
	if err := g.sessions.RenewToken(ctx); err != nil {
		slog.Warn("failed to renew session token", "error", err)
	}
}
