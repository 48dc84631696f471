// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"

	"github.com/olegiv/institute-go/internal/model"
)

// State is the position of a session in the Loading -> {Anonymous, Admin}
// state machine.
type State int

const (
	StateLoading State = iota
	StateAnonymous
	StateAdmin
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAdmin:
		return "admin"
	default:
		return "loading"
	}
}

// Session is the per-request view of who is signed in. The zero value is
// a session that has not been resolved yet.
type Session struct {
	Identity *Identity
	loaded   bool
}

// AnonymousSession returns a resolved session with no identity.
func AnonymousSession() Session {
	return Session{loaded: true}
}

// SignedIn returns a resolved session for identity.
func SignedIn(identity Identity) Session {
	return Session{Identity: &identity, loaded: true}
}

// Loaded reports whether the session has been resolved.
func (s Session) Loaded() bool {
	return s.loaded
}

// IsPrivileged reports whether the session belongs to adminEmail.
// It is derived on every call and never cached.
func (s Session) IsPrivileged(adminEmail string) bool {
	return s.loaded && s.Identity != nil && SameEmail(s.Identity.Email, adminEmail)
}

// State returns the session state for the given admin email.
func (s Session) State(adminEmail string) State {
	switch {
	case !s.loaded:
		return StateLoading
	case s.IsPrivileged(adminEmail):
		return StateAdmin
	default:
		return StateAnonymous
	}
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying sess.
func WithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// SessionFrom returns the session stored in ctx, or the zero (loading)
// session when there is none.
func SessionFrom(ctx context.Context) Session {
	sess, _ := ctx.Value(sessionKey{}).(Session)
	return sess
}

// RequireAdmin returns model.ErrForbidden unless the session in ctx
// belongs to adminEmail.
func RequireAdmin(ctx context.Context, adminEmail string) error {
	if !SessionFrom(ctx).IsPrivileged(adminEmail) {
		return model.ErrForbidden
	}
	return nil
}
