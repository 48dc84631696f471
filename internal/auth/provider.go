// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/olegiv/institute-go/internal/model"
)

// Identity is the signed-in principal reported by an IdentityProvider.
type Identity struct {
	Email string
	Name  string
}

// IdentityProvider verifies credentials. Implementations return
// model.ErrAuthFailure for rejected credentials and a wrapped error for
// infrastructure failures.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (Identity, error)
	ChangePassword(ctx context.Context, email, current, next string) error
}

// UserStore is the persistence LocalProvider needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	SetUserPassword(ctx context.Context, id int64, passwordHash string, at time.Time) error
	TouchUserLogin(ctx context.Context, id int64, at time.Time) error
}

// LocalProvider signs users in against the users table.
type LocalProvider struct {
	users UserStore
	now   func() time.Time
}

// NewLocalProvider creates a provider over the given user store.
func NewLocalProvider(users UserStore) *LocalProvider {
	return &LocalProvider{
		users: users,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SignIn checks the password for email. Legacy hashes are upgraded to the
// current argon2 parameters on a successful sign-in.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (Identity, error) {
	user, err := p.authenticate(ctx, email, password)
	if err != nil {
		return Identity{}, err
	}

	now := p.now()
	if NeedsRehash(user.PasswordHash) {
		if hash, err := HashPassword(password); err != nil {
			slog.Warn("failed to rehash password", "user_id", user.ID, "error", err)
		} else if err := p.users.SetUserPassword(ctx, user.ID, hash, now); err != nil {
			slog.Warn("failed to store rehashed password", "user_id", user.ID, "error", err)
		}
	}

	if err := p.users.TouchUserLogin(ctx, user.ID, now); err != nil {
		slog.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	return Identity{Email: user.Email, Name: user.Name}, nil
}

// ChangePassword replaces the password for email after verifying current.
func (p *LocalProvider) ChangePassword(ctx context.Context, email, current, next string) error {
	user, err := p.authenticate(ctx, email, current)
	if err != nil {
		return err
	}

	if err := ValidatePassword(next); err != nil {
		return err
	}

	hash, err := HashPassword(next)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := p.users.SetUserPassword(ctx, user.ID, hash, p.now()); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	slog.Info("password changed", "user_id", user.ID, "email", user.Email)
	return nil
}

func (p *LocalProvider) authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return model.User{}, model.ErrAuthFailure
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, model.ErrAuthFailure
	}

	user, err := p.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn a hash so unknown emails cost the same as wrong passwords.
			_, _ = HashPassword(password)
			return model.User{}, model.ErrAuthFailure
		}
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := CheckPassword(password, user.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("verifying password: %w", err)
	}
	if !ok {
		return model.User{}, model.ErrAuthFailure
	}

	return user, nil
}
