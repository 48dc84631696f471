// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/institute-go/internal/auth"
)

// DefaultAdminName is the display name of the bootstrapped admin account.
const DefaultAdminName = "Administrator"

// SeedAdmin creates the account for the configured admin email when it
// does not exist yet. An empty password skips seeding: the account must
// then be created out of band.
func SeedAdmin(ctx context.Context, s *SQLStore, adminEmail, password string) error {
	email := auth.NormalizeEmail(adminEmail)
	if email == "" {
		return errors.New("admin email is empty")
	}

	_, err := s.GetUserByEmail(ctx, email)
	if err == nil {
		slog.Info("admin user already exists, skipping seed", "email", email)
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("checking for admin user: %w", err)
	}

	if password == "" {
		slog.Warn("admin user missing and no bootstrap password configured", "email", email)
		return nil
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := s.CreateUser(ctx, CreateUserParams{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         DefaultAdminName,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	return nil
}

var _ auth.UserStore = (*SQLStore)(nil)
