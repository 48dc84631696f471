// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/institute-go/internal/model"
)

// CreateUserParams holds the values for a new user.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UpdateUserPasswordParams holds the values for a password change.
type UpdateUserPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           int64
}

// UpdateUserLastLoginParams holds the values for a last-login update.
type UpdateUserLastLoginParams struct {
	LastLoginAt sql.NullTime
	ID          int64
}

const selectUser = `SELECT id, email, password_hash, name, created_at, updated_at, last_login_at FROM users`

// GetUserByEmail returns the user with the given (already normalized) email.
// Returns sql.ErrNoRows when absent, like the rest of the user queries.
func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, selectUser+` WHERE email = ?`, email))
}

// GetUserByID returns the user with the given ID.
func (s *SQLStore) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return scanUser(s.db.QueryRowContext(ctx, selectUser+` WHERE id = ?`, id))
}

// CreateUser inserts a user and returns it with its assigned ID.
func (s *SQLStore) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		arg.Email, arg.PasswordHash, arg.Name, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.User{}, fmt.Errorf("inserting user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, fmt.Errorf("reading user id: %w", err)
	}
	return model.User{
		ID:           id,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		Name:         arg.Name,
		CreatedAt:    arg.CreatedAt,
		UpdatedAt:    arg.UpdatedAt,
	}, nil
}

// UpdateUserPassword replaces a user's password hash.
func (s *SQLStore) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateUserLastLogin records the time of a successful sign-in.
func (s *SQLStore) UpdateUserLastLogin(ctx context.Context, arg UpdateUserLastLoginParams) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, arg.LastLoginAt, arg.ID)
	return err
}

// SetUserPassword stores a new password hash for user id.
func (s *SQLStore) SetUserPassword(ctx context.Context, id int64, passwordHash string, at time.Time) error {
	return s.UpdateUserPassword(ctx, UpdateUserPasswordParams{PasswordHash: passwordHash, UpdatedAt: at, ID: id})
}

// TouchUserLogin stamps the last sign-in time for user id.
func (s *SQLStore) TouchUserLogin(ctx context.Context, id int64, at time.Time) error {
	return s.UpdateUserLastLogin(ctx, UpdateUserLastLoginParams{LastLoginAt: sql.NullTime{Time: at, Valid: true}, ID: id})
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt, &u.UpdatedAt, &u.LastLoginAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, sql.ErrNoRows
		}
		return model.User{}, fmt.Errorf("scanning user: %w", err)
	}
	return u, nil
}
