// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/olegiv/institute-go/internal/model"
)

type memUsers struct {
	users     map[string]model.User
	lookupErr error
	logins    int
}

func newMemUsers(t interface{ Fatalf(string, ...any) }, accounts map[string]string) *memUsers {
	m := &memUsers{users: make(map[string]model.User)}
	var id int64
	for email, password := range accounts {
		hash, err := HashPassword(password)
		if err != nil {
			t.Fatalf("HashPassword: %v", err)
		}
		id++
		m.users[email] = model.User{ID: id, Email: email, PasswordHash: hash, Name: "User"}
	}
	return m
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	if m.lookupErr != nil {
		return model.User{}, m.lookupErr
	}
	u, ok := m.users[email]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (m *memUsers) SetUserPassword(_ context.Context, id int64, hash string, _ time.Time) error {
	for email, u := range m.users {
		if u.ID == id {
			u.PasswordHash = hash
			m.users[email] = u
			return nil
		}
	}
	return errors.New("no such user")
}

func (m *memUsers) TouchUserLogin(context.Context, int64, time.Time) error {
	m.logins++
	return nil
}

type memSessions struct {
	values  map[string]any
	renewed int
}

func newMemSessions() *memSessions {
	return &memSessions{values: make(map[string]any)}
}

func (s *memSessions) RenewToken(context.Context) error {
	s.renewed++
	return nil
}

func (s *memSessions) Put(_ context.Context, key string, val interface{}) {
	s.values[key] = val
}

func (s *memSessions) Remove(_ context.Context, key string) {
	delete(s.values, key)
}

func (s *memSessions) GetString(_ context.Context, key string) string {
	v, _ := s.values[key].(string)
	return v
}
