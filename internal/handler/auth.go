// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/institute-go/internal/auth"
	"github.com/olegiv/institute-go/internal/middleware"
	"github.com/olegiv/institute-go/internal/model"
	"github.com/olegiv/institute-go/internal/render"
)

// AuthHandler handles admin sign-in, sign-out and password changes.
type AuthHandler struct {
	renderer        *render.Renderer
	gate            *auth.Gate
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(renderer *render.Renderer, gate *auth.Gate, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		renderer:        renderer,
		gate:            gate,
		loginProtection: lp,
	}
}

// LoginForm handles GET /admin/login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, "")
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, email string) {
	h.renderer.RenderPageStatus(w, r, status, "auth/login", render.TemplateData{
		Title: "Admin Login",
		Form:  map[string]string{"email": email},
	})
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteLogin) {
		return
	}

	email := auth.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")
	ip := middleware.GetClientIP(r)

	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteLogin, "Email and password are required.")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			slog.Warn("login attempt on locked account", "category", "auth", "email", email, "ip", ip)
			flashError(w, r, h.renderer, RouteLogin,
				fmt.Sprintf("Too many failed attempts. Try again in %s.", remaining.Round(time.Second)))
			return
		}
	}

	if !h.gate.Login(r.Context(), email, password) {
		if h.loginProtection != nil {
			if locked, _ := h.loginProtection.RecordFailedAttempt(email); locked {
				slog.Warn("account locked after failed logins", "category", "auth", "email", email, "ip", ip)
			}
		}
		slog.Info("failed login", "category", "auth", "email", email, "ip", ip)
		h.renderer.SetFlash(r, msgAuthFailure, render.FlashError)
		h.renderLogin(w, r, http.StatusUnauthorized, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}
	flashSuccess(w, r, h.renderer, redirectAdmin, "Welcome back!")
}

// Logout handles POST /admin/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.gate.Logout(r.Context())
	flashSuccess(w, r, h.renderer, RouteRoot, "You have been signed out.")
}

// PasswordForm handles GET /admin/password.
func (h *AuthHandler) PasswordForm(w http.ResponseWriter, r *http.Request) {
	h.renderPassword(w, r, http.StatusOK, nil)
}

func (h *AuthHandler) renderPassword(w http.ResponseWriter, r *http.Request, status int, errs map[string]string) {
	h.renderer.RenderPageStatus(w, r, status, "admin/password", render.TemplateData{
		Title:   "Change Password",
		Nav:     navAdmin,
		IsAdmin: true,
		Data:    auth.MinPasswordLength,
		Errors:  errs,
	})
}

// ChangePassword handles POST /admin/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectAdminPassword) {
		return
	}

	current := r.FormValue("current_password")
	next := r.FormValue("new_password")

	if next != r.FormValue("confirm_password") {
		h.renderPassword(w, r, http.StatusUnprocessableEntity,
			map[string]string{"confirm_password": "Passwords do not match"})
		return
	}
	if err := auth.ValidatePassword(next); err != nil {
		h.renderPassword(w, r, http.StatusUnprocessableEntity,
			map[string]string{"new_password": capitalizeFirst(err.Error())})
		return
	}

	if err := h.gate.ChangePassword(r.Context(), current, next); err != nil {
		switch {
		case errors.Is(err, model.ErrAuthFailure):
			h.renderPassword(w, r, http.StatusUnprocessableEntity,
				map[string]string{"current_password": "Current password is incorrect"})
		default:
			slog.Error("failed to change password", "category", "auth", "error", err)
			handleWriteError(w, r, h.renderer, redirectAdminPassword, "password", err)
		}
		return
	}

	slog.Info("admin password changed", "category", "auth", "email", h.gate.AdminEmail())
	flashSuccess(w, r, h.renderer, redirectAdmin, "Password updated.")
}
