// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import (
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeEmail trims and Unicode case-folds an email address so that
// lookups and admin comparisons are case-insensitive.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// SameEmail reports whether two addresses are equal after normalization.
// Empty addresses never match.
func SameEmail(a, b string) bool {
	na, nb := NormalizeEmail(a), NormalizeEmail(b)
	return na != "" && na == nb
}
