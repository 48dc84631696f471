// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode/utf8"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
		"formatDateTime": func(t time.Time) string {
			if t.IsZero() {
				return "never"
			}
			return t.Format("Jan 2, 2006 3:04 PM")
		},
		"displayDate": displayDate,
		"truncate":    truncate,
		"markdown":    Markdown,
		"plain":       PlainText,
		"stars":       stars,
		"rating":      func(f float64) string { return fmt.Sprintf("%.1f", f) },
		"lines":       lines,
		"add": func(a, b int) int {
			return a + b
		},
		// imageSrc marks a validated gallery URL as safe for src attributes,
		// which html/template otherwise rewrites for data: URLs.
		"imageSrc": func(s string) template.URL {
			return template.URL(s) //nolint:gosec // validated by model.IsImageURL before storage
		},
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// stars returns five booleans, true for each filled star.
func stars(rating int) []bool {
	out := make([]bool, 5)
	for i := range out {
		out[i] = i < rating
	}
	return out
}

// displayDate reformats an ISO date (YYYY-MM-DD) for display.
func displayDate(s string) string {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return s
	}
	return t.Format("Jan 2, 2006")
}

func lines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}
