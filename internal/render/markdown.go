// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html"
	"html/template"
	"log/slog"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	md = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

	// ugcPolicy keeps formatting and links but strips scripts and handlers.
	ugcPolicy = bluemonday.UGCPolicy()

	strictPolicy = bluemonday.StrictPolicy()
)

// Markdown converts admin-authored markdown to sanitized HTML.
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		slog.Warn("markdown conversion failed, rendering as text", "error", err)
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec // escaped above
	}
	return template.HTML(ugcPolicy.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized by bluemonday
}

// PlainText strips every tag from visitor-supplied text. The result is
// unescaped text; html/template escapes it on output.
func PlainText(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}
