// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mail delivers contact-form notifications to the site administrator.
package mail

import (
	"context"
	"time"
)

// Message is a single outgoing email.
type Message struct {
	To      []string
	From    string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

// Receipt is returned by a Sender after the provider accepted a message.
type Receipt struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers messages through a provider.
type Sender interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}
