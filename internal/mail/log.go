// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// LogSender logs messages instead of delivering them. It is used when no
// Resend API key is configured.
type LogSender struct{}

// NewLogSender creates a LogSender.
func NewLogSender() *LogSender {
	return &LogSender{}
}

// Send logs the message.
func (s *LogSender) Send(_ context.Context, msg Message) (Receipt, error) {
	slog.Info("mail delivery disabled, message logged", "to", msg.To, "subject", msg.Subject, "reply_to", msg.ReplyTo)
	now := time.Now()
	return Receipt{
		MessageID: fmt.Sprintf("log-%d", now.UnixNano()),
		SentAt:    now,
	}, nil
}
