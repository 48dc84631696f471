// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/olegiv/institute-go/internal/model"
)

// Field limits for contact submissions.
const (
	MaxNameLength    = 100
	MaxSubjectLength = 200
	MaxMessageLength = 5000
)

// contactForm labels validation errors for contact submissions.
const contactForm model.CollectionID = "contact"

// ContactMessage is a visitor's contact-form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// Normalize trims every field.
func (m *ContactMessage) Normalize() {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Phone = strings.TrimSpace(m.Phone)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Message = strings.TrimSpace(m.Message)
}

// Validate checks required fields and lengths.
func (m ContactMessage) Validate() error {
	problems := map[string]string{}
	if m.Name == "" {
		problems["name"] = "Name is required"
	} else if utf8.RuneCountInString(m.Name) > MaxNameLength {
		problems["name"] = fmt.Sprintf("Name must be at most %d characters", MaxNameLength)
	}
	if m.Email == "" {
		problems["email"] = "Email is required"
	} else if _, err := mail.ParseAddress(m.Email); err != nil {
		problems["email"] = "Email address is invalid"
	}
	if utf8.RuneCountInString(m.Subject) > MaxSubjectLength {
		problems["subject"] = fmt.Sprintf("Subject must be at most %d characters", MaxSubjectLength)
	}
	if m.Message == "" {
		problems["message"] = "Message is required"
	} else if utf8.RuneCountInString(m.Message) > MaxMessageLength {
		problems["message"] = fmt.Sprintf("Message must be at most %d characters", MaxMessageLength)
	}
	return model.NewValidationError(contactForm, problems)
}

var contactHTML = template.Must(template.New("contact").Parse(`<h2>New enquiry from the website</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
{{- if .Phone}}
<p><strong>Phone:</strong> {{.Phone}}</p>
{{- end}}
{{- if .Subject}}
<p><strong>Subject:</strong> {{.Subject}}</p>
{{- end}}
<p style="white-space: pre-wrap">{{.Message}}</p>
`))

// Build renders the submission as a notification addressed to recipient.
func (m ContactMessage) Build(recipient string) (Message, error) {
	var buf bytes.Buffer
	if err := contactHTML.Execute(&buf, m); err != nil {
		return Message{}, fmt.Errorf("rendering contact mail: %w", err)
	}

	subject := m.Subject
	if subject == "" {
		subject = "Website enquiry"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Name: %s\nEmail: %s\n", m.Name, m.Email)
	if m.Phone != "" {
		fmt.Fprintf(&text, "Phone: %s\n", m.Phone)
	}
	fmt.Fprintf(&text, "\n%s\n", m.Message)

	return Message{
		To:      []string{recipient},
		Subject: "[Contact] " + subject + " - " + m.Name,
		HTML:    buf.String(),
		Text:    text.String(),
		ReplyTo: m.Email,
	}, nil
}

// Notifier forwards contact submissions to a fixed recipient.
type Notifier struct {
	sender    Sender
	recipient string
}

// NewNotifier creates a Notifier.
func NewNotifier(sender Sender, recipient string) *Notifier {
	return &Notifier{sender: sender, recipient: recipient}
}

// Submit normalizes, validates and sends a contact submission.
func (n *Notifier) Submit(ctx context.Context, m ContactMessage) error {
	m.Normalize()
	if err := m.Validate(); err != nil {
		return err
	}

	msg, err := m.Build(n.recipient)
	if err != nil {
		return err
	}
	if _, err := n.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending contact notification: %w", err)
	}
	return nil
}
