// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/institute-go/internal/model"
)

type recordingSender struct {
	sent []Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg Message) (Receipt, error) {
	if s.err != nil {
		return Receipt{}, s.err
	}
	s.sent = append(s.sent, msg)
	return Receipt{MessageID: "rec-1"}, nil
}

func validContact() ContactMessage {
	return ContactMessage{
		Name:    "Asha Verma",
		Email:   "asha@example.com",
		Phone:   "+91 90000 00000",
		Subject: "Admission",
		Message: "When does the next batch start?",
	}
}

func TestContactValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ContactMessage)
		field  string
	}{
		{"valid", func(*ContactMessage) {}, ""},
		{"missing name", func(m *ContactMessage) { m.Name = "" }, "name"},
		{"long name", func(m *ContactMessage) { m.Name = strings.Repeat("a", MaxNameLength+1) }, "name"},
		{"missing email", func(m *ContactMessage) { m.Email = "" }, "email"},
		{"bad email", func(m *ContactMessage) { m.Email = "not-an-address" }, "email"},
		{"long subject", func(m *ContactMessage) { m.Subject = strings.Repeat("s", MaxSubjectLength+1) }, "subject"},
		{"missing message", func(m *ContactMessage) { m.Message = "" }, "message"},
		{"phone optional", func(m *ContactMessage) { m.Phone = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validContact()
			tt.modify(&m)
			err := m.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestContactBuildEscapesHTML(t *testing.T) {
	m := validContact()
	m.Message = "<script>alert(1)</script>"

	msg, err := m.Build("admin@example.com")
	require.NoError(t, err)

	assert.Equal(t, []string{"admin@example.com"}, msg.To)
	assert.Equal(t, "asha@example.com", msg.ReplyTo)
	assert.Equal(t, "[Contact] Admission - Asha Verma", msg.Subject)
	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.HTML, "&lt;script&gt;")
	assert.Contains(t, msg.Text, "Phone: +91 90000 00000")
}

func TestContactBuildDefaultSubject(t *testing.T) {
	m := validContact()
	m.Subject = ""
	m.Phone = ""

	msg, err := m.Build("admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "[Contact] Website enquiry - Asha Verma", msg.Subject)
	assert.NotContains(t, msg.HTML, "Phone:")
}

func TestNotifierSubmit(t *testing.T) {
	sender := &recordingSender{}
	n := NewNotifier(sender, "admin@example.com")

	m := validContact()
	m.Name = "  Asha Verma  "
	require.NoError(t, n.Submit(context.Background(), m))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "Asha Verma")

	err := n.Submit(context.Background(), ContactMessage{})
	assert.True(t, model.IsValidationError(err))
	assert.Len(t, sender.sent, 1)
}

func TestNotifierSendFailure(t *testing.T) {
	boom := errors.New("provider down")
	n := NewNotifier(&recordingSender{err: boom}, "admin@example.com")

	err := n.Submit(context.Background(), validContact())
	assert.ErrorIs(t, err, boom)
}

func TestLogSender(t *testing.T) {
	r, err := NewLogSender().Send(context.Background(), Message{Subject: "hi"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(r.MessageID, "log-"))
	assert.False(t, r.SentAt.IsZero())
}

func TestResendSender(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	s := NewResendSender("re_test", "Institute <noreply@example.com>")
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	s.client.BaseURL = base

	r, err := s.Send(context.Background(), Message{
		To:      []string{"admin@example.com"},
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
		ReplyTo: "visitor@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "msg_123", r.MessageID)
	assert.Equal(t, "Institute <noreply@example.com>", got["from"])
	assert.Equal(t, "Hello", got["subject"])
}
