// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/institute-go/internal/auth"
	"github.com/olegiv/institute-go/internal/cache"
	"github.com/olegiv/institute-go/internal/content"
	"github.com/olegiv/institute-go/internal/imaging"
	"github.com/olegiv/institute-go/internal/mail"
	"github.com/olegiv/institute-go/internal/middleware"
	"github.com/olegiv/institute-go/internal/render"
	"github.com/olegiv/institute-go/internal/scheduler"
	"github.com/olegiv/institute-go/internal/store"
	"github.com/olegiv/institute-go/internal/testutil"
	"github.com/olegiv/institute-go/internal/version"
	"github.com/olegiv/institute-go/web"
)

const testAdminPassword = "correct-horse-battery"

// captureSender records outgoing mail.
type captureSender struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (s *captureSender) Send(_ context.Context, msg mail.Message) (mail.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return mail.Receipt{MessageID: "test", SentAt: time.Now()}, nil
}

func (s *captureSender) messages() []mail.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mail.Message(nil), s.sent...)
}

// testSite is a running server over a temporary database.
type testSite struct {
	server  *httptest.Server
	store   *store.SQLStore
	content *content.Service
	mail    *captureSender
}

func newTestSite(t *testing.T) *testSite {
	t.Helper()

	st := testutil.TestStore(t)
	require.NoError(t, store.SeedAdmin(context.Background(), st, testutil.AdminEmail, testAdminPassword))

	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Hour})
	cm := cache.NewManagerWithBackend(backend, cache.Info{Backend: cache.BackendMemory}, st, time.Hour)
	t.Cleanup(func() { _ = cm.Close() })

	sessions := scs.New()
	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{TemplatesFS: templates, Flash: sessions})
	require.NoError(t, err)

	gate := auth.NewGate(auth.NewLocalProvider(st), sessions, testutil.AdminEmail)
	svc := content.NewService(st, cm.Snapshots, testutil.AdminEmail)
	sender := &captureSender{}

	lp := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	t.Cleanup(lp.Stop)

	jobs := scheduler.New(testutil.TestLogger())
	require.NoError(t, jobs.Register(scheduler.RefreshSnapshotsJob(cm)))
	require.NoError(t, jobs.Register(scheduler.PruneEventsJob(st, 30, testutil.TestLogger())))

	static, err := fs.Sub(web.Static, "static")
	require.NoError(t, err)

	router := NewRouter(App{
		Renderer:        renderer,
		Content:         svc,
		Gate:            gate,
		Sessions:        sessions,
		Cache:           cm,
		Jobs:            jobs,
		Events:          st,
		DB:              st.DB(),
		Notifier:        mail.NewNotifier(sender, "office@example.com"),
		Images:          imaging.NewProcessor(1 << 20),
		LoginProtection: lp,
		Static:          static,
		Version:         &version.Info{Version: "v0.0.0-test"},
		AdminEmail:      testutil.AdminEmail,
		CSRFKey:         []byte("0123456789abcdef0123456789abcdef"),
		IsDev:           true,
		MaxUpload:       1 << 20,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testSite{server: srv, store: st, content: svc, mail: sender}
}

// client returns a cookie-keeping client that does not follow redirects.
func (s *testSite) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// adminClient returns a client signed in as the admin.
func (s *testSite) adminClient(t *testing.T) *http.Client {
	t.Helper()
	c := s.client(t)
	resp := s.postForm(t, c, "/admin/login", url.Values{
		"email":    {testutil.AdminEmail},
		"password": {testAdminPassword},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/admin", resp.Header.Get("Location"))
	return c
}

func (s *testSite) get(t *testing.T, c *http.Client, path string) (*http.Response, string) {
	t.Helper()
	resp, err := c.Get(s.server.URL + path)
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func (s *testSite) postForm(t *testing.T, c *http.Client, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := c.PostForm(s.server.URL+path, form)
	require.NoError(t, err)
	_ = readBody(t, resp)
	return resp
}

func (s *testSite) postFormBody(t *testing.T, c *http.Client, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := c.Post(s.server.URL+path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	return resp, readBody(t, resp)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}
