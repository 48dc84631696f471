// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/institute-go/internal/model"
	"github.com/olegiv/institute-go/internal/testutil"
)

func courseForm(title string) url.Values {
	return url.Values{
		"title":       {title},
		"description": {"Hands-on networking"},
		"duration":    {"3 months"},
		"category":    {"Networking"},
		"level":       {model.LevelIntermediate},
	}
}

func TestAdminCourseCRUD(t *testing.T) {
	site := newTestSite(t)
	c := site.adminClient(t)
	ctx := testutil.VisitorContext()

	resp := site.postForm(t, c, "/admin/courses", courseForm("CCNA Basics"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/courses", resp.Header.Get("Location"))

	courses, err := site.content.Courses.List(ctx)
	require.NoError(t, err)
	created := courses[len(courses)-1]
	assert.Equal(t, "CCNA Basics", created.Title)

	_, body := site.get(t, c, "/courses")
	assert.Contains(t, body, "CCNA Basics")

	resp, body = site.get(t, c, "/admin/courses/"+created.Key+"/edit")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `value="CCNA Basics"`)

	resp = site.postForm(t, c, "/admin/courses/"+created.Key, courseForm("CCNA Advanced"))
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	updated, err := site.content.Courses.Get(ctx, created.Key)
	require.NoError(t, err)
	assert.Equal(t, "CCNA Advanced", updated.Title)

	resp = site.postForm(t, c, "/admin/courses/"+created.Key+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, err = site.content.Courses.Get(ctx, created.Key)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAdminCourseValidation(t *testing.T) {
	site := newTestSite(t)
	c := site.adminClient(t)

	form := courseForm("")
	resp, body := site.postFormBody(t, c, "/admin/courses", form)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Title is required")
	assert.Contains(t, body, `value="Networking"`, "entered values are kept")
}

func TestAdminUpdateMissingCourse(t *testing.T) {
	site := newTestSite(t)
	c := site.adminClient(t)

	resp := site.postForm(t, c, "/admin/courses/missing-key", courseForm("Ghost"))
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/courses", resp.Header.Get("Location"))

	_, body := site.get(t, c, "/admin/courses")
	assert.Contains(t, body, "Course not found.")
}

func TestAdminGalleryURL(t *testing.T) {
	site := newTestSite(t)
	c := site.adminClient(t)

	resp := site.postForm(t, c, "/admin/gallery", url.Values{"imageUrl": {"https://example.com/lab.jpg"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	images, err := site.content.Gallery.List(testutil.VisitorContext())
	require.NoError(t, err)
	last := images[len(images)-1]
	assert.Equal(t, "https://example.com/lab.jpg", last.ImageURL)
	assert.Empty(t, last.Title)

	resp, body := site.postFormBody(t, c, "/admin/gallery", url.Values{"imageUrl": {"javascript:alert(1)"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Image URL must be an http(s) URL")
}

func TestGalleryShowsUntitledDataImage(t *testing.T) {
	site := newTestSite(t)
	c := site.adminClient(t)

	const src = "data:image/png;base64,AAA"
	resp := site.postForm(t, c, "/admin/gallery", url.Values{"imageUrl": {src}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp, body := site.get(t, site.client(t), "/gallery")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "#ZgotmplZ")

	start := strings.Index(body, `src="`+src+`"`)
	require.GreaterOrEqual(t, start, 0, "data image missing from gallery page")
	end := strings.Index(body[start:], "</figure>")
	require.Greater(t, end, 0)
	figure := body[start : start+end]

	assert.Contains(t, figure, `alt=""`)
	assert.NotContains(t, figure, "<h3>")
	assert.NotContains(t, figure, "<figcaption>")
}

func TestAdminGalleryUpload(t *testing.T) {
	site := newTestSite(t)
	c := site.adminClient(t)

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var pngData bytes.Buffer
	require.NoError(t, png.Encode(&pngData, img))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Computer lab"))
	fw, err := mw.CreateFormFile("image_file", "lab.png")
	require.NoError(t, err)
	_, err = fw.Write(pngData.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := c.Post(site.server.URL+"/admin/gallery", mw.FormDataContentType(), &body)
	require.NoError(t, err)
	_ = readBody(t, resp)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	images, err := site.content.Gallery.List(testutil.VisitorContext())
	require.NoError(t, err)
	last := images[len(images)-1]
	assert.Equal(t, "Computer lab", last.Title)
	assert.True(t, strings.HasPrefix(last.ImageURL, "data:image/png;base64,"))

	// Editing without a new image keeps the upload.
	resp = site.postForm(t, c, "/admin/gallery/"+last.Key, url.Values{"title": {"Main lab"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	edited, err := site.content.Gallery.Get(testutil.VisitorContext(), last.Key)
	require.NoError(t, err)
	assert.Equal(t, "Main lab", edited.Title)
	assert.Equal(t, last.ImageURL, edited.ImageURL)
}

func TestAdminSiteContactValidation(t *testing.T) {
	site := newTestSite(t)
	c := site.adminClient(t)

	resp, body := site.postFormBody(t, c, "/admin/site/contact", url.Values{
		"address": {"1 Main Road"},
		"phone":   {"123"},
		"email":   {"bad"},
		"hours":   {"9-5"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Email must be a valid email address")
}

func TestAdminFeedbackDelete(t *testing.T) {
	site := newTestSite(t)
	c := site.adminClient(t)
	ctx := testutil.VisitorContext()

	entries, err := site.content.Feedback.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	resp := site.postForm(t, c, "/admin/feedback/"+entries[0].Key+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	after, err := site.content.Feedback.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(entries)-1, after)
}

func TestAdminPasswordChange(t *testing.T) {
	site := newTestSite(t)
	c := site.adminClient(t)

	resp, body := site.postFormBody(t, c, "/admin/password", url.Values{
		"current_password": {testAdminPassword},
		"new_password":     {"short"},
		"confirm_password": {"short"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "at least 12 characters")

	resp, body = site.postFormBody(t, c, "/admin/password", url.Values{
		"current_password": {"wrong-password-here"},
		"new_password":     {"another-long-password"},
		"confirm_password": {"another-long-password"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "Current password is incorrect")

	resp = site.postForm(t, c, "/admin/password", url.Values{
		"current_password": {testAdminPassword},
		"new_password":     {"another-long-password"},
		"confirm_password": {"another-long-password"},
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get("Location"))
}

func TestAdminCachePage(t *testing.T) {
	site := newTestSite(t)
	c := site.adminClient(t)

	resp, body := site.get(t, c, "/admin/cache")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "memory")

	resp = site.postForm(t, c, "/admin/cache/clear", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/cache", resp.Header.Get("Location"))

	resp = site.postForm(t, c, "/admin/cache/refresh", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	_, body = site.get(t, c, "/admin/cache")
	assert.Contains(t, body, "Cached content reloaded from the store")
}

func TestAdminJobs(t *testing.T) {
	site := newTestSite(t)
	c := site.adminClient(t)

	resp, body := site.get(t, c, "/admin/jobs")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "refresh_snapshots")
	assert.Contains(t, body, "prune_events")

	resp = site.postForm(t, c, "/admin/jobs/refresh_snapshots/run", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/jobs", resp.Header.Get("Location"))
	_, body = site.get(t, c, "/admin/jobs")
	assert.Contains(t, body, "Job refresh_snapshots completed.")

	resp = site.postForm(t, c, "/admin/jobs/prune_events/schedule", url.Values{"schedule": {"not cron"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body = site.get(t, c, "/admin/jobs")
	assert.Contains(t, body, "Invalid schedule")

	resp = site.postForm(t, c, "/admin/jobs/prune_events/schedule", url.Values{"schedule": {"0 4 * * *"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_, body = site.get(t, c, "/admin/jobs")
	assert.Contains(t, body, "0 4 * * *")

	resp = site.postForm(t, c, "/admin/jobs/prune_events/reset", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}
