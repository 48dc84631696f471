// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/institute-go/internal/model"
	"github.com/olegiv/institute-go/internal/store"
	"github.com/olegiv/institute-go/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *store.SQLStore) {
	t.Helper()
	s := testutil.TestStore(t)
	return NewService(s, testutil.TestSnapshots(t, s), testutil.AdminEmail), s
}

// assertSameSnapshot compares keys, order and fields.
func assertSameSnapshot(t *testing.T, want, got model.Snapshot) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Key, got[i].Key)
		assert.True(t, want[i].Fields.Equal(got[i].Fields), "fields of %s differ", want[i].Key)
	}
}

func validCourse(title string) model.CourseDoc {
	return model.CourseDoc{
		Title:       title,
		Description: "desc",
		Duration:    "2 months",
		Category:    "Programming",
	}
}

func TestListSeedsEmptyCourses(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	courses, err := svc.Courses.List(ctx)
	require.NoError(t, err)
	require.Len(t, courses, len(DefaultCourses))
	assert.Equal(t, "Computer Fundamentals", courses[0].Title)
	assert.Equal(t, model.LevelBeginner, courses[0].Level)

	n, err := s.Count(ctx, model.CollectionCourses)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultCourses), n, "defaults must be persisted")

	gallery, err := svc.Gallery.List(ctx)
	require.NoError(t, err)
	assert.Len(t, gallery, len(DefaultGallery))

	feedback, err := svc.Feedback.List(ctx)
	require.NoError(t, err)
	assert.Len(t, feedback, len(DefaultFeedback))
}

func TestCreateThenDeleteRestoresSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := testutil.AdminContext()

	before, err := svc.Courses.Items(ctx)
	require.NoError(t, err)

	created, err := svc.Courses.Create(ctx, validCourse("Python"))
	require.NoError(t, err)
	require.NotEmpty(t, created.Key)

	during, err := svc.Courses.List(ctx)
	require.NoError(t, err)
	assert.Len(t, during, len(before)+1)
	assert.Equal(t, "Python", during[len(during)-1].Title)

	require.NoError(t, svc.Courses.Delete(ctx, created.Key))

	after, err := svc.Courses.Items(ctx)
	require.NoError(t, err)
	assertSameSnapshot(t, before, after)
}

func TestUpdateIsIdempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := testutil.AdminContext()

	courses, err := svc.Courses.List(ctx)
	require.NoError(t, err)
	key := courses[0].Key

	doc := validCourse("Computer Fundamentals II")
	doc.Overview = "New overview"

	first, err := svc.Courses.Update(ctx, key, doc)
	require.NoError(t, err)
	snapOnce, _ := svc.Courses.Items(ctx)

	second, err := svc.Courses.Update(ctx, key, doc)
	require.NoError(t, err)
	snapTwice, _ := svc.Courses.Items(ctx)

	assert.Equal(t, first, second)
	assertSameSnapshot(t, snapOnce, snapTwice)

	got, err := svc.Courses.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "New overview", got.Overview)
}

func TestUpdateMissingKey(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Courses.Update(testutil.AdminContext(), "missing", validCourse("X"))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUpdateDeletedElsewhere(t *testing.T) {
	svc, s := newTestService(t)
	ctx := testutil.AdminContext()

	courses, err := svc.Courses.List(ctx)
	require.NoError(t, err)
	key := courses[0].Key

	// Removed directly in the store; the snapshot still holds it.
	require.NoError(t, s.Delete(ctx, model.CollectionCourses, key))

	_, err = svc.Courses.Update(ctx, key, validCourse("X"))
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.Courses.Get(ctx, key)
	assert.ErrorIs(t, err, model.ErrNotFound, "stale snapshot should have been dropped")
}

func TestDoubleDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := testutil.AdminContext()

	items, err := svc.Gallery.Items(ctx)
	require.NoError(t, err)
	key := items[0].Key

	require.NoError(t, svc.Gallery.Delete(ctx, key))
	afterFirst, _ := svc.Gallery.Items(ctx)

	require.NoError(t, svc.Gallery.Delete(ctx, key))
	afterSecond, _ := svc.Gallery.Items(ctx)

	assertSameSnapshot(t, afterFirst, afterSecond)
	assert.Len(t, afterSecond, len(items)-1)
}

func TestDeleteMissingKeyLeavesSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := testutil.AdminContext()

	before, err := svc.Courses.Items(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Courses.Delete(ctx, "no-such-key"))

	after, _ := svc.Courses.Items(ctx)
	assertSameSnapshot(t, before, after)
}

func TestMutationsRequireAdmin(t *testing.T) {
	svc, _ := newTestService(t)

	contexts := map[string]context.Context{
		"no session": context.Background(),
		"anonymous":  testutil.VisitorContext(),
	}

	for name, ctx := range contexts {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Courses.Create(ctx, validCourse("X"))
			assert.ErrorIs(t, err, model.ErrForbidden)

			_, err = svc.Courses.Update(ctx, "default-ms-office", validCourse("X"))
			assert.ErrorIs(t, err, model.ErrForbidden)

			assert.ErrorIs(t, svc.Gallery.Delete(ctx, "default-computer-lab"), model.ErrForbidden)
			assert.ErrorIs(t, svc.Feedback.Delete(ctx, "default-feedback-1"), model.ErrForbidden)
			assert.ErrorIs(t, svc.Site.SetAbout(ctx, model.AboutDoc{Text: "x"}), model.ErrForbidden)
		})
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := testutil.AdminContext()

	_, err := svc.Courses.Create(ctx, model.CourseDoc{Title: "Only a title"})
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))

	_, err = svc.Gallery.Create(ctx, model.GalleryDoc{ImageURL: "ftp://example.com/a.png"})
	assert.True(t, model.IsValidationError(err))
}

func TestGalleryUntitledDataURL(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := testutil.AdminContext()

	const dataURL = "data:image/png;base64,iVBORw0KGgo="
	created, err := svc.Gallery.Create(ctx, model.GalleryDoc{ImageURL: dataURL})
	require.NoError(t, err)

	got, err := svc.Gallery.Get(ctx, created.Key)
	require.NoError(t, err)
	assert.Equal(t, dataURL, got.ImageURL)
	assert.Empty(t, got.Title)
	assert.True(t, got.IsDataURL())
}

func TestFeedbackIsPublicCreate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := testutil.VisitorContext()

	created, err := svc.Feedback.Create(ctx, model.FeedbackDoc{
		Name:    "Student",
		Rating:  4,
		Message: "Good course",
		Date:    "1999-01-01",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "1999-01-01", created.Date, "date is assigned by the server")

	_, err = svc.Feedback.Create(ctx, model.FeedbackDoc{Name: "x", Message: "y", Rating: 9})
	assert.True(t, model.IsValidationError(err))
}

func TestSiteTextFallbacks(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.Equal(t, FallbackContact, svc.Site.Contact(ctx))
	assert.Equal(t, FallbackAbout, svc.Site.About(ctx))
	assert.Empty(t, svc.Site.Updates(ctx).Items)
}

func TestSiteTextSet(t *testing.T) {
	svc, s := newTestService(t)
	ctx := testutil.AdminContext()

	contact := model.ContactDoc{
		Address: "1 Main St",
		Phone:   "123",
		Email:   "office@example.com",
		Hours:   "9-5",
	}
	require.NoError(t, svc.Site.SetContact(ctx, contact))
	assert.Equal(t, contact, svc.Site.Contact(ctx))

	require.NoError(t, svc.Site.SetUpdates(ctx, model.UpdatesDoc{Items: []string{"Admissions open", " "}}))
	assert.Equal(t, []string{"Admissions open"}, svc.Site.Updates(ctx).Items)

	require.NoError(t, svc.Site.SetAbout(ctx, model.AboutDoc{Text: "About **us**"}))
	assert.Equal(t, "About **us**", svc.Site.About(ctx).Text)

	item, err := s.Get(ctx, model.CollectionSiteContent, model.SiteKeyContact)
	require.NoError(t, err)
	assert.Equal(t, "office@example.com", item.Fields.Get("email"))

	err = svc.Site.SetContact(ctx, model.ContactDoc{Address: "x"})
	assert.True(t, model.IsValidationError(err))
}

func TestRemoteWriteFailureLeavesSnapshot(t *testing.T) {
	svc, s := newTestService(t)
	ctx := testutil.AdminContext()

	before, err := svc.Courses.Items(ctx)
	require.NoError(t, err)

	_ = s.DB().Close()

	_, err = svc.Courses.Create(ctx, validCourse("Lost"))
	assert.True(t, errors.Is(err, model.ErrRemoteWrite))

	after, err := svc.Courses.Items(ctx)
	require.NoError(t, err)
	assertSameSnapshot(t, before, after)
}

func TestStatsAndSummary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Courses: 6, Gallery: 6, Feedback: 3}, st)

	docs, err := svc.Feedback.List(ctx)
	require.NoError(t, err)
	sum := Summarize(docs)
	assert.Equal(t, 3, sum.Total)
	assert.Equal(t, 2, sum.FiveStar)
	assert.InDelta(t, 14.0/3.0, sum.AverageRating, 0.001)

	assert.Equal(t, FeedbackSummary{}, Summarize(nil))
}

func TestServiceCollection(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	items, err := svc.Collection(ctx, model.CollectionGallery)
	require.NoError(t, err)
	assert.Len(t, items, 6)

	site, err := svc.Collection(ctx, model.CollectionSiteContent)
	require.NoError(t, err)
	assert.Empty(t, site)

	_, err = svc.Collection(ctx, "users")
	assert.ErrorIs(t, err, model.ErrNotFound)
}
