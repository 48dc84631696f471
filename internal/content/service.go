// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/institute-go/internal/auth"
	"github.com/olegiv/institute-go/internal/cache"
	"github.com/olegiv/institute-go/internal/model"
)

// Service groups the façades of every collection.
type Service struct {
	Courses  *Collection[model.CourseDoc]
	Gallery  *Collection[model.GalleryDoc]
	Feedback *Collection[model.FeedbackDoc]
	Site     *SiteText

	now func() time.Time
}

// NewService wires the façades to the store and snapshot cache. Only
// adminEmail may mutate content, except for public feedback submissions.
func NewService(store Store, snapshots *cache.SnapshotCache, adminEmail string) *Service {
	adminEmail = auth.NormalizeEmail(adminEmail)
	s := &Service{now: time.Now}

	s.Courses = &Collection[model.CourseDoc]{
		id:         model.CollectionCourses,
		store:      store,
		snapshots:  snapshots,
		adminEmail: adminEmail,
		decode:     model.CourseFromItem,
		defaults:   DefaultCourses,
	}
	s.Gallery = &Collection[model.GalleryDoc]{
		id:         model.CollectionGallery,
		store:      store,
		snapshots:  snapshots,
		adminEmail: adminEmail,
		decode:     model.GalleryFromItem,
		defaults:   DefaultGallery,
	}
	s.Feedback = &Collection[model.FeedbackDoc]{
		id:           model.CollectionFeedback,
		store:        store,
		snapshots:    snapshots,
		adminEmail:   adminEmail,
		decode:       model.FeedbackFromItem,
		defaults:     DefaultFeedback,
		publicCreate: true,
		prepare: func(d model.FeedbackDoc) model.FeedbackDoc {
			d.Date = s.now().Format(time.DateOnly)
			return d
		},
	}
	s.Site = &SiteText{
		store:      store,
		snapshots:  snapshots,
		adminEmail: adminEmail,
	}
	return s
}

// Collection returns the raw snapshot of a collection by id, for the
// read-only API.
func (s *Service) Collection(ctx context.Context, coll model.CollectionID) (model.Snapshot, error) {
	switch coll {
	case model.CollectionCourses:
		return s.Courses.Items(ctx)
	case model.CollectionGallery:
		return s.Gallery.Items(ctx)
	case model.CollectionFeedback:
		return s.Feedback.Items(ctx)
	case model.CollectionSiteContent:
		return s.Site.snapshots.Get(ctx, coll)
	}
	return nil, fmt.Errorf("collection %q: %w", coll, model.ErrNotFound)
}

// Stats are the dashboard counters.
type Stats struct {
	Courses  int
	Gallery  int
	Feedback int
}

// Stats counts the documents of every keyed collection.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	var err error
	if st.Courses, err = s.Courses.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.Gallery, err = s.Gallery.Count(ctx); err != nil {
		return Stats{}, err
	}
	if st.Feedback, err = s.Feedback.Count(ctx); err != nil {
		return Stats{}, err
	}
	return st, nil
}

// FeedbackSummary aggregates testimonial ratings.
type FeedbackSummary struct {
	Total         int
	AverageRating float64
	FiveStar      int
}

// Summarize computes the rating summary of docs.
func Summarize(docs []model.FeedbackDoc) FeedbackSummary {
	sum := FeedbackSummary{Total: len(docs)}
	if len(docs) == 0 {
		return sum
	}
	total := 0
	for _, d := range docs {
		total += d.Rating
		if d.Rating == 5 {
			sum.FiveStar++
		}
	}
	sum.AverageRating = float64(total) / float64(len(docs))
	return sum
}
