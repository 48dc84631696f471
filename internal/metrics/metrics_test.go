// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveStoreOp(t *testing.T) {
	before := testutil.ToFloat64(storeOps.WithLabelValues("create", "courses", ResultError))
	ObserveStoreOp("create", "courses", time.Now(), errors.New("boom"))
	after := testutil.ToFloat64(storeOps.WithLabelValues("create", "courses", ResultError))
	if after != before+1 {
		t.Errorf("error counter = %v, want %v", after, before+1)
	}
}

func TestObserveCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(cacheRequests.WithLabelValues("gallery", ResultHit))
	misses := testutil.ToFloat64(cacheRequests.WithLabelValues("gallery", ResultMiss))

	ObserveCacheLookup("gallery", true)
	ObserveCacheLookup("gallery", false)
	ObserveCacheLookup("gallery", false)

	if got := testutil.ToFloat64(cacheRequests.WithLabelValues("gallery", ResultHit)); got != hits+1 {
		t.Errorf("hits = %v, want %v", got, hits+1)
	}
	if got := testutil.ToFloat64(cacheRequests.WithLabelValues("gallery", ResultMiss)); got != misses+2 {
		t.Errorf("misses = %v, want %v", got, misses+2)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveLogin(false)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "institute_admin_login_attempts_total") {
		t.Error("expected login counter in metrics output")
	}
}

func TestObserveJobRun(t *testing.T) {
	ok := testutil.ToFloat64(jobRuns.WithLabelValues("prune_events", ResultOK))
	failed := testutil.ToFloat64(jobRuns.WithLabelValues("prune_events", ResultError))

	ObserveJobRun("prune_events", nil)
	ObserveJobRun("prune_events", errors.New("locked"))

	if got := testutil.ToFloat64(jobRuns.WithLabelValues("prune_events", ResultOK)); got != ok+1 {
		t.Errorf("ok runs = %v, want %v", got, ok+1)
	}
	if got := testutil.ToFloat64(jobRuns.WithLabelValues("prune_events", ResultError)); got != failed+1 {
		t.Errorf("failed runs = %v, want %v", got, failed+1)
	}
}
