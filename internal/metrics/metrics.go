// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exposes prometheus collectors for the document store,
// the content cache and the admin login flow.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
	ResultHit   = "hit"
	ResultMiss  = "miss"
)

var (
	storeOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "institute_store_ops_total",
		Help: "Document store operations by op, collection and result",
	}, []string{"op", "collection", "result"})

	storeOpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "institute_store_op_duration_seconds",
		Help:    "Duration of document store operations",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"op"})

	cacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "institute_cache_requests_total",
		Help: "Snapshot cache lookups by collection and result",
	}, []string{"collection", "result"})

	cacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "institute_cache_invalidations_total",
		Help: "Snapshot cache invalidations by collection",
	}, []string{"collection"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "institute_admin_login_attempts_total",
		Help: "Admin login attempts by result",
	}, []string{"result"})

	jobRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "institute_scheduler_job_runs_total",
		Help: "Scheduled job runs by job and result",
	}, []string{"job", "result"})
)

// ObserveStoreOp records one document store operation.
func ObserveStoreOp(op, collection string, started time.Time, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	storeOps.WithLabelValues(op, collection, result).Inc()
	storeOpDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// ObserveCacheLookup records a snapshot cache hit or miss.
func ObserveCacheLookup(collection string, hit bool) {
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	cacheRequests.WithLabelValues(collection, result).Inc()
}

// ObserveCacheInvalidation records a snapshot being dropped.
func ObserveCacheInvalidation(collection string) {
	cacheInvalidations.WithLabelValues(collection).Inc()
}

// ObserveLogin records an admin login attempt.
func ObserveLogin(ok bool) {
	result := ResultOK
	if !ok {
		result = ResultError
	}
	loginAttempts.WithLabelValues(result).Inc()
}

// ObserveJobRun records one scheduled job run.
func ObserveJobRun(job string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	jobRuns.WithLabelValues(job, result).Inc()
}

// Handler serves the default registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
