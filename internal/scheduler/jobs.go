// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Default schedules for the built-in jobs.
const (
	PruneEventsSchedule      = "0 3 * * *"
	RefreshSnapshotsSchedule = "*/15 * * * *"
)

// EventPruner deletes event log entries older than a cutoff.
type EventPruner interface {
	PruneEvents(ctx context.Context, before time.Time) (int64, error)
}

// SnapshotRefresher reloads every cached collection from the store.
type SnapshotRefresher interface {
	RefreshAll(ctx context.Context) error
}

// PruneEventsJob deletes events older than retentionDays.
func PruneEventsJob(pruner EventPruner, retentionDays int, logger *slog.Logger) Job {
	return Job{
		Name:        "prune_events",
		Description: fmt.Sprintf("Delete event log entries older than %d days", retentionDays),
		Schedule:    PruneEventsSchedule,
		Run: func(ctx context.Context) error {
			cutoff := time.Now().AddDate(0, 0, -retentionDays)
			n, err := pruner.PruneEvents(ctx, cutoff)
			if err != nil {
				return fmt.Errorf("pruning events: %w", err)
			}
			logger.Info("pruned old events", "deleted", n, "older_than", cutoff.Format(time.DateOnly))
			return nil
		},
	}
}

// RefreshSnapshotsJob reloads cached snapshots so edits made outside this
// process become visible.
func RefreshSnapshotsJob(refresher SnapshotRefresher) Job {
	return Job{
		Name:        "refresh_snapshots",
		Description: "Reload cached collection snapshots from the document store",
		Schedule:    RefreshSnapshotsSchedule,
		Run: func(ctx context.Context) error {
			if err := refresher.RefreshAll(ctx); err != nil {
				return fmt.Errorf("refreshing snapshots: %w", err)
			}
			return nil
		},
	}
}
