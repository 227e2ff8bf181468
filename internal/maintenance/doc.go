// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

/*
Package maintenance schedules housekeeping for the embedded stores.

Two tasks exist today:

  - feed_cache_gc: badger value log GC, registered only when the feed cache
    uses the badger backend
  - duckdb_checkpoint: folds the DuckDB WAL into the database file

Tasks run on gocron in singleton mode, so a slow run delays the next one
instead of overlapping it. Every run is counted in maintenance_runs_total.

	sched, err := maintenance.NewScheduler(logger,
	    maintenance.CheckpointTask(db, cfg.Maintenance.GCInterval),
	)
	if err := sched.Start(ctx); err != nil { ... }
	defer sched.Stop()

The supervisor tree runs the scheduler through services.SchedulerService.
*/
package maintenance
