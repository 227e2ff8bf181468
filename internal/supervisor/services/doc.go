// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

/*
Package services adapts the feed server's components to suture.Service.

  - HTTPServerService: ListenAndServe until cancelled, then Shutdown with a
    bounded timeout
  - SchedulerService: Start, wait for cancellation, Stop

Both return ctx.Err() on a clean stop and wrap any other failure, so suture
restarts the component with backoff. Each implements fmt.Stringer so the
supervisor event log names it.
*/
package services
