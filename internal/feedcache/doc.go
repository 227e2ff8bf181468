// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

/*
Package feedcache stores the ranked content ids the sequencer serves on a
learner's next first-page request.

Backends:

  - Memory: per-process map with per-entry expiry. Default for single instances.
  - Badger: embedded and persistent; entries use Badger TTLs so expiry
    survives restarts. RunGC is called by the maintenance scheduler.
  - Redis: shared between API instances; values are JSON arrays with a
    native key expiry.

Every backend satisfies Store, which adds Invalidate and Close to
adaptive.FeedCache. Keys are "feed:<userID>".

Breaker wraps any Store in a sony/gobreaker circuit. Backend errors are
still returned so the sequencer fails the request; an open circuit only
turns a slow failure into a fast one.

	store, err := feedcache.New(ctx, &cfg.Cache)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}
*/
package feedcache
