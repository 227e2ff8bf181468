// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

// Package models holds the HTTP wire types shared by the API handlers and
// their tests. Feed payloads themselves are adaptive.FeedResult and
// adaptive.FeedItem; this package only wraps them.
package models
