// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

//go:build integration

// Package testinfra starts Docker containers for integration tests.
//
// Everything here sits behind the integration build tag:
//
//	go test -tags integration ./internal/feedcache/...
//
// Tests call RequireDocker first so they skip cleanly on machines without a
// Docker daemon.
package testinfra
