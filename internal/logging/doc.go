// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

// Package logging provides the process-wide zerolog logger for Hablafeed.
//
// JSON output is the default and is what production deployments should use.
// Console output is intended for local development.
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	logging.Info().Str("addr", ":8080").Msg("listening")
//
// # Request Context
//
// The request ID middleware stores a request ID in the context; handlers add
// the learner ID. Ctx returns a logger carrying both:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("feed cache unavailable")
//
// # slog
//
// The suture supervisor reports through log/slog. NewSlogLogger bridges those
// events into the same zerolog stream so one log pipeline sees everything.
//
// # Configuration
//
//	LOG_LEVEL   trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  json, console (default: json)
//	LOG_CALLER  true, false (default: false)
package logging
