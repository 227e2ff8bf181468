// Hablafeed - Adaptive Spanish Learning Content Feed
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hablafeed

package adaptive

import (
	"errors"
	"fmt"
)

// Sentinel errors for broad classification. Match them with errors.Is.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// ErrorKind is a coarse-grained error category.
type ErrorKind string

const (
	KindInvalidArgument ErrorKind = "invalid_argument"
	KindNotFound        ErrorKind = "not_found"
)

// OpError wraps a failure of a Sequencer operation with its kind.
type OpError struct {
	Op   string
	Kind ErrorKind
	// Field names the offending input for KindInvalidArgument.
	Field string
	Err   error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Field != "" {
		base += fmt.Sprintf(" (field=%s)", e.Field)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the sentinel that corresponds to the error kind.
func (e *OpError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case KindInvalidArgument:
		return target == ErrInvalidArgument
	case KindNotFound:
		return target == ErrNotFound
	default:
		return false
	}
}

// IsKind reports whether err carries an OpError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}

func invalidArgument(op, field, msg string) error {
	return &OpError{Op: op, Kind: KindInvalidArgument, Field: field, Err: errors.New(msg)}
}

func notFound(op, what string) error {
	return &OpError{Op: op, Kind: KindNotFound, Err: errors.New(what)}
}
