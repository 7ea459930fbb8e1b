// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package buildid

import (
	"errors"
	"fmt"
)

// ErrFileAccess is returned when the build identifier file can't be read.
// It is never folded into a PatternMismatch result.
type ErrFileAccess struct {
	Op   string // read, stat
	Path string
	Err  error
}

func (e *ErrFileAccess) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ErrFileAccess) Unwrap() error {
	return e.Err
}

// ErrDatabase is returned when the check history can't be updated.
type ErrDatabase struct {
	Op  string
	Err error
}

func (e *ErrDatabase) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *ErrDatabase) Unwrap() error {
	return e.Err
}

// Error code constants for the check history.
const (
	ErrCodeFileAccess = "FILE_ACCESS"
	ErrCodeDatabase   = "DATABASE"
	ErrCodeUnknown    = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
// Wrapped errors are unwrapped before matching.
func ErrorCode(err error) string {
	var fae *ErrFileAccess
	var dbe *ErrDatabase
	switch {
	case err == nil:
		return ""
	case errors.As(err, &fae):
		return ErrCodeFileAccess
	case errors.As(err, &dbe):
		return ErrCodeDatabase
	default:
		return ErrCodeUnknown
	}
}
