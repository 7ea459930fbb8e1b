// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import (
	"time"

	"github.com/mdhender/buildid"
)

// NewCheck converts the outcome of buildid.Validate into a history record.
// A non-nil err always produces a file access record, since Validate
// returns no other kind of error.
func NewCheck(path string, r buildid.Result, err error, now time.Time) *Check {
	c := &Check{Path: path, CheckedAt: now.UTC()}
	switch {
	case err != nil:
		c.Outcome = OutcomeFileAccess
		c.ErrorCode = buildid.ErrorCode(err)
		c.ErrorMsg = err.Error()
	case r.Ok():
		c.Outcome = OutcomeSuccess
		c.Version = r.Version
	default:
		c.Outcome = OutcomeMismatch
		c.Content = string(r.Content)
	}
	return c
}
