// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package buildid

import "errors"

// Process exit codes for the check command.
const (
	ExitOK         = 0
	ExitMismatch   = 1
	ExitFileAccess = 2
	ExitFailure    = 3
)

// ExitCode maps the outcome of Validate to a process exit code.
// When informational is set, a mismatch exits 0 and only the printed
// message reports it. File access errors are never informational.
func ExitCode(r Result, err error, informational bool) int {
	if err != nil {
		var fae *ErrFileAccess
		if errors.As(err, &fae) {
			return ExitFileAccess
		}
		return ExitFailure
	}
	if r.Ok() || informational {
		return ExitOK
	}
	return ExitMismatch
}
