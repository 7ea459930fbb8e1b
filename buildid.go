// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package buildid checks the build identifier file written by the
// version-stamping step of a CI build.
package buildid

import (
	"os"
	"regexp"
)

// DefaultPath is the build identifier file, relative to the working directory.
const DefaultPath = ".build_id"

const (
	MatchMessage    = "the content of the file matches the version pattern"
	MismatchMessage = "the content of the file does not match the version pattern"
)

// Pattern finds a dotted numeric triple followed by a single quote,
// as in "##teamcity[buildNumber '1.2.3']". It is a search, not an
// anchored match.
var Pattern = regexp.MustCompile(`(\d+\.\d+\.\d+)'`)

// Result is the outcome of a check that was able to read the file.
// Failures to read the file are reported as *ErrFileAccess instead.
type Result struct {
	Outcome Outcome
	Message string
	// Version is the matched triple, without the quote. Empty on mismatch.
	Version string
	// Content is the raw file content. Only set on mismatch.
	Content []byte
}

// Ok returns true if the content matched the pattern.
func (r Result) Ok() bool {
	return r.Outcome == Success
}

// Validate reads the file at path and checks it against Pattern.
func Validate(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, &ErrFileAccess{Op: "read", Path: path, Err: err}
	}
	return Check(data), nil
}

// Check searches content for the version pattern.
// On mismatch the returned Content is the input, unchanged.
func Check(content []byte) Result {
	m := Pattern.FindSubmatch(content)
	if m == nil {
		return Result{
			Outcome: PatternMismatch,
			Message: MismatchMessage,
			Content: content,
		}
	}
	return Result{
		Outcome: Success,
		Message: MatchMessage,
		Version: string(m[1]),
	}
}
