// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import "time"

// Check is one run of the build identifier check.
type Check struct {
	ID        int64     `json:"id"                  db:"id"`
	Path      string    `json:"path"                db:"path"`
	Outcome   Outcome   `json:"outcome"             db:"outcome"`
	Version   string    `json:"version,omitempty"   db:"version"` // e.g., "1.2.3"
	Content   string    `json:"content,omitempty"   db:"content"` // raw file content, mismatch only
	ErrorCode string    `json:"errorCode,omitempty" db:"error_code"`
	ErrorMsg  string    `json:"errorMsg,omitempty"  db:"error_msg"`
	CheckedAt time.Time `json:"checkedAt"           db:"checked_at"`
}

// Outcome is the stored form of a check result.
type Outcome string

const (
	OutcomeSuccess    Outcome = "success"
	OutcomeMismatch   Outcome = "mismatch"
	OutcomeFileAccess Outcome = "file_access"
)
