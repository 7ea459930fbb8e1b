// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package buildid

// Outcome discriminates Result variants.
type Outcome int

const (
	Success Outcome = iota
	PatternMismatch
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case PatternMismatch:
		return "mismatch"
	}
	return "unknown"
}
