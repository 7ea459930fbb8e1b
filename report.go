// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package buildid

import (
	"fmt"
	"io"
)

// Print writes the result message to w. On mismatch it also writes the
// raw file content, unchanged, so the build log shows what was found.
func Print(w io.Writer, r Result) error {
	if _, err := fmt.Fprintln(w, r.Message); err != nil {
		return err
	}
	if r.Ok() {
		return nil
	}
	_, err := w.Write(r.Content)
	return err
}
