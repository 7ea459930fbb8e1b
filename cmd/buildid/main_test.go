// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mdhender/buildid"
)

// execute runs the CLI and returns stdout and the exit code main would use.
func execute(t *testing.T, args ...string) (string, int) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return out.String(), buildid.ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return out.String(), ee.code
	}
	return out.String(), buildid.ExitFailure
}

func TestCheck_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if err := os.WriteFile(filepath.Join(dir, buildid.DefaultPath), []byte("##teamcity[buildNumber '1.2.3']\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, code := execute(t)
	if code != buildid.ExitOK {
		t.Fatalf("exit code = %d, want %d", code, buildid.ExitOK)
	}
	if got, want := out, buildid.MatchMessage+"\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
}

func TestCheck_Outcomes(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good")
	bad := filepath.Join(dir, "bad")
	missing := filepath.Join(dir, "missing")
	if err := os.WriteFile(good, []byte("v0.2.3'"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("1.2.3"), 0o644); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{name: "match", args: []string{"check", "--path", good}, wantCode: buildid.ExitOK, wantOut: buildid.MatchMessage + "\n"},
		{name: "mismatch", args: []string{"check", "--path", bad}, wantCode: buildid.ExitMismatch, wantOut: buildid.MismatchMessage + "\n1.2.3"},
		{name: "mismatch informational", args: []string{"check", "--path", bad, "--informational"}, wantCode: buildid.ExitOK, wantOut: buildid.MismatchMessage + "\n1.2.3"},
		{name: "missing", args: []string{"check", "--path", missing}, wantCode: buildid.ExitFileAccess, wantOut: ""},
		{name: "missing informational", args: []string{"check", "--path", missing, "--informational"}, wantCode: buildid.ExitFileAccess, wantOut: ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, code := execute(t, tc.args...)
			if code != tc.wantCode {
				t.Fatalf("exit code = %d, want %d", code, tc.wantCode)
			}
			if out != tc.wantOut {
				t.Fatalf("stdout = %q, want %q", out, tc.wantOut)
			}
		})
	}
}

func TestCheck_History(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")
	bid := filepath.Join(dir, ".build_id")
	if err := os.WriteFile(bid, []byte("##teamcity[buildNumber '4.5.6']"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, code := execute(t, "check", "--path", bid, "--history-db", db); code != buildid.ExitFailure {
		t.Fatalf("check before init-db: exit code = %d, want %d", code, buildid.ExitFailure)
	}
	if _, code := execute(t, "init-db", "--db", db); code != buildid.ExitOK {
		t.Fatalf("init-db: exit code = %d, want %d", code, buildid.ExitOK)
	}
	if _, code := execute(t, "check", "--path", bid, "--history-db", db); code != buildid.ExitOK {
		t.Fatalf("check: exit code = %d, want %d", code, buildid.ExitOK)
	}
	if _, code := execute(t, "check", "--path", filepath.Join(dir, "missing"), "--history-db", db); code != buildid.ExitFileAccess {
		t.Fatalf("check missing: exit code = %d, want %d", code, buildid.ExitFileAccess)
	}

	out, code := execute(t, "history", "--db", db)
	if code != buildid.ExitOK {
		t.Fatalf("history: exit code = %d, want %d", code, buildid.ExitOK)
	}
	for _, want := range []string{"4.5.6", buildid.ErrCodeFileAccess, "success 1, mismatch 0, file_access 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("history output missing %q:\n%s", want, out)
		}
	}

	if _, code := execute(t, "compact-db", "--db", db); code != buildid.ExitOK {
		t.Fatalf("compact-db: exit code = %d, want %d", code, buildid.ExitOK)
	}
}

func TestVersion(t *testing.T) {
	out, code := execute(t, "version")
	if code != buildid.ExitOK {
		t.Fatalf("exit code = %d, want %d", code, buildid.ExitOK)
	}
	if got, want := strings.TrimSpace(out), buildid.Version().Core(); got != want {
		t.Fatalf("version = %q, want %q", got, want)
	}
}
