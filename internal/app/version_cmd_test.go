package app

import (
	"bytes"
	"strings"
	"testing"
)

func setVersionMetadataForTest(v, c, d string) func() {
	prevVersion, prevCommit, prevDate := version, commit, buildDate
	version, commit, buildDate = v, c, d
	return func() {
		version, commit, buildDate = prevVersion, prevCommit, prevDate
	}
}

func TestVersionCmd_Default(t *testing.T) {
	restore := setVersionMetadataForTest("v1.0.0", "abc123", "2026-08-01T00:00:00Z")
	defer restore()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := runVersionCmd(nil, stdout, stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if got := strings.TrimSpace(stdout.String()); got != "v1.0.0" {
		t.Fatalf("expected version output %q, got %q", "v1.0.0", got)
	}
}

func TestVersionCmd_Long(t *testing.T) {
	restore := setVersionMetadataForTest("v1.0.0", "abc123", "2026-08-01T00:00:00Z")
	defer restore()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := runVersionCmd([]string{"--long"}, stdout, stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	want := "v1.0.0 (commit=abc123, build_date=2026-08-01T00:00:00Z)"
	if got := strings.TrimSpace(stdout.String()); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestVersionCmd_JSON(t *testing.T) {
	restore := setVersionMetadataForTest("v1.0.0", "abc123", "2026-08-01T00:00:00Z")
	defer restore()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := runVersionCmd([]string{"--json"}, stdout, stderr)
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	got := strings.TrimSpace(stdout.String())
	if !strings.Contains(got, `"version":"v1.0.0"`) {
		t.Fatalf("expected json version field, got %q", got)
	}
}

func TestVersionCmd_RejectsPositionalArgs(t *testing.T) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	code := runVersionCmd([]string{"extra"}, stdout, stderr)
	if code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}
