package config

import (
	"strings"
	"testing"
)

func TestFormatDiff_EquivalentConfigs(t *testing.T) {
	// Same content, different key order and spacing.
	oldData := []byte("[server:a]\nhost = localhost\nports = 80\n")
	newData := []byte("[server:a]\nports=80\nhost=localhost\n")

	diff, err := FormatDiff(oldData, newData, 3, "old.conf", "new.conf")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if diff != "" {
		t.Fatalf("expected empty diff, got:\n%s", diff)
	}
}

func TestFormatDiff_Changes(t *testing.T) {
	oldData := []byte("[server:a]\nhost = localhost\nports = 80\n")
	newData := []byte("[server:a]\nhost = localhost\nports = 8080\n")

	diff, err := FormatDiff(oldData, newData, 3, "old.conf", "new.conf")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.Contains(diff, "--- old.conf") || !strings.Contains(diff, "+++ new.conf") {
		t.Fatalf("missing header:\n%s", diff)
	}
	if !strings.Contains(diff, "-ports = 80") || !strings.Contains(diff, "+ports = 8080") {
		t.Fatalf("missing change lines:\n%s", diff)
	}
}

func TestFormatDiff_ParseErrorNamesFile(t *testing.T) {
	_, err := FormatDiff([]byte("garbage line"), []byte("[s]\nk = v\n"), 3, "old.conf", "new.conf")
	if err == nil || !strings.Contains(err.Error(), "old.conf") {
		t.Fatalf("expected error naming old.conf, got %v", err)
	}
}
