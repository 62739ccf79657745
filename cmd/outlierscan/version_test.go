package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion tests the version string fallbacks.
func TestGetVersion(t *testing.T) {
	t.Run("ldflags value wins", func(t *testing.T) {
		original := version
		t.Cleanup(func() { version = original })

		version = "v1.2.3"
		if got := getVersion(); got != "v1.2.3" {
			t.Errorf("expected v1.2.3, got %q", got)
		}
	})

	t.Run("fallback is non-empty", func(t *testing.T) {
		original := version
		t.Cleanup(func() { version = original })

		version = ""
		if got := getVersion(); got == "" {
			t.Error("expected non-empty version fallback")
		}
	})
}

// TestGetCommit tests the commit hash fallbacks.
func TestGetCommit(t *testing.T) {
	t.Run("ldflags value wins", func(t *testing.T) {
		original := commit
		t.Cleanup(func() { commit = original })

		commit = "abc1234"
		if got := getCommit(); got != "abc1234" {
			t.Errorf("expected abc1234, got %q", got)
		}
	})

	t.Run("fallback is non-empty", func(t *testing.T) {
		original := commit
		t.Cleanup(func() { commit = original })

		commit = ""
		if got := getCommit(); got == "" {
			t.Error("expected non-empty commit fallback")
		}
	})
}

// TestGetDate tests the build date fallbacks.
func TestGetDate(t *testing.T) {
	t.Run("ldflags value wins", func(t *testing.T) {
		original := date
		t.Cleanup(func() { date = original })

		date = "2026-08-30"
		if got := getDate(); got != "2026-08-30" {
			t.Errorf("expected 2026-08-30, got %q", got)
		}
	})
}

// TestVersionCmd tests the version command output.
func TestVersionCmd(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs(nil)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "outlierscan version") {
		t.Errorf("expected version line, got %s", out)
	}
	if !strings.Contains(out, "commit:") || !strings.Contains(out, "built:") {
		t.Errorf("expected commit and build date lines, got %s", out)
	}
}
