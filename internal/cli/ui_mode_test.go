package cli

import (
	"bytes"
	"io"
	"testing"
)

func withTerminal(t *testing.T, tty bool) {
	t.Helper()
	previous := isTerminal
	isTerminal = func(io.Writer) bool { return tty }
	t.Cleanup(func() { isTerminal = previous })
}

// TestResolveUIModeAuto verifies auto follows TTY detection.
func TestResolveUIModeAuto(t *testing.T) {
	withTerminal(t, true)
	decision, err := resolveUIMode("auto", &bytes.Buffer{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !decision.useLive {
		t.Fatalf("expected live UI on TTY")
	}

	withTerminal(t, false)
	decision, err = resolveUIMode("", &bytes.Buffer{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if decision.useLive {
		t.Fatalf("expected plain UI without TTY")
	}
}

// TestResolveUIModeLiveFallsBack verifies live degrades with a warning when
// stdout is not a TTY.
func TestResolveUIModeLiveFallsBack(t *testing.T) {
	withTerminal(t, false)
	decision, err := resolveUIMode("live", &bytes.Buffer{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if decision.useLive {
		t.Fatalf("expected fallback to plain")
	}
	if decision.warning == "" {
		t.Fatalf("expected fallback warning")
	}
}

// TestResolveUIModePlain verifies plain never uses the live UI.
func TestResolveUIModePlain(t *testing.T) {
	withTerminal(t, true)
	decision, err := resolveUIMode("plain", &bytes.Buffer{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if decision.useLive {
		t.Fatalf("expected plain mode")
	}
}

// TestResolveUIModeInvalid verifies unknown modes error.
func TestResolveUIModeInvalid(t *testing.T) {
	if _, err := resolveUIMode("fancy", &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for invalid mode")
	}
}

// TestDefaultIsTerminalNonFile verifies plain writers are not TTYs.
func TestDefaultIsTerminalNonFile(t *testing.T) {
	if defaultIsTerminal(&bytes.Buffer{}) {
		t.Fatalf("buffer misdetected as TTY")
	}
	if defaultIsTerminal(nil) {
		t.Fatalf("nil misdetected as TTY")
	}
}
