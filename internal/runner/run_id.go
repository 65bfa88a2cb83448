package runner

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// Run ids look like 20250314T092653Z-deadbeef0102: a UTC timestamp plus six
// random bytes, sortable by start time and collision-safe across hosts.
const (
	runIDTimeLayout  = "20060102T150405Z"
	runIDSuffixBytes = 6
)

// NewRunID returns a fresh run identifier.
func NewRunID() (string, error) {
	return NewRunIDWithRand(time.Now().UTC(), rand.Reader)
}

// NewRunIDWithRand builds a run identifier from an explicit clock and
// randomness source, for tests.
func NewRunIDWithRand(now time.Time, r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("random reader is nil")
	}
	suffix := make([]byte, runIDSuffixBytes)
	if _, err := io.ReadFull(r, suffix); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return now.UTC().Format(runIDTimeLayout) + "-" + hex.EncodeToString(suffix), nil
}
