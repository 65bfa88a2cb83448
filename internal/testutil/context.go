// Package testutil provides shared test helpers: bounded contexts and
// schema catalog fixtures.
package testutil

import (
	"context"
	"testing"
	"time"
)

// DefaultTimeout bounds a single test's blocking operations.
const DefaultTimeout = 5 * time.Second

// Context returns a cancelable context for a test. A non-positive timeout
// selects DefaultTimeout; the test binary's own deadline always caps it.
func Context(t testing.TB, timeout time.Duration) context.Context {
	t.Helper()
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if dt, ok := t.(interface{ Deadline() (time.Time, bool) }); ok {
		if deadline, ok := dt.Deadline(); ok {
			// Leave a second for cleanup before the harness kills the test.
			remaining := time.Until(deadline) - time.Second
			if remaining > 0 && remaining < timeout {
				timeout = remaining
			}
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
