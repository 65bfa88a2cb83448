package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// uiModeDecision is the resolved progress-display choice for a run.
type uiModeDecision struct {
	useLive bool
	warning string
}

// isTerminal is swappable in tests.
var isTerminal = defaultIsTerminal

// resolveUIMode maps the --ui flag to a display decision. Empty means auto.
func resolveUIMode(mode string, stdout io.Writer) (uiModeDecision, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return uiModeDecision{useLive: isTerminal(stdout)}, nil
	case "live":
		if !isTerminal(stdout) {
			return uiModeDecision{
				warning: "Live UI requested but stdout is not a TTY; falling back to plain output.",
			}, nil
		}
		return uiModeDecision{useLive: true}, nil
	case "plain":
		return uiModeDecision{}, nil
	default:
		return uiModeDecision{}, fmt.Errorf("invalid ui mode %q (expected auto|live|plain)", mode)
	}
}

// defaultIsTerminal reports whether the writer is backed by a terminal.
func defaultIsTerminal(stdout io.Writer) bool {
	type fder interface{ Fd() uintptr }
	switch w := stdout.(type) {
	case nil:
		return false
	case *os.File:
		return term.IsTerminal(int(w.Fd()))
	case fder:
		return term.IsTerminal(int(w.Fd()))
	default:
		return false
	}
}
