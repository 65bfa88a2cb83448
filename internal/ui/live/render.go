package live

import (
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the run header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	elapsed := ""
	if !state.StartedAt.IsZero() {
		elapsed = now.Sub(state.StartedAt).Round(100 * time.Millisecond).String()
	}
	line := "Run " + state.RunID
	if state.Phase != "" {
		line += " | Phase: " + state.Phase
	}
	if elapsed != "" {
		line += " | Elapsed: " + elapsed
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the progress counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Schemas: " + fmtInt(counts.Done) + "/" + fmtInt(counts.Schemas) +
		" Accepted: " + fmtInt(counts.Accepted) +
		" Rejected: " + fmtInt(counts.Rejected)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderFooter renders the last warning line.
func renderFooter(state State, noColor bool) string {
	if state.LastWarning == "" {
		return ""
	}
	return stylize("Warning: "+state.LastWarning, noColor, lipgloss.Color("196"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatDone renders the per-row completion marker.
func formatDone(done bool) string {
	if done {
		return "ok"
	}
	return ""
}
