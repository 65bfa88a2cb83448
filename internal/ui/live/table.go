package live

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the schema progress table layout.
func defaultColumns() []table.Column {
	return []table.Column{
		{Title: "Schema", Width: 28},
		{Title: "Tier", Width: 8},
		{Title: "Phase", Width: 26},
		{Title: "Generated", Width: 10},
		{Title: "Accepted", Width: 9},
		{Title: "Rejected", Width: 9},
		{Title: "", Width: 4},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			row.ID,
			row.Tier,
			row.Phase,
			fmtInt(row.Generated),
			fmtInt(row.Accepted),
			fmtInt(row.Rejected),
			formatDone(row.Done),
		})
	}
	return rows
}
