package live

import "time"

// SchemaRow holds UI state for one schema's generation progress.
type SchemaRow struct {
	Index     int
	ID        string
	Tier      string
	Phase     string
	Generated int
	Kept      int
	Accepted  int
	Rejected  int
	Done      bool
}

// Counts aggregates progress across all schemas.
type Counts struct {
	Schemas  int
	Done     int
	Accepted int
	Rejected int
}

// State captures the live UI state for a generation run.
type State struct {
	RunID       string
	Phase       string
	StartedAt   time.Time
	LastWarning string
	Rows        []SchemaRow
	Counts      Counts
}
