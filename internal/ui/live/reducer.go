package live

import (
	"time"

	"corpusgen/internal/runner"
)

// Reduce folds one pipeline event into the UI state.
func Reduce(state State, event runner.Event) State {
	switch event.Type {
	case runner.EventRunStart:
		state.RunID = event.RunID
		if state.StartedAt.IsZero() {
			state.StartedAt = time.Now()
		}
	case runner.EventPhaseStart:
		state.Phase = event.Phase
	case runner.EventSchemaStart:
		if event.SchemaID == "" {
			break
		}
		state = ensureRow(state, event.SchemaID, event.Tier)
		index := rowIndex(state, event.SchemaID)
		state.Rows[index].Phase = event.Phase
		state.Rows[index].Done = false
	case runner.EventExample:
		if event.SchemaID == "" {
			break
		}
		if event.Phase == runner.PhaseFilter {
			state = ensureRow(state, event.SchemaID, event.Tier)
			index := rowIndex(state, event.SchemaID)
			if event.Accepted {
				state.Rows[index].Accepted++
				state.Counts.Accepted++
			} else {
				state.Rows[index].Rejected++
				state.Counts.Rejected++
			}
			break
		}
		if event.Accepted {
			state = ensureRow(state, event.SchemaID, event.Tier)
			state.Rows[rowIndex(state, event.SchemaID)].Generated = event.Generated
		}
	case runner.EventSchemaEnd:
		if event.SchemaID == "" {
			break
		}
		state = ensureRow(state, event.SchemaID, event.Tier)
		index := rowIndex(state, event.SchemaID)
		state.Rows[index].Generated = event.Generated
		state.Rows[index].Kept += event.Kept
		if !state.Rows[index].Done {
			state.Rows[index].Done = true
			state.Counts.Done++
		}
	case runner.EventWarning:
		state.LastWarning = event.Message
	}
	state.Counts.Schemas = len(state.Rows)
	return state
}

// ensureRow appends a row for a schema id if one is not present yet.
func ensureRow(state State, schemaID, tier string) State {
	if schemaID == "" || rowIndex(state, schemaID) >= 0 {
		return state
	}
	state.Rows = append(state.Rows, SchemaRow{
		Index: len(state.Rows),
		ID:    schemaID,
		Tier:  tier,
	})
	return state
}

// rowIndex finds the row for a schema id, or -1.
func rowIndex(state State, schemaID string) int {
	for i, row := range state.Rows {
		if row.ID == schemaID {
			return i
		}
	}
	return -1
}
