package runner

import "time"

// EventType identifies a pipeline lifecycle event for observers.
type EventType string

const (
	// EventRunStart signals the start of a generation run.
	EventRunStart EventType = "run_start"
	// EventPhaseStart signals the start of a pipeline phase.
	EventPhaseStart EventType = "phase_start"
	// EventSchemaStart signals the start of work on one schema.
	EventSchemaStart EventType = "schema_start"
	// EventExample reports the outcome of one candidate example.
	EventExample EventType = "example"
	// EventSchemaEnd signals completion of work on one schema.
	EventSchemaEnd EventType = "schema_end"
	// EventWarning carries a non-fatal diagnostic.
	EventWarning EventType = "warning"
	// EventRunEnd signals run completion.
	EventRunEnd EventType = "run_end"
)

// Phase names used with EventPhaseStart.
const (
	PhaseTemplate = "template generation"
	PhaseExternal = "external-teacher generation"
	PhaseFilter   = "quality filtering"
	PhaseBalance  = "balancing"
	PhaseSplit    = "train/test split"
	PhasePersist  = "persistence"
)

// Event carries one pipeline update.
type Event struct {
	Type      EventType
	RunID     string
	Phase     string
	SchemaID  string
	Tier      string
	Accepted  bool
	Reason    string
	Generated int
	Kept      int
	Message   string
	EmittedAt time.Time
}

// Observer receives pipeline lifecycle events for UI or logging. Events are
// emitted from the generation goroutine in order.
type Observer interface {
	Observe(Event)
}

// NopObserver discards all events.
type NopObserver struct{}

// Observe implements Observer.
func (NopObserver) Observe(Event) {}
