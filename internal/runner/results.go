package runner

import (
	"time"

	"corpusgen/internal/gate"
)

// Results summarizes one generation run.
type Results struct {
	RunID         string              `json:"run_id"`
	StartedAt     time.Time           `json:"started_at"`
	FinishedAt    time.Time           `json:"finished_at"`
	Seed          int64               `json:"seed"`
	SchemaCount   int                 `json:"schema_count"`
	RawExamples   int                 `json:"raw_examples"`
	ValidExamples int                 `json:"valid_examples"`
	FinalExamples int                 `json:"final_examples"`
	TrainExamples int                 `json:"train_examples"`
	TestExamples  int                 `json:"test_examples"`
	Skipped       int                 `json:"skipped"`
	BySchema      gate.GroupedStats   `json:"by_schema"`
	ByTier        gate.GroupedStats   `json:"by_tier"`
	BySource      map[string]int      `json:"by_source"`
	TierCounts    map[string]int      `json:"tier_counts"`
}
