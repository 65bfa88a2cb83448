package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Metadata records corpus-level provenance alongside the split files.
type Metadata struct {
	RunID             string    `json:"run_id"`
	GeneratedAt       time.Time `json:"generated_at"`
	TotalExamples     int       `json:"total_examples"`
	TrainExamples     int       `json:"train_examples"`
	TestExamples      int       `json:"test_examples"`
	NumSchemas        int       `json:"num_schemas"`
	Schemas           []string  `json:"schemas"`
	ExamplesPerSchema int       `json:"examples_per_schema"`
	PerSchemaTarget   int       `json:"per_schema_target"`
	TemplateRatio     float64   `json:"template_ratio"`
	Seed              int64     `json:"seed"`
}

// WriteMetadata writes the metadata record as pretty JSON.
func WriteMetadata(path string, metadata Metadata) error {
	payload, err := json.MarshalIndent(metadata, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// ReadMetadata loads a metadata record.
func ReadMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("read metadata: %w", err)
	}
	var metadata Metadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return Metadata{}, fmt.Errorf("parse metadata: %w", err)
	}
	return metadata, nil
}
