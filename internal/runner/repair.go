package runner

import (
	"fmt"
	"io"
	"math/rand"

	"corpusgen/internal/consistency"
	"corpusgen/internal/corpus"
	"corpusgen/internal/schema"
	"corpusgen/internal/synth"
)

// DefaultRepairAttempts bounds regeneration retries per corrupted example.
const DefaultRepairAttempts = 3

// RepairStats summarizes one selective-repair pass.
type RepairStats struct {
	Total             int            `json:"total"`
	Clean             int            `json:"clean"`
	Corrupted         int            `json:"corrupted"`
	Regenerated       int            `json:"regenerated"`
	Residual          int            `json:"residual"`
	CorruptedBySchema map[string]int `json:"corrupted_by_schema"`
}

// Repairer regenerates examples that fail their schema's arithmetic
// invariants, in place, preserving ids and corpus size.
type Repairer struct {
	catalog     *schema.Catalog
	synth       *synth.Synthesizer
	maxAttempts int
	diag        io.Writer
}

// NewRepairer builds a repairer over a loaded catalog. A non-positive
// maxAttempts falls back to DefaultRepairAttempts.
func NewRepairer(catalog *schema.Catalog, rng *rand.Rand, maxAttempts int, diag io.Writer) *Repairer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultRepairAttempts
	}
	if diag == nil {
		diag = io.Discard
	}
	return &Repairer{
		catalog:     catalog,
		synth:       synth.New(rng),
		maxAttempts: maxAttempts,
		diag:        diag,
	}
}

// Repair scans examples in order and regenerates the corrupted ones. The
// returned slice has the same length and id sequence as the input; examples
// that could not be repaired within the attempt budget are kept as-is and
// counted as residual.
func (r *Repairer) Repair(examples []corpus.Example) ([]corpus.Example, RepairStats) {
	stats := RepairStats{
		Total:             len(examples),
		CorruptedBySchema: make(map[string]int),
	}
	repaired := make([]corpus.Example, len(examples))
	for i, example := range examples {
		if !consistency.Recognized(example.SchemaID) {
			stats.Clean++
			repaired[i] = example
			continue
		}
		verdict := consistency.Check(example.SchemaID, example.ExpectedOutput)
		if verdict.Valid {
			stats.Clean++
			repaired[i] = example
			continue
		}
		stats.Corrupted++
		stats.CorruptedBySchema[example.SchemaID]++

		replacement, err := r.regenerate(example)
		if err != nil {
			stats.Residual++
			fmt.Fprintf(r.diag, "Warning: could not repair %s: %v\n", example.ID, err)
			repaired[i] = example
			continue
		}
		stats.Regenerated++
		repaired[i] = replacement
	}
	return repaired, stats
}

// regenerate synthesizes a replacement for one corrupted example, keeping
// its identity and tier but re-deriving prompt and output from a template.
func (r *Repairer) regenerate(example corpus.Example) (corpus.Example, error) {
	desc, err := r.catalog.Get(example.SchemaID)
	if err != nil {
		return corpus.Example{}, err
	}
	var lastErr string
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		value, err := r.synth.Synthesize(desc.Doc)
		if err != nil {
			return corpus.Example{}, err
		}
		consistency.Reconcile(desc.ID, value)
		verdict := consistency.Check(desc.ID, value)
		if !verdict.Valid {
			lastErr = verdict.Err
			continue
		}
		example.Prompt = synth.RenderPrompt(desc.ID, value, desc.Doc)
		example.ExpectedOutput = value
		example.Teacher = corpus.TemplateTeacher
		example.Source = corpus.SourceTemplate
		return example, nil
	}
	return corpus.Example{}, fmt.Errorf("still inconsistent after %d attempts: %s", r.maxAttempts, lastErr)
}

// RepairFile repairs one JSONL corpus file path-to-path. inPath and outPath
// may be the same file.
func (r *Repairer) RepairFile(inPath, outPath string) (RepairStats, error) {
	examples, err := corpus.ReadJSONL(inPath)
	if err != nil {
		return RepairStats{}, err
	}
	repaired, stats := r.Repair(examples)
	if err := corpus.WriteJSONL(outPath, repaired); err != nil {
		return stats, err
	}
	return stats, nil
}
