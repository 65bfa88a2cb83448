package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"corpusgen/internal/consistency"
	"corpusgen/internal/corpus"
	"corpusgen/internal/gate"
	"corpusgen/internal/schema"
	"corpusgen/internal/spec"
	"corpusgen/internal/teacher"
	"corpusgen/internal/testutil"
)

func testConfig(t *testing.T, schemasRoot string) spec.Config {
	t.Helper()
	return spec.Config{
		Version:     1,
		SchemasRoot: schemasRoot,
		OutputDir:   filepath.Join(t.TempDir(), "data"),
		Generation: spec.GenerationConfig{
			ExamplesPerSchema: 10,
			TemplateRatio:     1.0,
			TargetTotal:       16,
			Seed:              42,
		},
		Repair: spec.RepairConfig{MaxAttempts: 3},
	}
}

// recordingObserver captures the event stream for assertions.
type recordingObserver struct {
	events []Event
}

func (r *recordingObserver) Observe(event Event) {
	r.events = append(r.events, event)
}

// TestRunTemplateOnly verifies the full template pipeline: synthesis, gate,
// balance, split, and persistence.
func TestRunTemplateOnly(t *testing.T) {
	cfg := testConfig(t, testutil.WriteSchemaFixture(t))
	observer := &recordingObserver{}
	ctx := testutil.Context(t, 30*time.Second)

	results, paths, err := Run(ctx, cfg, RunParams{Observer: observer})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if results.SchemaCount != 2 {
		t.Fatalf("expected 2 schemas, got %d", results.SchemaCount)
	}
	if results.RawExamples != 20 {
		t.Fatalf("expected 20 raw examples, got %d", results.RawExamples)
	}
	if results.FinalExamples != 16 {
		t.Fatalf("expected 16 final examples, got %d", results.FinalExamples)
	}
	if results.TrainExamples != 12 || results.TestExamples != 4 {
		t.Fatalf("expected 12/4 split, got %d/%d", results.TrainExamples, results.TestExamples)
	}
	if results.BySource[corpus.SourceTemplate] != 16 {
		t.Fatalf("expected all template sourced, got %v", results.BySource)
	}

	train, err := corpus.ReadJSONL(paths.TrainPath())
	if err != nil {
		t.Fatalf("read train: %v", err)
	}
	test, err := corpus.ReadJSONL(paths.TestPath())
	if err != nil {
		t.Fatalf("read test: %v", err)
	}
	if len(train) != 12 || len(test) != 4 {
		t.Fatalf("persisted split sizes wrong: %d/%d", len(train), len(test))
	}
	for _, example := range append(append([]corpus.Example{}, train...), test...) {
		if example.ID == "" || example.SchemaID == "" || example.Prompt == "" {
			t.Fatalf("incomplete example: %+v", example)
		}
		if example.ExpectedOutput == nil {
			t.Fatalf("example %s missing expected output", example.ID)
		}
		if verdict := consistency.Check(example.SchemaID, example.ExpectedOutput); !verdict.Valid {
			t.Fatalf("example %s inconsistent: %s", example.ID, verdict.Err)
		}
	}

	meta, err := corpus.ReadMetadata(paths.MetadataPath())
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	if meta.RunID != results.RunID {
		t.Fatalf("metadata run id %q does not match results %q", meta.RunID, results.RunID)
	}
	if meta.TotalExamples != 16 || meta.NumSchemas != 2 || meta.Seed != 42 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}

	if len(observer.events) == 0 {
		t.Fatalf("expected observer events")
	}
	if observer.events[0].Type != EventRunStart {
		t.Fatalf("expected run_start first, got %s", observer.events[0].Type)
	}
	if observer.events[len(observer.events)-1].Type != EventRunEnd {
		t.Fatalf("expected run_end last, got %s", observer.events[len(observer.events)-1].Type)
	}
}

// TestRunDeterministicOutputs verifies identical seeds produce identical
// corpus files.
func TestRunDeterministicOutputs(t *testing.T) {
	root := testutil.WriteSchemaFixture(t)
	ctx := testutil.Context(t, 30*time.Second)

	read := func(dir string) []byte {
		cfg := testConfig(t, root)
		cfg.OutputDir = dir
		_, paths, err := Run(ctx, cfg, RunParams{})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		data, err := os.ReadFile(paths.TrainPath())
		if err != nil {
			t.Fatalf("read train: %v", err)
		}
		return data
	}

	first := read(filepath.Join(t.TempDir(), "a"))
	second := read(filepath.Join(t.TempDir(), "b"))
	if !bytes.Equal(first, second) {
		t.Fatalf("same seed produced different corpora")
	}
}

// stubTeacher returns canned completions per schema batch.
type stubTeacher struct {
	completion string
	calls      int
	fail       bool
}

func (s *stubTeacher) GenerateCompletions(ctx context.Context, backend teacher.Backend, prompts []string, schemaRaw []byte) ([]string, error) {
	s.calls++
	if s.fail {
		return nil, fmt.Errorf("backend down")
	}
	completions := make([]string, len(prompts))
	for i := range prompts {
		completions[i] = s.completion
	}
	return completions, nil
}

const sensorSchema = `{
  "title": "Sensor Reading",
  "type": "object",
  "properties": {
    "reading": {"type": "number"},
    "active": {"type": "boolean"}
  },
  "required": ["reading", "active"]
}`

// TestRunExternalPhase verifies externally taught examples join the corpus
// with their source and teacher labels.
func TestRunExternalPhase(t *testing.T) {
	root := t.TempDir()
	testutil.WriteSchema(t, root, "simple", "iot_sensor_reading", sensorSchema)

	cfg := testConfig(t, root)
	cfg.Generation.TemplateRatio = 0.5
	cfg.Generation.TargetTotal = 10
	stub := &stubTeacher{completion: `{"reading": 5.5, "active": true}`}
	ctx := testutil.Context(t, 30*time.Second)

	results, paths, err := Run(ctx, cfg, RunParams{Teacher: stub})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one batch call, got %d", stub.calls)
	}
	if results.BySource[corpus.SourceExternal] == 0 {
		t.Fatalf("expected external examples, got %v", results.BySource)
	}

	train, err := corpus.ReadJSONL(paths.TrainPath())
	if err != nil {
		t.Fatalf("read train: %v", err)
	}
	foundExternal := false
	for _, example := range train {
		if example.Source == corpus.SourceExternal {
			foundExternal = true
			if example.Teacher != string(teacher.BackendPhi4) {
				t.Fatalf("expected phi4 teacher for sensor schema, got %s", example.Teacher)
			}
			if example.ExpectedOutput["reading"] != 5.5 {
				t.Fatalf("expected cleaned output stored, got %v", example.ExpectedOutput)
			}
		}
	}
	if !foundExternal && len(train) > 0 {
		// The split may have put all external examples into test; check there.
		test, err := corpus.ReadJSONL(paths.TestPath())
		if err != nil {
			t.Fatalf("read test: %v", err)
		}
		for _, example := range test {
			if example.Source == corpus.SourceExternal {
				foundExternal = true
			}
		}
	}
	if !foundExternal {
		t.Fatalf("no external example persisted")
	}
}

// TestRunExternalBatchFailureIsNonFatal verifies a failed batch only costs
// that schema's external share.
func TestRunExternalBatchFailureIsNonFatal(t *testing.T) {
	cfg := testConfig(t, testutil.WriteSchemaFixture(t))
	cfg.Generation.TemplateRatio = 0.5
	stub := &stubTeacher{fail: true}
	var diag bytes.Buffer
	ctx := testutil.Context(t, 30*time.Second)

	results, _, err := Run(ctx, cfg, RunParams{Teacher: stub, Diag: &diag})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if results.BySource[corpus.SourceExternal] != 0 {
		t.Fatalf("expected no external examples, got %v", results.BySource)
	}
	if results.BySource[corpus.SourceTemplate] == 0 {
		t.Fatalf("expected template examples to survive")
	}
	if !bytes.Contains(diag.Bytes(), []byte("Warning: external batch failed")) {
		t.Fatalf("expected batch warning, got %q", diag.String())
	}
}

// TestScreenRejectsInconsistentArithmetic verifies gate-valid outputs that
// break their schema's arithmetic are rejected under the declared reason.
func TestScreenRejectsInconsistentArithmetic(t *testing.T) {
	root := testutil.WriteSchemaFixture(t)
	catalog, err := schema.Load(root, io.Discard)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	desc, err := catalog.Get("shopping_cart")
	if err != nil {
		t.Fatalf("get schema: %v", err)
	}
	g := &generator{diag: io.Discard}
	schemaGate := gate.New(desc.Compiled, 0)
	prompt := "Cart CX-9 holds 2 units of Steel Bottle at 10.00 each. Subtotal 20.00, total 55.00."

	bad := candidate{
		example:   corpus.Example{ID: "corpus_shopping_cart_qwen_000", SchemaID: "shopping_cart", Prompt: prompt},
		rawOutput: `{"cart_id": "CX-9", "items": [{"product_name": "Steel Bottle", "quantity": 2, "price": 10.0}], "subtotal": 20.0, "total": 55.0}`,
	}
	verdict, keep := g.screen(schemaGate, "shopping_cart", bad)
	if keep {
		t.Fatalf("inconsistent total accepted")
	}
	if verdict.Reason != gate.ReasonInconsistent {
		t.Fatalf("reason = %q, want %q", verdict.Reason, gate.ReasonInconsistent)
	}

	good := bad
	good.rawOutput = `{"cart_id": "CX-9", "items": [{"product_name": "Steel Bottle", "quantity": 2, "price": 10.0}], "subtotal": 20.0, "total": 20.0}`
	if _, keep := g.screen(schemaGate, "shopping_cart", good); !keep {
		t.Fatalf("consistent cart rejected")
	}
}

// TestRunEmptyCatalogFails verifies an empty schemas root is an error.
func TestRunEmptyCatalogFails(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	ctx := testutil.Context(t, 10*time.Second)
	if _, _, err := Run(ctx, cfg, RunParams{}); err == nil {
		t.Fatalf("expected error for empty catalog")
	}
}
