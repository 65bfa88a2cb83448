package corpusdb_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"corpusgen/internal/corpus"
	"corpusgen/internal/corpusdb"
	"corpusgen/internal/testutil"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := corpusdb.Open(filepath.Join(t.TempDir(), "corpus.duckdb"))
	if err != nil {
		t.Fatalf("open duckdb: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := corpusdb.EnsureSchema(db); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	return db
}

func testMetadata() corpus.Metadata {
	return corpus.Metadata{
		RunID:         "20250314T092653Z-deadbeef0102",
		GeneratedAt:   time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		TotalExamples: 2,
		TrainExamples: 1,
		TestExamples:  1,
		NumSchemas:    1,
		Schemas:       []string{"shopping_cart"},
		Seed:          42,
	}
}

// TestCanonicalJSONIsKeyOrderIndependent verifies equivalent documents hash
// identically regardless of map construction order.
func TestCanonicalJSONIsKeyOrderIndependent(t *testing.T) {
	first, err := corpusdb.FingerprintJSON([]byte(`{"b": 2, "a": {"y": true, "x": [1, 2]}}`))
	if err != nil {
		t.Fatalf("fingerprint first: %v", err)
	}
	second, err := corpusdb.FingerprintJSON(map[string]interface{}{
		"a": map[string]interface{}{"x": []interface{}{1.0, 2.0}, "y": true},
		"b": 2.0,
	})
	if err != nil {
		t.Fatalf("fingerprint second: %v", err)
	}
	if first != second {
		t.Fatalf("fingerprints differ: %s vs %s", first, second)
	}

	other, err := corpusdb.FingerprintJSON(map[string]interface{}{"a": 1.0})
	if err != nil {
		t.Fatalf("fingerprint other: %v", err)
	}
	if other == first {
		t.Fatalf("distinct documents produced identical fingerprints")
	}
}

// TestCanonicalJSONRejectsInvalid verifies malformed raw JSON errors instead
// of being stored.
func TestCanonicalJSONRejectsInvalid(t *testing.T) {
	if _, err := corpusdb.CanonicalJSON([]byte(`{invalid}`)); err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
}

// TestUpsertCorpusIsIdempotent verifies repeated ingestion of the same run
// reuses the existing corpus row.
func TestUpsertCorpusIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := testutil.Context(t, 0)
	meta := testMetadata()

	first, err := corpusdb.UpsertCorpus(ctx, db, "nightly", meta)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := corpusdb.UpsertCorpus(ctx, db, "nightly", meta)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if first != second {
		t.Fatalf("expected stable corpus id, got %s then %s", first, second)
	}

	other, err := corpusdb.UpsertCorpus(ctx, db, "weekly", meta)
	if err != nil {
		t.Fatalf("other upsert: %v", err)
	}
	if other == first {
		t.Fatalf("distinct corpus names mapped to one row")
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT count(*) FROM corpora").Scan(&count); err != nil {
		t.Fatalf("count corpora: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 corpora, got %d", count)
	}
}

// TestInsertExamplesStoresSplitsAndConsistency verifies examples land under
// the right split and that arithmetic consistency is re-checked at ingest.
func TestInsertExamplesStoresSplitsAndConsistency(t *testing.T) {
	db := openTestDB(t)
	ctx := testutil.Context(t, 0)

	corpusID, err := corpusdb.UpsertCorpus(ctx, db, "nightly", testMetadata())
	if err != nil {
		t.Fatalf("upsert corpus: %v", err)
	}

	good := corpus.Example{
		ID:         "corpus_shopping_cart_template_001",
		SchemaID:   "shopping_cart",
		Complexity: "medium",
		Teacher:    corpus.TemplateTeacher,
		Source:     corpus.SourceTemplate,
		Prompt:     "Cart CX-1 holds 2 units at 10.00 each.",
		ExpectedOutput: map[string]interface{}{
			"cart_id": "CX-1",
			"items": []interface{}{
				map[string]interface{}{"product_name": "Widget", "quantity": 2.0, "price": 10.0},
			},
			"subtotal": 20.0,
			"total":    20.0,
		},
	}
	bad := good
	bad.ID = "corpus_shopping_cart_template_002"
	bad.ExpectedOutput = map[string]interface{}{
		"cart_id": "CX-2",
		"items": []interface{}{
			map[string]interface{}{"product_name": "Widget", "quantity": 2.0, "price": 10.0},
		},
		"subtotal": 20.0,
		"total":    55.0,
	}

	if err := corpusdb.InsertExamples(ctx, db, corpusID, "train", []corpus.Example{good, bad}); err != nil {
		t.Fatalf("insert train: %v", err)
	}
	if err := corpusdb.InsertExamples(ctx, db, corpusID, "test", []corpus.Example{{
		ID:             "corpus_sensor_template_001",
		SchemaID:       "sensor_reading",
		Complexity:     "simple",
		Teacher:        corpus.TemplateTeacher,
		Source:         corpus.SourceTemplate,
		Prompt:         "Reading 5.5 while active.",
		ExpectedOutput: map[string]interface{}{"reading": 5.5, "active": true},
	}}); err != nil {
		t.Fatalf("insert test: %v", err)
	}

	var trainCount, testCount int
	if err := db.QueryRowContext(ctx,
		"SELECT count(*) FROM examples WHERE split = 'train'").Scan(&trainCount); err != nil {
		t.Fatalf("count train: %v", err)
	}
	if err := db.QueryRowContext(ctx,
		"SELECT count(*) FROM examples WHERE split = 'test'").Scan(&testCount); err != nil {
		t.Fatalf("count test: %v", err)
	}
	if trainCount != 2 || testCount != 1 {
		t.Fatalf("expected 2 train and 1 test rows, got %d and %d", trainCount, testCount)
	}

	var consistent bool
	if err := db.QueryRowContext(ctx,
		"SELECT consistent FROM examples WHERE example_id = ?", bad.ID).Scan(&consistent); err != nil {
		t.Fatalf("read consistency: %v", err)
	}
	if consistent {
		t.Fatalf("expected inconsistent total to be flagged")
	}
	if err := db.QueryRowContext(ctx,
		"SELECT consistent FROM examples WHERE example_id = 'corpus_sensor_template_001'").Scan(&consistent); err != nil {
		t.Fatalf("read sensor consistency: %v", err)
	}
	if !consistent {
		t.Fatalf("schemas without arithmetic invariants should ingest as consistent")
	}

	// Re-ingesting the same split must not duplicate rows.
	if err := corpusdb.InsertExamples(ctx, db, corpusID, "train", []corpus.Example{good}); err != nil {
		t.Fatalf("reinsert train: %v", err)
	}
	if err := db.QueryRowContext(ctx,
		"SELECT count(*) FROM examples WHERE split = 'train'").Scan(&trainCount); err != nil {
		t.Fatalf("recount train: %v", err)
	}
	if trainCount != 2 {
		t.Fatalf("expected reinsert to be a no-op, got %d rows", trainCount)
	}

	var schemaExamples int
	if err := db.QueryRowContext(ctx,
		"SELECT examples FROM v_schema_counts WHERE schema_id = 'shopping_cart' AND split = 'train'").
		Scan(&schemaExamples); err != nil {
		t.Fatalf("read schema counts view: %v", err)
	}
	if schemaExamples != 2 {
		t.Fatalf("expected view to report 2 examples, got %d", schemaExamples)
	}
}
