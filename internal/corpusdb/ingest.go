package corpusdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"corpusgen/internal/consistency"
	"corpusgen/internal/corpus"
)

// CanonicalJSON returns deterministic JSON bytes for hashing and storage.
func CanonicalJSON(value interface{}) ([]byte, error) {
	normalized, err := normalizeJSON(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(normalized)
}

// FingerprintJSON returns a SHA-256 hex digest for the canonical JSON.
func FingerprintJSON(value interface{}) (string, error) {
	data, err := CanonicalJSON(value)
	if err != nil {
		return "", err
	}
	return fingerprintBytes(data), nil
}

func fingerprintBytes(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func normalizeJSON(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case json.RawMessage:
		var decoded interface{}
		if err := json.Unmarshal(v, &decoded); err != nil {
			return nil, fmt.Errorf("normalize json raw: %w", err)
		}
		return normalizeJSON(decoded)
	case []byte:
		var decoded interface{}
		if err := json.Unmarshal(v, &decoded); err != nil {
			return nil, fmt.Errorf("normalize json bytes: %w", err)
		}
		return normalizeJSON(decoded)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, inner := range v {
			norm, err := normalizeJSON(inner)
			if err != nil {
				return nil, err
			}
			out[k] = norm
		}
		return out, nil
	case []interface{}:
		out := make([]interface{}, len(v))
		for i := range v {
			norm, err := normalizeJSON(v[i])
			if err != nil {
				return nil, err
			}
			out[i] = norm
		}
		return out, nil
	default:
		return v, nil
	}
}

// UpsertCorpus inserts or reuses a corpus record keyed by the fingerprint of
// its metadata. Returns the corpus row id.
func UpsertCorpus(ctx context.Context, db *sql.DB, name string, meta corpus.Metadata) (string, error) {
	if ctx == nil {
		return "", errors.New("corpusdb: context is nil")
	}
	if db == nil {
		return "", errors.New("corpusdb: db is nil")
	}
	key, err := FingerprintJSON(map[string]interface{}{
		"name":   name,
		"run_id": meta.RunID,
		"seed":   meta.Seed,
	})
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := db.ExecContext(
		ctx,
		`INSERT INTO corpora (corpus_id, corpus_key, name, run_id, seed, num_schemas, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, now())
		 ON CONFLICT (corpus_key) DO NOTHING`,
		id,
		key,
		name,
		meta.RunID,
		meta.Seed,
		meta.NumSchemas,
	); err != nil {
		return "", fmt.Errorf("upsert corpus: %w", err)
	}
	var outID string
	row := db.QueryRowContext(ctx, `SELECT corpus_id FROM corpora WHERE corpus_key = ?`, key)
	if err := row.Scan(&outID); err != nil {
		return "", fmt.Errorf("lookup corpus id: %w", err)
	}
	return outID, nil
}

// InsertExamples loads one split's examples under a corpus. Each example's
// expected output is stored canonically and re-checked for arithmetic
// consistency at ingest time.
func InsertExamples(ctx context.Context, db *sql.DB, corpusID, split string, examples []corpus.Example) error {
	if db == nil {
		return errors.New("corpusdb: db is nil")
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin ingest tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO examples (example_id, corpus_id, schema_id, complexity, teacher, source,
		                       split, prompt, expected_output, output_key, consistent)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (corpus_id, example_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("prepare example insert: %w", err)
	}
	defer stmt.Close()

	for _, example := range examples {
		canonical, err := CanonicalJSON(example.ExpectedOutput)
		if err != nil {
			return fmt.Errorf("canonicalize %s: %w", example.ID, err)
		}
		consistent := true
		if consistency.Recognized(example.SchemaID) {
			consistent = consistency.Check(example.SchemaID, example.ExpectedOutput).Valid
		}
		if _, err := stmt.ExecContext(ctx,
			example.ID,
			corpusID,
			example.SchemaID,
			example.Complexity,
			example.Teacher,
			example.Source,
			split,
			example.Prompt,
			string(canonical),
			fingerprintBytes(canonical),
			consistent,
		); err != nil {
			return fmt.Errorf("insert example %s: %w", example.ID, err)
		}
	}
	return tx.Commit()
}
