package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"corpusgen/internal/corpus"
)

// OutputPaths locates the files produced by one run.
type OutputPaths struct {
	Dir string
}

// TrainPath returns the training split file path.
func (p OutputPaths) TrainPath() string { return filepath.Join(p.Dir, "train.jsonl") }

// TestPath returns the held-out split file path.
func (p OutputPaths) TestPath() string { return filepath.Join(p.Dir, "test.jsonl") }

// MetadataPath returns the provenance record file path.
func (p OutputPaths) MetadataPath() string { return filepath.Join(p.Dir, "metadata.json") }

// WriteOutputs persists both splits and the metadata record under dir.
func WriteOutputs(dir string, train, test []corpus.Example, meta corpus.Metadata) (OutputPaths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return OutputPaths{}, fmt.Errorf("create output dir: %w", err)
	}
	paths := OutputPaths{Dir: dir}
	if err := corpus.WriteJSONL(paths.TrainPath(), train); err != nil {
		return OutputPaths{}, fmt.Errorf("write train split: %w", err)
	}
	if err := corpus.WriteJSONL(paths.TestPath(), test); err != nil {
		return OutputPaths{}, fmt.Errorf("write test split: %w", err)
	}
	if err := corpus.WriteMetadata(paths.MetadataPath(), meta); err != nil {
		return OutputPaths{}, fmt.Errorf("write metadata: %w", err)
	}
	return paths, nil
}
