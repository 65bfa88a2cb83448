package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"corpusgen/internal/consistency"
	"corpusgen/internal/corpus"
)

// TestRepairCommandFixesCorpus verifies corrupted examples are regenerated
// in place and reported.
func TestRepairCommandFixesCorpus(t *testing.T) {
	configPath, _ := writeWorkspace(t)
	dir := writeCorpusDir(t,
		[]corpus.Example{cartExample("good", 20.0), cartExample("broken", 99.0)},
		[]corpus.Example{cartExample("alsogood", 20.0)},
	)

	var out, errOut bytes.Buffer
	code := Run([]string{"repair", "--config", configPath, "--input", dir}, &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr: %s)", ExitOK, code, errOut.String())
	}
	if !strings.Contains(out.String(), "1 regenerated") {
		t.Fatalf("expected regeneration summary, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Corpus is consistent") {
		t.Fatalf("expected consistency banner, got:\n%s", out.String())
	}

	train, err := corpus.ReadJSONL(filepath.Join(dir, "train.jsonl"))
	if err != nil {
		t.Fatalf("read repaired train: %v", err)
	}
	if len(train) != 2 || train[1].ID != "broken" {
		t.Fatalf("id sequence changed: %+v", train)
	}
	for _, example := range train {
		if verdict := consistency.Check(example.SchemaID, example.ExpectedOutput); !verdict.Valid {
			t.Fatalf("example %s still inconsistent: %s", example.ID, verdict.Err)
		}
	}
}

// TestRepairCommandSeparateOutput verifies --output leaves the input
// untouched.
func TestRepairCommandSeparateOutput(t *testing.T) {
	configPath, _ := writeWorkspace(t)
	dir := writeCorpusDir(t, []corpus.Example{cartExample("broken", 99.0)}, nil)
	outDir := t.TempDir()

	var out, errOut bytes.Buffer
	code := Run([]string{"repair", "--config", configPath, "--input", dir, "--output", outDir}, &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d (stderr: %s)", ExitOK, code, errOut.String())
	}

	original, err := corpus.ReadJSONL(filepath.Join(dir, "train.jsonl"))
	if err != nil {
		t.Fatalf("read original: %v", err)
	}
	if original[0].ExpectedOutput["total"] != 99.0 {
		t.Fatalf("input corpus was modified")
	}
	repaired, err := corpus.ReadJSONL(filepath.Join(outDir, "train.jsonl"))
	if err != nil {
		t.Fatalf("read repaired: %v", err)
	}
	if verdict := consistency.Check("shopping_cart", repaired[0].ExpectedOutput); !verdict.Valid {
		t.Fatalf("repaired output inconsistent: %s", verdict.Err)
	}
}

// TestRepairCommandRequiresInput verifies flag validation.
func TestRepairCommandRequiresInput(t *testing.T) {
	var out, errOut bytes.Buffer
	code := Run([]string{"repair"}, &out, &errOut)
	if code != ExitUsage {
		t.Fatalf("expected exit %d, got %d", ExitUsage, code)
	}
	if !strings.Contains(errOut.String(), "--input is required") {
		t.Fatalf("expected input requirement message, got %q", errOut.String())
	}
}
