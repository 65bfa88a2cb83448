package cucumber

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"corpusgen/internal/cli"
	"corpusgen/internal/corpus"
	"corpusgen/internal/testutil"

	"github.com/cucumber/godog"
)

type featureState struct {
	workDir     string
	previousWD  string
	stdout      bytes.Buffer
	stderr      bytes.Buffer
	exitCode    int
	initialized bool
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	state := &featureState{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		state.cleanup()
		return ctx, nil
	})

	ctx.Step(`^a workspace with a generation config and two schemas$`, state.aWorkspaceWithConfigAndSchemas)
	ctx.Step(`^a generated corpus$`, state.aGeneratedCorpus)
	ctx.Step(`^one example's total is corrupted$`, state.oneExamplesTotalIsCorrupted)
	ctx.Step(`^I run "([^"]+)"$`, state.iRunCommand)
	ctx.Step(`^the exit code is zero$`, state.theExitCodeIsZero)
	ctx.Step(`^the exit code is non-zero$`, state.theExitCodeIsNonZero)
	ctx.Step(`^the output contains "([^"]+)"$`, state.theOutputContains)
	ctx.Step(`^the output lists these commands:$`, state.theOutputListsCommands)
	ctx.Step(`^the corpus files exist$`, state.theCorpusFilesExist)
}

func (s *featureState) reset() {
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = 0
	s.initialized = false
}

func (s *featureState) cleanup() {
	if s.previousWD != "" {
		_ = os.Chdir(s.previousWD)
		s.previousWD = ""
	}
	if s.workDir != "" {
		_ = os.RemoveAll(s.workDir)
		s.workDir = ""
	}
}

func (s *featureState) aWorkspaceWithConfigAndSchemas() error {
	if s.initialized {
		return nil
	}
	dir, err := os.MkdirTemp("", "corpusgen-feature-*")
	if err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	s.workDir = dir

	files := []struct {
		rel  string
		body string
	}{
		{filepath.Join("schemas", "simple", "user_profile.json"), testutil.UserProfileSchema},
		{filepath.Join("schemas", "medium", "shopping_cart.json"), testutil.ShoppingCartSchema},
		{"corpusgen.yml", workspaceConfig},
	}
	for _, file := range files {
		path := filepath.Join(dir, file.rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create %s: %w", filepath.Dir(file.rel), err)
		}
		if err := os.WriteFile(path, []byte(file.body), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", file.rel, err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working dir: %w", err)
	}
	s.previousWD = wd
	if err := os.Chdir(dir); err != nil {
		return fmt.Errorf("chdir: %w", err)
	}
	s.initialized = true
	return nil
}

func (s *featureState) aGeneratedCorpus() error {
	if err := s.aWorkspaceWithConfigAndSchemas(); err != nil {
		return err
	}
	if err := s.iRunCommand("corpusgen generate --ui plain"); err != nil {
		return err
	}
	if s.exitCode != 0 {
		return fmt.Errorf("generation failed with exit %d: %s", s.exitCode, s.stderr.String())
	}
	return nil
}

// oneExamplesTotalIsCorrupted rewrites the first shopping cart example it
// finds with an impossible total.
func (s *featureState) oneExamplesTotalIsCorrupted() error {
	for _, file := range []string{"train.jsonl", "test.jsonl"} {
		path := filepath.Join(s.workDir, "data", file)
		examples, err := corpus.ReadJSONL(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", file, err)
		}
		for i := range examples {
			if examples[i].SchemaID != "shopping_cart" {
				continue
			}
			examples[i].ExpectedOutput["total"] = 999999.0
			return corpus.WriteJSONL(path, examples)
		}
	}
	return fmt.Errorf("no shopping_cart example found to corrupt")
}

func (s *featureState) iRunCommand(command string) error {
	args := strings.Fields(command)
	if len(args) == 0 {
		return fmt.Errorf("command is empty")
	}
	if args[0] == "corpusgen" {
		args = args[1:]
	}
	s.stdout.Reset()
	s.stderr.Reset()
	s.exitCode = cli.Run(args, &s.stdout, &s.stderr)
	return nil
}

func (s *featureState) theExitCodeIsZero() error {
	if s.exitCode != 0 {
		return fmt.Errorf("expected exit 0, got %d (stderr: %s)", s.exitCode, s.stderr.String())
	}
	return nil
}

func (s *featureState) theExitCodeIsNonZero() error {
	if s.exitCode == 0 {
		return fmt.Errorf("expected non-zero exit code")
	}
	return nil
}

func (s *featureState) theOutputContains(text string) error {
	if !strings.Contains(s.stdout.String(), text) {
		return fmt.Errorf("expected %q in output, got %q", text, s.stdout.String())
	}
	return nil
}

func (s *featureState) theOutputListsCommands(table *godog.Table) error {
	output := s.stdout.String()
	for _, row := range table.Rows {
		for _, cell := range row.Cells {
			command := strings.TrimSpace(cell.Value)
			if command == "" {
				continue
			}
			if !strings.Contains(output, command) {
				return fmt.Errorf("expected command %q in output", command)
			}
		}
	}
	return nil
}

func (s *featureState) theCorpusFilesExist() error {
	for _, file := range []string{"train.jsonl", "test.jsonl", "metadata.json"} {
		path := filepath.Join(s.workDir, "data", file)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("expected %s: %w", file, err)
		}
	}
	return nil
}

const workspaceConfig = `version: 1
schemas_root: "schemas"
output_dir: "data"
generation:
  examples_per_schema: 6
  template_ratio: 1.0
  target_total: 10
  seed: 42
`

