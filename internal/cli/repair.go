package cli

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"corpusgen/internal/config"
	"corpusgen/internal/runner"
	"corpusgen/internal/schema"
)

// runRepair builds the handler for the repair command.
func runRepair(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "corpusgen.yml", "Path to config file")
		input := fs.String("input", "", "Corpus directory to repair")
		output := fs.String("output", "", "Destination directory (default: repair in place)")
		maxAttempts := fs.Int("max-attempts", 0, "Regeneration attempts per example (default: from config)")
		seed := fs.Int64("seed", 0, "Override the regeneration seed")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		if *input == "" {
			fmt.Fprintln(stderr, "--input is required")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		if *output == "" {
			*output = *input
		}

		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		attempts := cfg.Repair.MaxAttempts
		if *maxAttempts > 0 {
			attempts = *maxAttempts
		}
		repairSeed := cfg.Generation.Seed
		if *seed != 0 {
			repairSeed = *seed
		}

		catalog, err := schema.Load(cfg.SchemasRoot, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load schemas: %v\n", err)
			return ExitError
		}

		rng := rand.New(rand.NewSource(repairSeed))
		repairer := runner.NewRepairer(catalog, rng, attempts, stderr)

		residual := 0
		for _, name := range []string{"train.jsonl", "test.jsonl"} {
			inPath := filepath.Join(*input, name)
			outPath := filepath.Join(*output, name)
			if _, err := os.Stat(inPath); err != nil {
				continue
			}
			stats, err := repairer.RepairFile(inPath, outPath)
			if err != nil {
				fmt.Fprintf(stderr, "Repair failed for %s: %v\n", inPath, err)
				return ExitError
			}
			residual += stats.Residual
			printRepairStats(stdout, name, stats)
		}

		if residual > 0 {
			fmt.Fprintf(stdout, "\n%d examples remain inconsistent\n", residual)
			return ExitError
		}
		fmt.Fprintln(stdout, "\nCorpus is consistent")
		return ExitOK
	}
}

// printRepairStats renders one file's repair summary.
func printRepairStats(stdout io.Writer, name string, stats runner.RepairStats) {
	fmt.Fprintf(stdout, "%s: %d examples, %d clean, %d corrupted, %d regenerated, %d residual\n",
		name, stats.Total, stats.Clean, stats.Corrupted, stats.Regenerated, stats.Residual)
	if len(stats.CorruptedBySchema) == 0 {
		return
	}
	ids := make([]string, 0, len(stats.CorruptedBySchema))
	for id := range stats.CorruptedBySchema {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(stdout, "  %-20s %d corrupted\n", id, stats.CorruptedBySchema[id])
	}
}
