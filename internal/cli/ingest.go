package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"corpusgen/internal/corpus"
	"corpusgen/internal/corpusdb"
)

// runIngest builds the handler for the ingest command.
func runIngest(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		input := fs.String("input", "data", "Corpus directory to ingest")
		dbPath := fs.String("db", "corpus.duckdb", "DuckDB database file")
		name := fs.String("name", "", "Corpus name (default: input directory name)")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}
		corpusName := *name
		if corpusName == "" {
			corpusName = filepath.Base(*input)
		}

		meta, err := corpus.ReadMetadata(filepath.Join(*input, "metadata.json"))
		if err != nil {
			fmt.Fprintf(stderr, "Failed to read metadata: %v\n", err)
			return ExitError
		}

		db, err := corpusdb.Open(*dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open database: %v\n", err)
			return ExitError
		}
		defer db.Close()
		if err := corpusdb.EnsureSchema(db); err != nil {
			fmt.Fprintf(stderr, "Failed to apply schema: %v\n", err)
			return ExitError
		}

		ctx := context.Background()
		corpusID, err := corpusdb.UpsertCorpus(ctx, db, corpusName, meta)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to register corpus: %v\n", err)
			return ExitError
		}

		total := 0
		for _, split := range []string{"train", "test"} {
			examples, err := corpus.ReadJSONL(filepath.Join(*input, split+".jsonl"))
			if err != nil {
				fmt.Fprintf(stderr, "Failed to read %s split: %v\n", split, err)
				return ExitError
			}
			if err := corpusdb.InsertExamples(ctx, db, corpusID, split, examples); err != nil {
				fmt.Fprintf(stderr, "Failed to ingest %s split: %v\n", split, err)
				return ExitError
			}
			total += len(examples)
		}

		fmt.Fprintf(stdout, "Ingested %d examples into %s as corpus %s\n", total, *dbPath, corpusID)
		return ExitOK
	}
}
