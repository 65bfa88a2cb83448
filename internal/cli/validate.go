package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"corpusgen/internal/consistency"
	"corpusgen/internal/corpus"
)

// maxReportedFailures bounds the failure detail section of the report.
const maxReportedFailures = 20

// schemaTally accumulates consistency results for one schema.
type schemaTally struct {
	Total int
	Valid int
}

// failureDetail records one inconsistent example for the report.
type failureDetail struct {
	File      string
	ExampleID string
	SchemaID  string
	Err       string
}

// runValidateCorpus builds the handler for the validate command.
func runValidateCorpus(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		input := fs.String("input", "data", "Corpus directory or JSONL file")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		files, err := corpusFiles(*input)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitError
		}

		tallies := make(map[string]*schemaTally)
		var failures []failureDetail
		total, valid := 0, 0
		for _, file := range files {
			examples, err := corpus.ReadJSONL(file)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to read %s: %v\n", file, err)
				return ExitError
			}
			for _, example := range examples {
				if !consistency.Recognized(example.SchemaID) {
					continue
				}
				tally, ok := tallies[example.SchemaID]
				if !ok {
					tally = &schemaTally{}
					tallies[example.SchemaID] = tally
				}
				tally.Total++
				total++
				verdict := consistency.Check(example.SchemaID, example.ExpectedOutput)
				if verdict.Valid {
					tally.Valid++
					valid++
					continue
				}
				failures = append(failures, failureDetail{
					File:      filepath.Base(file),
					ExampleID: example.ID,
					SchemaID:  example.SchemaID,
					Err:       verdict.Err,
				})
			}
		}

		printValidationReport(stdout, tallies, failures, total, valid)
		if valid < total {
			return ExitError
		}
		return ExitOK
	}
}

// corpusFiles resolves the input path to the JSONL files to check.
func corpusFiles(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}
	var files []string
	for _, name := range []string{"train.jsonl", "test.jsonl"} {
		path := filepath.Join(input, name)
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no train.jsonl or test.jsonl under %s", input)
	}
	return files, nil
}

// printValidationReport renders the consistency report.
func printValidationReport(stdout io.Writer, tallies map[string]*schemaTally, failures []failureDetail, total, valid int) {
	fmt.Fprintln(stdout, "Arithmetic consistency report")
	fmt.Fprintln(stdout, "=============================")

	ids := make([]string, 0, len(tallies))
	for id := range tallies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		tally := tallies[id]
		rate := 100.0
		if tally.Total > 0 {
			rate = 100 * float64(tally.Valid) / float64(tally.Total)
		}
		fmt.Fprintf(stdout, "  %-20s %d/%d valid (%.1f%%)\n", id, tally.Valid, tally.Total, rate)
	}
	if len(ids) == 0 {
		fmt.Fprintln(stdout, "  no examples with declared invariants found")
	}

	if len(failures) > 0 {
		fmt.Fprintf(stdout, "\nFailures (first %d):\n", maxReportedFailures)
		for i, failure := range failures {
			if i == maxReportedFailures {
				fmt.Fprintf(stdout, "  ... and %d more\n", len(failures)-maxReportedFailures)
				break
			}
			fmt.Fprintf(stdout, "  [%s] %s (%s): %s\n", failure.File, failure.ExampleID, failure.SchemaID, failure.Err)
		}
	}

	fmt.Fprintln(stdout)
	if valid == total {
		fmt.Fprintf(stdout, "VALIDATION PASSED: %d/%d examples consistent\n", valid, total)
	} else {
		fmt.Fprintf(stdout, "VALIDATION FAILED: %d/%d examples consistent\n", valid, total)
	}
}
