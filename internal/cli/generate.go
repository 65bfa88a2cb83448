package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"corpusgen/internal/config"
	"corpusgen/internal/runner"
	"corpusgen/internal/spec"
	"corpusgen/internal/teacher"
	"corpusgen/internal/ui/live"
)

var runPipeline = runner.Run

// runGenerate builds the handler for the generate command.
func runGenerate(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "corpusgen.yml", "Path to config file")
		outputDir := fs.String("output-dir", "", "Override output directory")
		seed := fs.Int64("seed", 0, "Override the generation seed")
		uiMode := fs.String("ui", "auto", "Progress UI mode: auto, live, or plain")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		decision, err := resolveUIMode(*uiMode, stdout)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		client, err := teacherClient(cfg, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to configure teachers: %v\n", err)
			return ExitError
		}

		params := runner.RunParams{
			OutputDir: *outputDir,
			Seed:      *seed,
			Teacher:   client,
			Diag:      stderr,
		}
		var controller *live.Controller
		if decision.useLive {
			controller = live.Start(stdout, live.Options{})
			params.Observer = controller
		}

		results, paths, err := runPipeline(context.Background(), cfg, params)
		if controller != nil {
			controller.Close()
			controller.Wait()
		}
		if err != nil {
			fmt.Fprintf(stderr, "Generation failed: %v\n", err)
			return ExitError
		}

		printRunSummary(stdout, results, paths)
		return ExitOK
	}
}

// teacherClient builds the external backend client when teachers are
// configured and credentials are present. Without credentials the run is
// template-only, with a note.
func teacherClient(cfg spec.Config, stderr io.Writer) (runner.TeacherClient, error) {
	if len(cfg.Teachers) == 0 {
		return nil, nil
	}
	models := make(map[teacher.Backend]string, len(cfg.Teachers))
	baseURL := ""
	for _, t := range cfg.Teachers {
		models[teacher.Backend(t.ID)] = t.Model
		if baseURL == "" {
			baseURL = t.BaseURL
		}
	}
	client, err := teacher.ClientFromEnv(models, nil)
	if err != nil {
		fmt.Fprintf(stderr, "Warning: external teachers disabled: %v\n", err)
		return nil, nil
	}
	// TEACHER_BASE_URL wins over the config value.
	if baseURL != "" && os.Getenv("TEACHER_BASE_URL") == "" {
		client.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return client, nil
}

// printRunSummary writes the post-run report.
func printRunSummary(stdout io.Writer, results runner.Results, paths runner.OutputPaths) {
	fmt.Fprintf(stdout, "Run %s completed\n", results.RunID)
	fmt.Fprintf(stdout, "Schemas: %d  Raw: %d  Valid: %d  Final: %d (train %d / test %d)\n",
		results.SchemaCount, results.RawExamples, results.ValidExamples,
		results.FinalExamples, results.TrainExamples, results.TestExamples)

	if len(results.BySchema) > 0 {
		fmt.Fprintln(stdout, "\nQuality gate pass rates:")
		for _, schemaID := range results.BySchema.Keys() {
			stats := results.BySchema[schemaID]
			fmt.Fprintf(stdout, "  %-28s %s\n", schemaID, stats)
		}
	}
	if len(results.ByTier) > 0 {
		fmt.Fprintln(stdout, "\nPass rates by complexity:")
		for _, tier := range results.ByTier.Keys() {
			fmt.Fprintf(stdout, "  %-28s %s\n", tier, results.ByTier[tier])
		}
	}
	if len(results.BySource) > 0 {
		sources := make([]string, 0, len(results.BySource))
		for source := range results.BySource {
			sources = append(sources, source)
		}
		sort.Strings(sources)
		fmt.Fprintln(stdout, "\nBy source:")
		for _, source := range sources {
			fmt.Fprintf(stdout, "  %-18s %d\n", source, results.BySource[source])
		}
	}

	fmt.Fprintf(stdout, "\nTrain: %s\n", paths.TrainPath())
	fmt.Fprintf(stdout, "Test: %s\n", paths.TestPath())
	fmt.Fprintf(stdout, "Metadata: %s\n", paths.MetadataPath())
}
