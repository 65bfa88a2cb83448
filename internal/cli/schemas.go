package cli

import (
	"flag"
	"fmt"
	"io"

	"corpusgen/internal/config"
	"corpusgen/internal/consistency"
	"corpusgen/internal/schema"
)

// runSchemas builds the handler for the schemas command.
func runSchemas(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		configPath := fs.String("config", "corpusgen.yml", "Path to config file")
		if err := fs.Parse(args); err != nil {
			return ExitUsage
		}

		cfg, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}
		catalog, err := schema.Load(cfg.SchemasRoot, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load schemas: %v\n", err)
			return ExitError
		}

		summary := catalog.Summary()
		fmt.Fprintf(stdout, "%d schemas loaded from %s\n\n", catalog.Len(), cfg.SchemasRoot)
		for _, tier := range []schema.Tier{schema.TierSimple, schema.TierMedium, schema.TierComplex} {
			descriptors := catalog.ByComplexity(tier)
			if len(descriptors) == 0 {
				continue
			}
			fmt.Fprintf(stdout, "%s (%d):\n", tier, summary[tier])
			for _, desc := range descriptors {
				marker := ""
				if consistency.Recognized(desc.ID) {
					marker = "  [arithmetic invariants]"
				}
				fmt.Fprintf(stdout, "  %-28s %d properties%s\n", desc.ID, len(desc.Doc.PropertyNames()), marker)
			}
		}
		return ExitOK
	}
}
