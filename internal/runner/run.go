// Package runner drives corpus generation at scale: synthesis, external
// teacher batches, quality filtering, balancing, splitting, and persistence.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"time"

	"corpusgen/internal/consistency"
	"corpusgen/internal/corpus"
	"corpusgen/internal/gate"
	"corpusgen/internal/schema"
	"corpusgen/internal/spec"
	"corpusgen/internal/synth"
	"corpusgen/internal/teacher"
)

// TeacherClient is the narrow contract with external generation backends.
type TeacherClient interface {
	GenerateCompletions(ctx context.Context, backend teacher.Backend, prompts []string, schemaRaw []byte) ([]string, error)
}

// RunParams carries per-invocation settings on top of the config.
type RunParams struct {
	OutputDir string
	Seed      int64
	Observer  Observer
	Teacher   TeacherClient
	Diag      io.Writer
}

// candidate is an example awaiting validation: the raw output text is what
// the gate parses, and only its cleaned form is stored on acceptance.
type candidate struct {
	example   corpus.Example
	rawOutput string
}

// generator holds the state of one generation run. A single seeded random
// source drives synthesis, sampling, shuffling, and balancing.
type generator struct {
	cfg     spec.Config
	catalog *schema.Catalog
	rng     *rand.Rand
	synth   *synth.Synthesizer
	client  TeacherClient
	obs     Observer
	diag    io.Writer
	runID   string
}

// Run executes the full generation pipeline and writes the corpus.
func Run(ctx context.Context, cfg spec.Config, params RunParams) (Results, OutputPaths, error) {
	obs := params.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	diag := params.Diag
	if diag == nil {
		diag = io.Discard
	}

	runID, err := NewRunID()
	if err != nil {
		return Results{}, OutputPaths{}, err
	}

	seed := cfg.Generation.Seed
	if params.Seed != 0 {
		seed = params.Seed
	}

	catalog, err := schema.Load(cfg.SchemasRoot, diag)
	if err != nil {
		return Results{}, OutputPaths{}, err
	}
	if catalog.Len() == 0 {
		return Results{}, OutputPaths{}, fmt.Errorf("no schemas loaded from %s", cfg.SchemasRoot)
	}

	rng := rand.New(rand.NewSource(seed))
	g := &generator{
		cfg:     cfg,
		catalog: catalog,
		rng:     rng,
		synth:   synth.New(rng),
		client:  params.Teacher,
		obs:     obs,
		diag:    diag,
		runID:   runID,
	}

	results := Results{
		RunID:       runID,
		StartedAt:   time.Now().UTC(),
		Seed:        seed,
		SchemaCount: catalog.Len(),
		BySchema:    make(gate.GroupedStats),
		ByTier:      make(gate.GroupedStats),
	}
	obs.Observe(Event{Type: EventRunStart, RunID: runID, EmittedAt: time.Now()})

	obs.Observe(Event{Type: EventPhaseStart, Phase: PhaseTemplate, EmittedAt: time.Now()})
	candidates, skipped := g.generateTemplateCandidates()

	if g.client != nil {
		obs.Observe(Event{Type: EventPhaseStart, Phase: PhaseExternal, EmittedAt: time.Now()})
		external, externalSkipped := g.generateExternalCandidates(ctx)
		candidates = append(candidates, external...)
		skipped += externalSkipped
	}
	results.RawExamples = len(candidates)
	results.Skipped = skipped

	obs.Observe(Event{Type: EventPhaseStart, Phase: PhaseFilter, EmittedAt: time.Now()})
	accepted := g.filter(candidates, &results)
	results.ValidExamples = len(accepted)

	obs.Observe(Event{Type: EventPhaseStart, Phase: PhaseBalance, EmittedAt: time.Now()})
	balanced := corpus.Balance(accepted, cfg.Generation.TargetTotal, g.rng)
	results.FinalExamples = len(balanced)

	obs.Observe(Event{Type: EventPhaseStart, Phase: PhaseSplit, EmittedAt: time.Now()})
	train, test := corpus.Split(balanced, g.rng)
	results.TrainExamples = len(train)
	results.TestExamples = len(test)
	results.BySource = corpus.CountBy(balanced, func(e corpus.Example) string { return e.Source })
	results.TierCounts = corpus.CountBy(balanced, func(e corpus.Example) string { return e.Complexity })

	obs.Observe(Event{Type: EventPhaseStart, Phase: PhasePersist, EmittedAt: time.Now()})
	outputDir := cfg.OutputDir
	if params.OutputDir != "" {
		outputDir = params.OutputDir
	}
	paths, err := WriteOutputs(outputDir, train, test, g.metadata(balanced, results))
	if err != nil {
		return Results{}, OutputPaths{}, err
	}

	results.FinishedAt = time.Now().UTC()
	obs.Observe(Event{Type: EventRunEnd, RunID: runID, EmittedAt: time.Now()})
	return results, paths, nil
}

// templateCount returns how many template examples to produce per schema.
func (g *generator) templateCount() int {
	return int(float64(g.cfg.Generation.ExamplesPerSchema) * g.cfg.Generation.TemplateRatio)
}

// externalCount returns how many external examples to request per schema.
func (g *generator) externalCount() int {
	return g.cfg.Generation.ExamplesPerSchema - g.templateCount()
}

// generateTemplateCandidates produces template-sourced candidates for every
// schema. Individual failures are counted and skipped, never fatal.
func (g *generator) generateTemplateCandidates() ([]candidate, int) {
	var candidates []candidate
	skipped := 0
	count := g.templateCount()
	for _, desc := range g.catalog.All() {
		g.obs.Observe(Event{Type: EventSchemaStart, SchemaID: desc.ID, Tier: string(desc.Tier), Phase: PhaseTemplate, EmittedAt: time.Now()})
		kept := 0
		for i := 0; i < count; i++ {
			c, err := g.templateCandidate(desc, i)
			if err != nil {
				skipped++
				fmt.Fprintf(g.diag, "Warning: template generation failed for %s: %v\n", desc.ID, err)
				g.obs.Observe(Event{Type: EventExample, SchemaID: desc.ID, Accepted: false, Reason: err.Error(), EmittedAt: time.Now()})
				continue
			}
			kept++
			candidates = append(candidates, c)
			g.obs.Observe(Event{Type: EventExample, SchemaID: desc.ID, Accepted: true, Generated: kept, EmittedAt: time.Now()})
		}
		g.obs.Observe(Event{Type: EventSchemaEnd, SchemaID: desc.ID, Generated: count, Kept: kept, EmittedAt: time.Now()})
	}
	return candidates, skipped
}

// templateCandidate synthesizes one (prompt, output) pair for a schema.
func (g *generator) templateCandidate(desc schema.Descriptor, sequence int) (candidate, error) {
	value, err := g.synth.Synthesize(desc.Doc)
	if err != nil {
		return candidate{}, err
	}
	consistency.Reconcile(desc.ID, value)
	prompt := synth.RenderPrompt(desc.ID, value, desc.Doc)
	raw, err := json.Marshal(value)
	if err != nil {
		return candidate{}, fmt.Errorf("serialize output: %w", err)
	}
	return candidate{
		example: corpus.Example{
			ID:         exampleID(desc.ID, corpus.TemplateTeacher, sequence),
			SchemaID:   desc.ID,
			Complexity: string(desc.Tier),
			Teacher:    corpus.TemplateTeacher,
			Source:     corpus.SourceTemplate,
			Prompt:     prompt,
		},
		rawOutput: string(raw),
	}, nil
}

// generateExternalCandidates produces externally taught candidates. A failed
// batch aborts only that schema's external contribution.
func (g *generator) generateExternalCandidates(ctx context.Context) ([]candidate, int) {
	var candidates []candidate
	skipped := 0
	count := g.externalCount()
	if count == 0 {
		return nil, 0
	}

	router := teacher.NewRouter("")
	ids := make([]string, 0, g.catalog.Len())
	for _, desc := range g.catalog.All() {
		ids = append(ids, desc.ID)
	}
	distribution := router.Distribute(ids)

	backends := make([]teacher.Backend, 0, len(distribution))
	for backend := range distribution {
		backends = append(backends, backend)
	}
	sort.Slice(backends, func(i, j int) bool { return backends[i] < backends[j] })

	for _, backend := range backends {
		for _, schemaID := range distribution[backend] {
			desc, err := g.catalog.Get(schemaID)
			if err != nil {
				continue
			}
			g.obs.Observe(Event{Type: EventSchemaStart, SchemaID: desc.ID, Tier: string(desc.Tier), Phase: PhaseExternal, EmittedAt: time.Now()})

			prompts := make([]string, 0, count)
			for i := 0; i < count; i++ {
				value, err := g.synth.Synthesize(desc.Doc)
				if err != nil {
					skipped++
					continue
				}
				consistency.Reconcile(desc.ID, value)
				prompts = append(prompts, synth.RenderPrompt(desc.ID, value, desc.Doc))
			}
			if len(prompts) == 0 {
				continue
			}

			completions, err := g.client.GenerateCompletions(ctx, backend, prompts, desc.Raw)
			if err != nil {
				skipped += len(prompts)
				fmt.Fprintf(g.diag, "Warning: external batch failed for %s via %s: %v\n", desc.ID, backend, err)
				g.obs.Observe(Event{Type: EventWarning, SchemaID: desc.ID, Message: err.Error(), EmittedAt: time.Now()})
				continue
			}
			for i, completion := range completions {
				candidates = append(candidates, candidate{
					example: corpus.Example{
						ID:         exampleID(desc.ID, string(backend), i),
						SchemaID:   desc.ID,
						Complexity: string(desc.Tier),
						Teacher:    string(backend),
						Source:     corpus.SourceExternal,
						Prompt:     prompts[i],
					},
					rawOutput: completion,
				})
			}
			g.obs.Observe(Event{Type: EventSchemaEnd, SchemaID: desc.ID, Generated: len(prompts), Kept: len(completions), EmittedAt: time.Now()})
		}
	}
	return candidates, skipped
}

// filter runs every candidate through the quality gate and, for recognized
// schemas, the consistency checker. Accepted examples store the gate's
// cleaned value.
func (g *generator) filter(candidates []candidate, results *Results) []corpus.Example {
	gates := make(map[string]*gate.Gate, g.catalog.Len())
	var accepted []corpus.Example

	for _, c := range candidates {
		desc, err := g.catalog.Get(c.example.SchemaID)
		if err != nil {
			continue
		}
		schemaGate, ok := gates[desc.ID]
		if !ok {
			schemaGate = gate.New(desc.Compiled, g.cfg.Generation.AlignmentThreshold)
			gates[desc.ID] = schemaGate
		}

		verdict, keep := g.screen(schemaGate, desc.ID, c)
		results.BySchema.Observe(desc.ID, verdict)
		results.ByTier.Observe(string(desc.Tier), verdict)
		g.obs.Observe(Event{Type: EventExample, Phase: PhaseFilter, SchemaID: desc.ID, Accepted: keep, Reason: string(verdict.Reason), EmittedAt: time.Now()})
		if !keep {
			continue
		}
		example := c.example
		example.ExpectedOutput = verdict.Cleaned
		accepted = append(accepted, example)
	}
	return accepted
}

// screen applies the gate and the consistency checker to one candidate.
// Consistency failures are folded into the verdict as invalid with the
// checker's reason so statistics see a single outcome stream.
func (g *generator) screen(schemaGate *gate.Gate, schemaID string, c candidate) (gate.Verdict, bool) {
	verdict := schemaGate.Validate(c.example.Prompt, c.rawOutput)
	if !verdict.Valid {
		return verdict, false
	}
	if consistency.Recognized(schemaID) {
		if check := consistency.Check(schemaID, verdict.Cleaned); !check.Valid {
			fmt.Fprintf(g.diag, "Warning: consistency failure for %s: %s\n", c.example.ID, check.Err)
			return gate.Verdict{Reason: gate.ReasonInconsistent}, false
		}
	}
	return verdict, true
}

// metadata builds the corpus-level provenance record.
func (g *generator) metadata(balanced []corpus.Example, results Results) corpus.Metadata {
	schemas := make([]string, 0, g.catalog.Len())
	for _, desc := range g.catalog.All() {
		schemas = append(schemas, desc.ID)
	}
	perSchemaTarget := g.cfg.Generation.TargetTotal / g.catalog.Len()
	return corpus.Metadata{
		RunID:             g.runID,
		GeneratedAt:       time.Now().UTC(),
		TotalExamples:     len(balanced),
		TrainExamples:     results.TrainExamples,
		TestExamples:      results.TestExamples,
		NumSchemas:        g.catalog.Len(),
		Schemas:           schemas,
		ExamplesPerSchema: g.cfg.Generation.ExamplesPerSchema,
		PerSchemaTarget:   perSchemaTarget,
		TemplateRatio:     g.cfg.Generation.TemplateRatio,
		Seed:              results.Seed,
	}
}

// exampleID builds the stable example identifier scheme.
func exampleID(schemaID, teacherName string, sequence int) string {
	return fmt.Sprintf("corpus_%s_%s_%03d", schemaID, teacherName, sequence)
}
