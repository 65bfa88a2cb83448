package config

import (
	"path/filepath"

	"corpusgen/internal/gate"
	"corpusgen/internal/spec"
)

// Defaults applied by Normalize.
const (
	DefaultExamplesPerSchema = 60
	DefaultTemplateRatio     = 0.5
	DefaultTargetTotal       = 1000
	DefaultSeed              = 42
	DefaultRepairAttempts    = 3
	DefaultSchemasRoot       = "schemas"
	DefaultOutputDir         = "data"
)

// Normalize fills defaults and resolves relative paths against baseDir.
func Normalize(cfg *spec.Config, baseDir string) {
	if cfg.SchemasRoot == "" {
		cfg.SchemasRoot = DefaultSchemasRoot
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if !filepath.IsAbs(cfg.SchemasRoot) {
		cfg.SchemasRoot = filepath.Join(baseDir, cfg.SchemasRoot)
	}
	if !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(baseDir, cfg.OutputDir)
	}

	generation := &cfg.Generation
	if generation.ExamplesPerSchema == 0 {
		generation.ExamplesPerSchema = DefaultExamplesPerSchema
	}
	if generation.TemplateRatio == 0 {
		generation.TemplateRatio = DefaultTemplateRatio
	}
	if generation.TargetTotal == 0 {
		generation.TargetTotal = DefaultTargetTotal
	}
	if generation.Seed == 0 {
		generation.Seed = DefaultSeed
	}
	if generation.AlignmentThreshold == 0 {
		generation.AlignmentThreshold = gate.DefaultAlignmentThreshold
	}

	if cfg.Repair.MaxAttempts == 0 {
		cfg.Repair.MaxAttempts = DefaultRepairAttempts
	}
}
