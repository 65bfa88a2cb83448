package config

import (
	"fmt"
	"strings"

	"corpusgen/internal/spec"
)

// Validate checks semantic constraints on a normalized config. All problems
// are collected and reported together.
func Validate(cfg *spec.Config) error {
	var problems []string

	if cfg.Version != 1 {
		problems = append(problems, fmt.Sprintf("version must be 1, got %d", cfg.Version))
	}

	generation := cfg.Generation
	if generation.ExamplesPerSchema < 1 {
		problems = append(problems, "generation.examples_per_schema must be positive")
	}
	if generation.TemplateRatio < 0 || generation.TemplateRatio > 1 {
		problems = append(problems, "generation.template_ratio must be between 0.0 and 1.0")
	}
	if generation.TargetTotal < 1 {
		problems = append(problems, "generation.target_total must be positive")
	}
	if generation.AlignmentThreshold < 0 || generation.AlignmentThreshold > 1 {
		problems = append(problems, "generation.alignment_threshold must be between 0.0 and 1.0")
	}

	seen := make(map[string]bool)
	for i, teacher := range cfg.Teachers {
		if teacher.ID == "" {
			problems = append(problems, fmt.Sprintf("teachers[%d].id is required", i))
			continue
		}
		if seen[teacher.ID] {
			problems = append(problems, fmt.Sprintf("duplicate teacher id %q", teacher.ID))
		}
		seen[teacher.ID] = true
		if teacher.Model == "" {
			problems = append(problems, fmt.Sprintf("teachers[%d] (%s): model is required", i, teacher.ID))
		}
	}

	if cfg.Repair.MaxAttempts < 1 {
		problems = append(problems, "repair.max_attempts must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid config:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}
