package spec

// Config is the generation run configuration loaded from corpusgen.yml.
type Config struct {
	Version     int              `yaml:"version"`
	SchemasRoot string           `yaml:"schemas_root"`
	OutputDir   string           `yaml:"output_dir"`
	Generation  GenerationConfig `yaml:"generation"`
	Teachers    []TeacherConfig  `yaml:"teachers"`
	Repair      RepairConfig     `yaml:"repair"`
}

// GenerationConfig tunes corpus generation.
type GenerationConfig struct {
	ExamplesPerSchema  int     `yaml:"examples_per_schema"`
	TemplateRatio      float64 `yaml:"template_ratio"`
	TargetTotal        int     `yaml:"target_total"`
	Seed               int64   `yaml:"seed"`
	AlignmentThreshold float64 `yaml:"alignment_threshold"`
}

// TeacherConfig describes one external generation backend.
type TeacherConfig struct {
	ID      string `yaml:"id"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// RepairConfig tunes selective regeneration.
type RepairConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}
