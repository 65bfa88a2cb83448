// Package spec defines the corpusgen.yml document and its strict parser.
package spec

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseConfig decodes one YAML document into a Config. Unknown fields are
// errors, so typos in corpusgen.yml fail loudly instead of silently using
// defaults. A second document in the stream is also an error.
func ParseConfig(data []byte) (Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	switch err := decoder.Decode(&struct{}{}); err {
	case io.EOF:
		return cfg, nil
	case nil:
		return Config{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
	default:
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
}
