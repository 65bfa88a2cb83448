// Package corpus defines the persisted training example record and the
// line-delimited JSON corpus format, plus corpus-level balancing and
// splitting.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Example source labels.
const (
	SourceTemplate = "template"
	SourceExternal = "external-teacher"
)

// TemplateTeacher labels examples produced by the template synthesizer.
const TemplateTeacher = "template"

// Example is one labeled (prompt, structured output) training pair.
type Example struct {
	ID             string                 `json:"id"`
	SchemaID       string                 `json:"schema_id"`
	Complexity     string                 `json:"complexity"`
	Teacher        string                 `json:"teacher"`
	Source         string                 `json:"source"`
	Prompt         string                 `json:"prompt"`
	ExpectedOutput map[string]interface{} `json:"expected_output"`
}

// ReadJSONL loads a corpus file, one example per line.
func ReadJSONL(path string) ([]Example, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer file.Close()

	var examples []Example
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 {
			continue
		}
		var example Example
		if err := json.Unmarshal(text, &example); err != nil {
			return nil, fmt.Errorf("parse corpus line %d: %w", line, err)
		}
		examples = append(examples, example)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return examples, nil
}

// WriteJSONL writes a corpus file, one example per line, creating parent
// directories as needed.
func WriteJSONL(path string, examples []Example) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create corpus dir: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create corpus: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, example := range examples {
		payload, err := json.Marshal(example)
		if err != nil {
			return fmt.Errorf("marshal example %s: %w", example.ID, err)
		}
		if _, err := writer.Write(payload); err != nil {
			return fmt.Errorf("write corpus: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write corpus: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush corpus: %w", err)
	}
	return nil
}
