// Package gate certifies (prompt, output) pairs before they may enter a
// corpus. Validation is a strictly ordered, short-circuiting sequence of
// levels; failures are verdict values with a reason code, never errors.
package gate

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Reason classifies a validation outcome. Exactly one reason per verdict.
type Reason string

const (
	ReasonOK              Reason = "ok"
	ReasonParseError      Reason = "parse_error"
	ReasonSchemaViolation Reason = "schema_violation"
	ReasonPlaceholder     Reason = "placeholder_detected"
	ReasonContactFormat   Reason = "invalid_contact_format"
	ReasonWeakAlignment   Reason = "weak_alignment"

	// ReasonInconsistent marks outputs whose derived numeric fields fail
	// their schema's arithmetic invariants. Produced by the runner's
	// post-gate consistency screen, not by Validate.
	ReasonInconsistent Reason = "inconsistent_arithmetic"
)

// Verdict is the result of gating one pair. Cleaned holds the post-fence-strip
// parsed value and is present iff the pair is valid; downstream components
// must store Cleaned, not the original candidate text.
type Verdict struct {
	Valid   bool
	Reason  Reason
	Cleaned map[string]interface{}
}

// DefaultAlignmentThreshold is the minimum hit ratio for level 5.
const DefaultAlignmentThreshold = 0.3

var placeholderRe = regexp.MustCompile(`(?i)\b(sample_|test_|foo|bar|lorem ipsum|placeholder|example\.com|xxx|yyy|zzz)\b`)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^[+]?[0-9\-\s()]{7,}$`)
)

// Gate validates candidate outputs for one schema.
type Gate struct {
	compiled  *jsonschema.Schema
	threshold float64
}

// New builds a gate around a compiled schema. A threshold of zero selects the
// default.
func New(compiled *jsonschema.Schema, threshold float64) *Gate {
	if threshold == 0 {
		threshold = DefaultAlignmentThreshold
	}
	return &Gate{compiled: compiled, threshold: threshold}
}

// Validate runs the five gate levels against a (prompt, output) pair.
func (g *Gate) Validate(prompt, outputText string) Verdict {
	// Level 1: parse.
	cleaned := stripCodeFence(outputText)
	var parsed interface{}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return Verdict{Reason: ReasonParseError}
	}

	// Level 2: schema compliance.
	if err := g.compiled.Validate(parsed); err != nil {
		return Verdict{Reason: ReasonSchemaViolation}
	}
	object, ok := parsed.(map[string]interface{})
	if !ok {
		return Verdict{Reason: ReasonSchemaViolation}
	}

	// Level 3: placeholder detection over prompt and serialized value.
	serialized, err := json.Marshal(object)
	if err != nil {
		return Verdict{Reason: ReasonParseError}
	}
	if placeholderRe.MatchString(prompt) || placeholderRe.Match(serialized) {
		return Verdict{Reason: ReasonPlaceholder}
	}

	// Level 4: contact field formats.
	if !contactFieldsValid(object) {
		return Verdict{Reason: ReasonContactFormat}
	}

	// Level 5: semantic alignment between output strings and prompt text.
	if !aligned(prompt, object, g.threshold) {
		return Verdict{Reason: ReasonWeakAlignment}
	}

	return Verdict{Valid: true, Reason: ReasonOK, Cleaned: object}
}

// stripCodeFence removes a single outer markdown code fence, dropping a
// leading language tag if present.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.Contains(trimmed, "```") {
		return trimmed
	}
	parts := strings.Split(trimmed, "```")
	if len(parts) < 3 {
		return trimmed
	}
	inner := parts[1]
	inner = strings.TrimSpace(inner)
	lower := strings.ToLower(inner)
	if strings.HasPrefix(lower, "json") {
		inner = strings.TrimSpace(inner[len("json"):])
	}
	return inner
}

// contactFieldsValid walks the value tree checking email and phone shaped
// fields. The first violation at any depth fails the level.
func contactFieldsValid(value interface{}) bool {
	switch typed := value.(type) {
	case map[string]interface{}:
		for key, child := range typed {
			if text, isString := child.(string); isString && text != "" {
				lower := strings.ToLower(key)
				if strings.Contains(lower, "email") && !emailRe.MatchString(text) {
					return false
				}
				if (strings.Contains(lower, "phone") || strings.Contains(lower, "tel")) && !phoneRe.MatchString(text) {
					return false
				}
			}
			if !contactFieldsValid(child) {
				return false
			}
		}
	case []interface{}:
		for _, item := range typed {
			if !contactFieldsValid(item) {
				return false
			}
		}
	}
	return true
}

// aligned checks that enough output string values appear verbatim in the
// prompt. Strings of length two or less are ignored; an empty candidate set
// trivially passes.
func aligned(prompt string, value interface{}, threshold float64) bool {
	promptLower := strings.ToLower(prompt)
	hits, total := 0, 0
	collectStrings(value, func(text string) {
		if len(text) <= 2 {
			return
		}
		total++
		if strings.Contains(promptLower, strings.ToLower(text)) {
			hits++
		}
	})
	if total == 0 {
		return true
	}
	return float64(hits)/float64(total) >= threshold
}

func collectStrings(value interface{}, visit func(string)) {
	switch typed := value.(type) {
	case map[string]interface{}:
		for _, child := range typed {
			collectStrings(child, visit)
		}
	case []interface{}:
		for _, item := range typed {
			collectStrings(item, visit)
		}
	case string:
		visit(typed)
	}
}
