// Package synth produces schema-conforming value trees with realistic leaf
// values. Field semantics are inferred from naming conventions so the same
// generator serves any schema without per-schema code.
package synth

import (
	"errors"
	"math/rand"

	"corpusgen/internal/schema"
)

// ErrInvalidSchema reports a synthesis request for a non-object root schema.
var ErrInvalidSchema = errors.New("top-level schema must be type object")

const (
	// rootOptionalProbability is the inclusion chance for optional fields of
	// the root object.
	rootOptionalProbability = 0.7
	// nestedOptionalProbability is the inclusion chance for optional fields
	// of nested objects.
	nestedOptionalProbability = 0.6
	// maxArrayItems caps synthesized array lengths.
	maxArrayItems = 5
)

// Synthesizer generates value trees from a seeded random source. All
// randomness flows through the one generator passed at construction; repeated
// runs with the same seed and schema order produce identical output.
type Synthesizer struct {
	rng    *rand.Rand
	source *source
}

// New constructs a Synthesizer around an explicit random generator.
func New(rng *rand.Rand) *Synthesizer {
	return &Synthesizer{rng: rng, source: &source{rng: rng}}
}

// Synthesize produces one value tree conforming to doc. Every required
// property is always present; optional properties are sampled.
func (s *Synthesizer) Synthesize(doc *schema.Document) (map[string]interface{}, error) {
	if doc == nil || doc.Type != "object" {
		return nil, ErrInvalidSchema
	}
	return s.object(doc, rootOptionalProbability), nil
}

// object synthesizes an object, including each optional property with the
// given probability. Properties are visited in sorted-name order so output is
// a pure function of the seed.
func (s *Synthesizer) object(doc *schema.Document, optionalProbability float64) map[string]interface{} {
	obj := make(map[string]interface{}, len(doc.Properties))
	for _, name := range doc.PropertyNames() {
		if !doc.IsRequired(name) && s.rng.Float64() >= optionalProbability {
			continue
		}
		obj[name] = s.value(name, doc.Properties[name])
	}
	return obj
}

// value synthesizes one value for a named field. Enum membership overrides
// the declared type.
func (s *Synthesizer) value(field string, doc *schema.Document) interface{} {
	if doc == nil {
		return s.source.capitalizedWord()
	}
	if len(doc.Enum) > 0 {
		return doc.Enum[s.rng.Intn(len(doc.Enum))]
	}
	switch doc.Type {
	case "string":
		return s.source.generateString(field, doc)
	case "integer":
		return s.source.generateInteger(field, doc)
	case "number":
		return s.source.generateNumber(field, doc)
	case "boolean":
		return s.rng.Intn(2) == 0
	case "array":
		return s.array(field, doc)
	case "object":
		return s.object(doc, nestedOptionalProbability)
	case "null":
		return nil
	default:
		return s.source.generateString(field, doc)
	}
}

// array synthesizes between minItems and min(maxItems, 5) elements.
func (s *Synthesizer) array(field string, doc *schema.Document) []interface{} {
	minItems := 1
	maxItems := maxArrayItems
	if doc.MinItems != nil {
		minItems = *doc.MinItems
	}
	if doc.MaxItems != nil && *doc.MaxItems < maxItems {
		maxItems = *doc.MaxItems
	}
	count := s.source.intBetween(minItems, maxItems)
	items := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		value := s.value(field+"_item", doc.Items)
		if value != nil {
			items = append(items, value)
		}
	}
	return items
}
