package schema

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Document is the structural subset of JSON Schema the generator understands.
// Validation against the full schema semantics happens separately through the
// compiled schema on the catalog descriptor; Document only needs enough shape
// to drive synthesis.
type Document struct {
	Title                string
	Description          string
	Type                 string
	Properties           map[string]*Document
	Required             []string
	Enum                 []interface{}
	Format               string
	Pattern              string
	Minimum              *float64
	Maximum              *float64
	MinItems             *int
	MaxItems             *int
	Items                *Document
	AdditionalProperties *bool
}

// rawDocument mirrors Document with JSON tags plus the polymorphic
// additionalProperties field.
type rawDocument struct {
	Title                string                  `json:"title"`
	Description          string                  `json:"description"`
	Type                 string                  `json:"type"`
	Properties           map[string]*rawDocument `json:"properties"`
	Required             []string                `json:"required"`
	Enum                 []interface{}           `json:"enum"`
	Format               string                  `json:"format"`
	Pattern              string                  `json:"pattern"`
	Minimum              *float64                `json:"minimum"`
	Maximum              *float64                `json:"maximum"`
	MinItems             *int                    `json:"minItems"`
	MaxItems             *int                    `json:"maxItems"`
	Items                *rawDocument            `json:"items"`
	AdditionalProperties json.RawMessage         `json:"additionalProperties"`
}

// ParseDocument decodes a schema document from its JSON source.
func ParseDocument(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse schema document: %w", err)
	}
	return raw.convert(), nil
}

func (r *rawDocument) convert() *Document {
	if r == nil {
		return nil
	}
	doc := &Document{
		Title:       r.Title,
		Description: r.Description,
		Type:        r.Type,
		Required:    r.Required,
		Enum:        r.Enum,
		Format:      r.Format,
		Pattern:     r.Pattern,
		Minimum:     r.Minimum,
		Maximum:     r.Maximum,
		MinItems:    r.MinItems,
		MaxItems:    r.MaxItems,
		Items:       r.Items.convert(),
	}
	if len(r.Properties) > 0 {
		doc.Properties = make(map[string]*Document, len(r.Properties))
		for name, child := range r.Properties {
			doc.Properties[name] = child.convert()
		}
	}
	// additionalProperties may be a bool or a sub-schema; only the boolean
	// form changes behavior here.
	if len(r.AdditionalProperties) > 0 {
		var allowed bool
		if err := json.Unmarshal(r.AdditionalProperties, &allowed); err == nil {
			doc.AdditionalProperties = &allowed
		}
	}
	return doc
}

// PropertyNames returns the property names in sorted order so that callers
// iterate deterministically.
func (d *Document) PropertyNames() []string {
	names := make([]string, 0, len(d.Properties))
	for name := range d.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRequired reports whether a property is listed in required.
func (d *Document) IsRequired(name string) bool {
	for _, required := range d.Required {
		if required == name {
			return true
		}
	}
	return false
}
