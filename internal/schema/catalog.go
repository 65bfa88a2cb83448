package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Tier labels a schema by the complexity directory it was loaded from.
type Tier string

const (
	TierSimple  Tier = "simple"
	TierMedium  Tier = "medium"
	TierComplex Tier = "complex"
)

// tierOrder fixes the enumeration order of complexity directories.
var tierOrder = []Tier{TierSimple, TierMedium, TierComplex}

// ErrNotFound reports a schema id absent from the catalog.
var ErrNotFound = errors.New("schema not found")

// Descriptor bundles one loaded schema document with its provenance.
type Descriptor struct {
	ID       string
	Tier     Tier
	Path     string
	Doc      *Document
	Raw      []byte
	Compiled *jsonschema.Schema
}

// Catalog indexes schema documents discovered under a root directory.
// It is built once and immutable afterward.
type Catalog struct {
	descriptors []Descriptor
	byID        map[string]int
}

// Load discovers schema documents under root. Each of the fixed tier
// subdirectories that exists is scanned for .json files; the file name minus
// extension becomes the schema id. A document that fails to parse or compile
// is skipped with a warning on diag. A missing root is fatal. When an id
// repeats across tiers the first occurrence wins and the duplicate is skipped
// with a warning.
func Load(root string, diag io.Writer) (*Catalog, error) {
	if diag == nil {
		diag = io.Discard
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("schemas root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("schemas root %s is not a directory", root)
	}

	catalog := &Catalog{byID: make(map[string]int)}
	for _, tier := range tierOrder {
		tierDir := filepath.Join(root, string(tier))
		entries, err := os.ReadDir(tierDir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read tier directory: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
				continue
			}
			path := filepath.Join(tierDir, entry.Name())
			id := strings.TrimSuffix(entry.Name(), ".json")
			if _, exists := catalog.byID[id]; exists {
				fmt.Fprintf(diag, "Warning: duplicate schema id %q in %s tier; keeping first occurrence\n", id, tier)
				continue
			}
			desc, err := loadDescriptor(id, tier, path)
			if err != nil {
				fmt.Fprintf(diag, "Warning: failed to load %s: %v\n", path, err)
				continue
			}
			catalog.byID[id] = len(catalog.descriptors)
			catalog.descriptors = append(catalog.descriptors, desc)
		}
	}
	return catalog, nil
}

func loadDescriptor(id string, tier Tier, path string) (Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("read schema: %w", err)
	}
	doc, err := ParseDocument(raw)
	if err != nil {
		return Descriptor{}, err
	}
	compiled, err := Compile(id, raw)
	if err != nil {
		return Descriptor{}, err
	}
	return Descriptor{
		ID:       id,
		Tier:     tier,
		Path:     path,
		Doc:      doc,
		Raw:      raw,
		Compiled: compiled,
	}, nil
}

// Compile builds a draft-7 validator for a schema document.
func Compile(id string, raw []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7
	url := "schema:///" + id + ".json"
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}

// Get returns the descriptor for a schema id.
func (c *Catalog) Get(id string) (Descriptor, error) {
	index, ok := c.byID[id]
	if !ok {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.descriptors[index], nil
}

// All returns every descriptor in deterministic load order
// (tier order, then file name order within a tier).
func (c *Catalog) All() []Descriptor {
	out := make([]Descriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// ByComplexity returns the descriptors loaded from one tier.
func (c *Catalog) ByComplexity(tier Tier) []Descriptor {
	var out []Descriptor
	for _, desc := range c.descriptors {
		if desc.Tier == tier {
			out = append(out, desc)
		}
	}
	return out
}

// Len returns the number of loaded schemas.
func (c *Catalog) Len() int {
	return len(c.descriptors)
}

// Summary counts loaded schemas per tier.
func (c *Catalog) Summary() map[Tier]int {
	summary := make(map[Tier]int, len(tierOrder))
	for _, desc := range c.descriptors {
		summary[desc.Tier]++
	}
	return summary
}
