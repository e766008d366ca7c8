// Package snapshot holds the JSON-Schema contract for the documents the
// tracker hands to its consumers: cards, hands, boards, action log entries,
// round and game snapshots.
package snapshot

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

const schemaBaseURL = "https://holdemtracker.dev/schemas/"

// Validator checks snapshot documents against the embedded schemas
type Validator struct {
	schemas map[string]*jsonschema.Schema
}

// NewValidator compiles every embedded schema.
func NewValidator() (*Validator, error) {
	entries, err := schemaFiles.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	// Schemas reference each other, so register them all before compiling
	var names []string
	for _, entry := range entries {
		data, err := schemaFiles.ReadFile("schemas/" + entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", entry.Name(), err)
		}
		if err := compiler.AddResource(schemaBaseURL+entry.Name(), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema %s: %w", entry.Name(), err)
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}

	schemas := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		schema, err := compiler.Compile(schemaBaseURL + name + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		schemas[name] = schema
	}
	return &Validator{schemas: schemas}, nil
}

// Validate checks a JSON document against the named schema
func (v *Validator) Validate(kind string, data []byte) error {
	schema, ok := v.schemas[kind]
	if !ok {
		return fmt.Errorf("schema not found: %s", kind)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%s schema validation failed: %w", kind, err)
	}
	return nil
}

// ValidateValue marshals v and validates the result against the named schema
func (v *Validator) ValidateValue(kind string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", kind, err)
	}
	return v.Validate(kind, data)
}

// Kinds returns the schema names in sorted order.
func (v *Validator) Kinds() []string {
	kinds := make([]string, 0, len(v.schemas))
	for name := range v.schemas {
		kinds = append(kinds, name)
	}
	slices.Sort(kinds)
	return kinds
}
