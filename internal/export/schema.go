package export

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Layer schema files.
const (
	upperfloorSchema  = "schemas/upperfloor.schema.json"
	groundfloorSchema = "schemas/groundfloor.schema.json"
)

// compileSchemas compiles every embedded layer schema, keyed by file name.
func compileSchemas() (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	names := []string{upperfloorSchema, groundfloorSchema}
	for _, name := range names {
		data, err := schemaFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to add schema resource %s: %w", name, err)
		}
	}

	compiled := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		compiled[name] = schema
	}
	return compiled, nil
}

// validateDocument checks an encoded layer against its schema.
func validateDocument(schema *jsonschema.Schema, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("layer is not valid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("layer violates its schema: %w", err)
	}
	return nil
}
