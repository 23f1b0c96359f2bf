package client

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed match.schema.json
var matchSchemaJSON []byte

const matchSchemaURL = "match.schema.json"

var matchSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(matchSchemaURL, bytes.NewReader(matchSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return compiler.Compile(matchSchemaURL)
})

// validateMatch checks a raw match payload against the embedded schema.
func validateMatch(body []byte) error {
	schema, err := matchSchema()
	if err != nil {
		return fmt.Errorf("compile match schema: %w", err)
	}

	var instance any
	if err := json.Unmarshal(body, &instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
