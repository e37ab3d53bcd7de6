package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/deckhall/deckapi/internal/apierr"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// maxBodyBytes caps request body reads. Deck and user payloads are small.
const maxBodyBytes = 1 << 20

// SchemaSet holds the compiled request schemas, keyed by file name
// (e.g. "userRegister.json").
type SchemaSet struct {
	schemas map[string]*jsonschema.Schema
}

// NewSchemaSet compiles every embedded request schema. Called once at
// startup; a malformed schema is a programming error.
func NewSchemaSet() (*SchemaSet, error) {
	entries, err := schemaFS.ReadDir("schemas")
	if err != nil {
		return nil, fmt.Errorf("read embedded schemas: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft7)

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", name, err)
		}
		parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", name, err)
		}
		if err := compiler.AddResource(name, parsed); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
		names = append(names, name)
	}

	schemas := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		schema, err := compiler.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		schemas[name] = schema
	}

	return &SchemaSet{schemas: schemas}, nil
}

// DecodeValid reads the request body, validates it against the named
// schema, and unmarshals it into dst. Violations surface as 400s with
// the offending JSON path.
func (s *SchemaSet) DecodeValid(r *http.Request, name string, dst any) error {
	schema, ok := s.schemas[name]
	if !ok {
		return fmt.Errorf("unknown request schema %q", name)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return apierr.BadRequest("unable to read request body")
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return apierr.BadRequest("request body is not valid JSON")
	}

	if err := schema.Validate(instance); err != nil {
		return apierr.BadRequest(formatSchemaError(err))
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return apierr.BadRequest("request body is not valid JSON")
	}
	return nil
}

// formatSchemaError renders a validation error as a short message with
// the JSON path of the first violation, e.g.
// "validation failed at '$.password': minLength: got 2, want 5".
func formatSchemaError(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}

	// Walk to the innermost cause for the most specific path.
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}

	path := "$"
	if len(ve.InstanceLocation) > 0 {
		path = "$." + strings.Join(ve.InstanceLocation, ".")
	}

	msg := ve.Error()
	if len(msg) > 200 {
		msg = msg[:200] + "... (truncated)"
	}
	return fmt.Sprintf("validation failed at '%s': %s", path, msg)
}
