package connector

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openpoint/platform/internal/domain/shared"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator checks connector config maps against JSON Schemas
// generated from the type registry. Schemas are compiled once.
type ConfigValidator struct {
	schemas map[Type]*jsonschema.Schema
}

// NewConfigValidator compiles a schema per registered connector type
func NewConfigValidator() (*ConfigValidator, error) {
	v := &ConfigValidator{schemas: make(map[Type]*jsonschema.Schema, len(registry))}
	for _, d := range Descriptors() {
		schema, err := compileDescriptor(d)
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", d.Type, err)
		}
		v.schemas[d.Type] = schema
	}
	return v, nil
}

// Validate returns an INVALID_INPUT domain error describing every violation
func (v *ConfigValidator) Validate(t Type, config map[string]any) error {
	schema, ok := v.schemas[t]
	if !ok {
		return ErrInvalidType
	}
	if config == nil {
		config = map[string]any{}
	}

	// Normalise Go values (ints, typed maps) into their JSON-decoded forms.
	raw, err := json.Marshal(config)
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", "connector: config is not serialisable: "+err.Error())
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return shared.NewDomainError("INVALID_INPUT", "connector: config is not serialisable: "+err.Error())
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return shared.NewDomainError("INVALID_INPUT", "connector: invalid "+t.String()+" config: "+flatten(ve))
		}
		return shared.NewDomainError("INVALID_INPUT", "connector: invalid config: "+err.Error())
	}
	return nil
}

// SchemaDocument renders a descriptor as a JSON Schema object
func SchemaDocument(d Descriptor) map[string]any {
	props := make(map[string]any, len(d.Fields))
	required := make([]string, 0)
	for _, f := range d.Fields {
		prop := map[string]any{"title": f.Label}
		switch f.Kind {
		case FieldNumber:
			prop["type"] = "number"
		case FieldBoolean:
			prop["type"] = "boolean"
		case FieldSelect:
			prop["type"] = "string"
			if len(f.Options) > 0 {
				prop["enum"] = f.Options
			}
		default:
			prop["type"] = "string"
		}
		if f.Default != nil {
			prop["default"] = f.Default
		}
		props[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}
	doc := map[string]any{
		"$schema":    "http://json-schema.org/draft-07/schema#",
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func compileDescriptor(d Descriptor) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(SchemaDocument(d))
	if err != nil {
		return nil, err
	}
	url := "mem://connectors/" + d.Type.String() + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, strings.NewReader(string(raw))); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

// flatten collects leaf messages of a validation error tree
func flatten(ve *jsonschema.ValidationError) string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return loc + ": " + ve.Message
	}
	parts := make([]string, 0, len(ve.Causes))
	for _, c := range ve.Causes {
		parts = append(parts, flatten(c))
	}
	return strings.Join(parts, "; ")
}
