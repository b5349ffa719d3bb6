package armstrong

import (
	"bytes"
	"encoding/json"

	"github.com/m-mizutani/goerr/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// jsonSchema is the subset of JSON Schema used for tool parameters.
type jsonSchema struct {
	Type        string                `json:"type"`
	Description string                `json:"description,omitempty"`
	Properties  map[string]jsonSchema `json:"properties,omitempty"`
	Required    []string              `json:"required,omitempty"`
	Enum        []any                 `json:"enum,omitempty"`
	Minimum     *float64              `json:"minimum,omitempty"`
	Maximum     *float64              `json:"maximum,omitempty"`
}

func specToJSONSchema(spec ToolSpec) jsonSchema {
	properties := make(map[string]jsonSchema, len(spec.Parameters))
	for name, param := range spec.Parameters {
		properties[name] = parameterToSchema(param)
	}

	return jsonSchema{
		Type:       "object",
		Properties: properties,
		Required:   spec.Required,
	}
}

func parameterToSchema(p *Parameter) jsonSchema {
	schema := jsonSchema{
		Type:        string(p.Type),
		Description: p.Description,
		Minimum:     p.Minimum,
		Maximum:     p.Maximum,
	}
	for _, v := range p.Enum {
		schema.Enum = append(schema.Enum, v)
	}
	return schema
}

// ArgumentChecker validates tool call arguments against the JSON schema
// derived from a ToolSpec. A check failure means the model produced
// malformed arguments; callers are expected to correct or substitute them
// rather than fail.
type ArgumentChecker struct {
	schema *jsonschema.Schema
}

// NewArgumentChecker compiles the JSON schema for the given tool spec.
func NewArgumentChecker(spec ToolSpec) (*ArgumentChecker, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(specToJSONSchema(spec))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to marshal tool schema")
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse tool schema")
	}

	compiler := jsonschema.NewCompiler()
	resource := spec.Name + ".schema.json"
	if err := compiler.AddResource(resource, doc); err != nil {
		return nil, goerr.Wrap(err, "failed to register tool schema")
	}

	schema, err := compiler.Compile(resource)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compile tool schema")
	}

	return &ArgumentChecker{schema: schema}, nil
}

// Check validates the arguments of a tool call. The arguments are
// round-tripped through JSON so the instance matches what the schema
// validator expects regardless of the caller's numeric types.
func (c *ArgumentChecker) Check(args map[string]any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal tool arguments")
	}

	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return goerr.Wrap(err, "failed to parse tool arguments")
	}

	if err := c.schema.Validate(instance); err != nil {
		return goerr.Wrap(ErrInvalidParameter, "tool arguments do not match schema",
			goerr.V("cause", err.Error()),
			goerr.V("arguments", args),
		)
	}

	return nil
}
