package armstrong

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

// Tool is a function callable by the LLM.
type Tool interface {
	Spec() ToolSpec
	Run(ctx context.Context, args map[string]any) (map[string]any, error)
}

// ToolSpec is the specification of a tool.
// It defines the interface and behavior of a tool that can be used by LLMs.
type ToolSpec struct {
	// Name is the unique identifier for the tool.
	Name string

	// Description is a human-readable description of what the tool does.
	Description string

	// Parameters defines the input parameters that the tool accepts.
	Parameters map[string]*Parameter

	// Required is the list of required parameter names.
	Required []string
}

// Validate validates the tool specification.
func (s *ToolSpec) Validate() error {
	eb := goerr.NewBuilder(goerr.V("tool", s.Name))
	if s.Name == "" {
		return eb.Wrap(ErrInvalidTool, "name is required")
	}

	for name, param := range s.Parameters {
		if err := param.Validate(); err != nil {
			return eb.Wrap(err, "invalid parameter", goerr.V("name", name))
		}
	}

	for _, req := range s.Required {
		if _, ok := s.Parameters[req]; !ok {
			return eb.Wrap(ErrInvalidTool, "required parameter is not defined", goerr.V("name", req))
		}
	}

	return nil
}

// ParameterType is the type of a parameter.
type ParameterType string

const (
	// TypeString represents a string parameter.
	TypeString ParameterType = "string"

	// TypeNumber represents a floating-point number parameter.
	TypeNumber ParameterType = "number"

	// TypeInteger represents an integer parameter.
	TypeInteger ParameterType = "integer"

	// TypeBoolean represents a boolean parameter.
	TypeBoolean ParameterType = "boolean"
)

// Parameter is a parameter of a tool.
type Parameter struct {
	// Type is the type of the parameter. Required.
	Type ParameterType

	// Description explains the purpose and expected format of the parameter.
	Description string

	// Enum is the list of allowed values for string parameters.
	Enum []string

	// Minimum and Maximum define the valid range for numeric parameters.
	Minimum *float64
	Maximum *float64
}

// Validate validates the parameter.
func (p *Parameter) Validate() error {
	eb := goerr.NewBuilder()

	if p.Type == "" {
		return eb.Wrap(ErrInvalidParameter, "type is required")
	}

	switch p.Type {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean:
	default:
		return eb.Wrap(ErrInvalidParameter, "unknown type", goerr.V("type", p.Type))
	}

	if len(p.Enum) > 0 && p.Type != TypeString {
		return eb.Wrap(ErrInvalidParameter, "enum is only allowed for string type")
	}

	if p.Minimum != nil && p.Maximum != nil && *p.Minimum > *p.Maximum {
		return eb.Wrap(ErrInvalidParameter, "minimum is greater than maximum")
	}

	return nil
}

// Ptr is a helper to build Minimum/Maximum values inline.
func Ptr[T any](v T) *T { return &v }
