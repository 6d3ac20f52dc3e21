// Package args builds the argument map for a tool invocation by overlaying
// user-supplied values onto the defaults declared in the tool's input schema.
package args

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mcpdeck/mcpdeck/pkg/types"
)

// ValidationError reports user input that could not be coerced to the type
// declared by the tool schema. It is raised locally, before any request is
// sent: invalid input never reaches the network.
type ValidationError struct {
	Param string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for parameter %q: %v", e.Param, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Build produces the arguments for a tools/call request.
//
// Schema-declared defaults are seeded first. Every user-supplied value is then
// coerced according to the parameter's declared type and overlaid on top, so
// an explicit value always wins over a default, including a boolean false
// overriding a default of true. Values the user left empty keep the default.
// Values for parameters the schema does not declare pass through as strings;
// the server is the source of truth for accepting or rejecting them.
func Build(schema types.ToolInputSchema, inputs map[string]string) (map[string]any, error) {
	arguments := make(map[string]any)

	for name, raw := range schema.Properties {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if def, exists := prop["default"]; exists {
			arguments[name] = def
		}
	}

	for name, value := range inputs {
		declaredType := ""
		if prop, ok := propertyOf(schema, name); ok {
			declaredType, _ = prop["type"].(string)
		}

		coerced, provided, err := coerce(name, declaredType, value)
		if err != nil {
			return nil, err
		}
		if provided {
			arguments[name] = coerced
		}
	}

	return arguments, nil
}

func propertyOf(schema types.ToolInputSchema, name string) (map[string]any, bool) {
	raw, exists := schema.Properties[name]
	if !exists {
		return nil, false
	}
	prop, ok := raw.(map[string]any)
	return prop, ok
}

// coerce converts one raw input value to the declared schema type.
// provided is false when the input is empty and therefore must not
// override a schema default.
func coerce(name, declaredType, value string) (coerced any, provided bool, err error) {
	switch declaredType {
	case "boolean":
		// a boolean input is taken unconditionally so that an explicit
		// false can override a default of true
		b, parseErr := strconv.ParseBool(strings.TrimSpace(value))
		if parseErr != nil {
			return nil, false, &ValidationError{Param: name, Err: fmt.Errorf("expected a boolean, got %q", value)}
		}
		return b, true, nil

	case "integer":
		if strings.TrimSpace(value) == "" {
			return nil, false, nil
		}
		n, parseErr := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if parseErr != nil {
			return nil, false, &ValidationError{Param: name, Err: fmt.Errorf("expected an integer, got %q", value)}
		}
		return n, true, nil

	case "number":
		if strings.TrimSpace(value) == "" {
			return nil, false, nil
		}
		f, parseErr := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if parseErr != nil {
			return nil, false, &ValidationError{Param: name, Err: fmt.Errorf("expected a number, got %q", value)}
		}
		return f, true, nil

	case "array", "object":
		if strings.TrimSpace(value) == "" {
			return nil, false, nil
		}
		var parsed any
		if parseErr := json.Unmarshal([]byte(value), &parsed); parseErr != nil {
			return nil, false, &ValidationError{Param: name, Err: fmt.Errorf("not valid JSON: %v", parseErr)}
		}
		return parsed, true, nil

	default:
		// string or unrecognized type: pass the raw text through when non-empty
		if value == "" {
			return nil, false, nil
		}
		return value, true, nil
	}
}
