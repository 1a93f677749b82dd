// Package jsonschema validates JSON documents against JSON Schemas and
// reports every violation with its instance location.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationErrors represents a collection of validation errors
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Validator is a compiled schema that can be used concurrently
type Validator struct {
	schema *jsonschema.Schema
}

// Compile parses and compiles a JSON Schema document
func Compile(schemaStr string) (*Validator, error) {
	compiler := jsonschema.NewCompiler()

	if err := compiler.AddResource("schema.json", strings.NewReader(schemaStr)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// MustCompile is like Compile but panics if the schema is invalid. It is
// meant for schemas embedded in the binary.
func MustCompile(schemaStr string) *Validator {
	v, err := Compile(schemaStr)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate validates a JSON string and returns every violation found.
// A nil result means the document is valid.
func (v *Validator) Validate(jsonStr string) ValidationErrors {
	var jsonData interface{}
	if err := json.Unmarshal([]byte(jsonStr), &jsonData); err != nil {
		return ValidationErrors{fmt.Errorf("invalid JSON: %w", err)}
	}
	return v.ValidateValue(jsonData)
}

// ValidateValue validates an already decoded JSON value
func (v *Validator) ValidateValue(jsonData interface{}) ValidationErrors {
	err := v.schema.Validate(jsonData)
	if err == nil {
		return nil
	}

	if validationErr, ok := err.(*jsonschema.ValidationError); ok {
		return extractValidationErrors(validationErr)
	}
	return ValidationErrors{err}
}

// extractValidationErrors flattens a validation error tree. Only leaf causes
// are reported; intermediate nodes merely summarise their children.
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		return ValidationErrors{fmt.Errorf("validation error at %s: %s", location, err.Message)}
	}

	var errors ValidationErrors
	for _, childErr := range err.Causes {
		errors = append(errors, extractValidationErrors(childErr)...)
	}
	return errors
}
