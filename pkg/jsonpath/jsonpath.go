// Package jsonpath provides lightweight JSONPath lookups over raw JSON text.
// It is used to inspect a collection document (for example its schema
// version) before the document is fully decoded.
package jsonpath

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Valid reports whether json is a syntactically valid JSON document
func Valid(json string) bool {
	return gjson.Valid(json)
}

// Exists reports whether the JSONPath expression resolves to a value
func Exists(json string, path string) bool {
	if json == "" || path == "" {
		return false
	}
	return gjson.Get(json, convertToGjsonPath(path)).Exists()
}

// Extract extracts a value from a JSON string using a JSONPath expression
func Extract(json string, path string) (string, error) {
	// Handle empty JSON
	if json == "" {
		return "", fmt.Errorf("empty JSON string")
	}

	// Handle empty path
	if path == "" {
		return "", fmt.Errorf("empty JSONPath expression")
	}

	// Convert JSONPath to gjson path format
	// JSONPath: $.info.schema
	// gjson:    info.schema
	gpath := convertToGjsonPath(path)

	result := gjson.Get(json, gpath)
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}

	// Handle null values
	if result.Type == gjson.Null {
		return "null", nil
	}

	return result.String(), nil
}

// Kind returns the JSON type of the value at path: "string", "number",
// "boolean", "null", "object", "array", or "" when the path does not exist.
func Kind(json string, path string) string {
	result := gjson.Get(json, convertToGjsonPath(path))
	if !result.Exists() {
		return ""
	}
	switch result.Type {
	case gjson.String:
		return "string"
	case gjson.Number:
		return "number"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Null:
		return "null"
	}
	if result.IsArray() {
		return "array"
	}
	return "object"
}

// convertToGjsonPath converts a JSONPath expression to a gjson path format
func convertToGjsonPath(path string) string {
	// Special case for root path
	if path == "$" {
		return "@this"
	}

	path = strings.TrimPrefix(path, "$")
	if path == "" {
		return "@this"
	}
	path = strings.TrimPrefix(path, ".")

	// Handle bracket notation with quotes: $['name'] and $["name"]
	if strings.Contains(path, "['") {
		path = strings.ReplaceAll(path, "['", ".")
		path = strings.ReplaceAll(path, "']", "")
	}
	if strings.Contains(path, "[\"") {
		path = strings.ReplaceAll(path, "[\"", ".")
		path = strings.ReplaceAll(path, "\"]", "")
	}

	// Replace array notation [n] with .n
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")

	return strings.TrimPrefix(path, ".")
}
