package collection

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// StructureError reports a malformed or incomplete collection
type StructureError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e *StructureError) Error() string {
	if e.Path == "" {
		return "invalid collection: " + e.Message
	}
	return fmt.Sprintf("invalid collection: %s: %s", e.Path, e.Message)
}

// UnsupportedVersionError reports a collection schema version the
// converter cannot read
type UnsupportedVersionError struct {
	Version string
}

// Error returns the error message
func (e *UnsupportedVersionError) Error() string {
	if e.Version == "" {
		return "unsupported collection version: unknown schema"
	}
	return fmt.Sprintf("unsupported collection version: %s", e.Version)
}

// UnsupportedAuthTypeError reports an auth type no strategy is registered
// for
type UnsupportedAuthTypeError struct {
	Type string
	Path string
}

// Error returns the error message
func (e *UnsupportedAuthTypeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unsupported auth type %q", e.Type)
	}
	return fmt.Sprintf("unsupported auth type %q on %s", e.Type, e.Path)
}

// CircularInheritanceError reports an ancestor chain that loops back on
// itself
type CircularInheritanceError struct {
	Path string
}

// Error returns the error message
func (e *CircularInheritanceError) Error() string {
	return fmt.Sprintf("circular inheritance detected at %s", e.Path)
}

// NewStructureError creates a StructureError with a stack trace
func NewStructureError(path, format string, args ...any) error {
	return errors.WithStack(&StructureError{Path: path, Message: fmt.Sprintf(format, args...)})
}

// NewUnsupportedVersionError creates an UnsupportedVersionError with a
// stack trace and a hint listing the readable versions
func NewUnsupportedVersionError(version string) error {
	err := errors.WithStack(&UnsupportedVersionError{Version: version})
	return errors.WithHintf(err, "export the collection as Postman Collection v%s or v%s", V21, V20)
}

// NewUnsupportedAuthTypeError creates an UnsupportedAuthTypeError with a
// stack trace
func NewUnsupportedAuthTypeError(authType, path string) error {
	return errors.WithStack(&UnsupportedAuthTypeError{Type: authType, Path: path})
}

// NewCircularInheritanceError creates a CircularInheritanceError with a
// stack trace
func NewCircularInheritanceError(path string) error {
	return errors.WithStack(&CircularInheritanceError{Path: path})
}
