// Package diagnostic collects non-fatal findings produced while a
// collection is converted: skipped scripts, unsupported body parts,
// references to variables no scope defines.
package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents how important a diagnostic is
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

// String returns a human-readable severity name
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Codes identifying each kind of diagnostic
const (
	CodeScriptSkipped     = "script-skipped"
	CodeBodySkipped       = "body-skipped"
	CodeUndefinedVariable = "undefined-variable"
	CodeAuthInherited     = "auth-inherited"
	CodeSummary           = "summary"
)

// Diagnostic is a single finding
type Diagnostic struct {
	Severity Severity
	// Code identifies the kind of finding
	Code string
	// Path locates the collection element, e.g. "Users / Get user"
	Path    string
	Message string
}

// String formats the diagnostic on one line
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s [%s] %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, d.Path, d.Message)
}

// Diagnostics holds the findings of one conversion in the order they were
// recorded.
type Diagnostics struct {
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Warn records a warning
func (d *Diagnostics) Warn(code, path, format string, args ...any) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Info records an informational finding
func (d *Diagnostics) Info(code, path, format string, args ...any) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	})
}

// Merge appends every finding of other
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// HasWarnings reports whether any warning was recorded
func (d Diagnostics) HasWarnings() bool {
	return len(d.Warnings) > 0
}

// IsEmpty reports whether nothing was recorded
func (d Diagnostics) IsEmpty() bool {
	return len(d.Warnings) == 0 && len(d.Infos) == 0
}

// All returns warnings followed by infos
func (d Diagnostics) All() []Diagnostic {
	out := make([]Diagnostic, 0, len(d.Warnings)+len(d.Infos))
	out = append(out, d.Warnings...)
	return append(out, d.Infos...)
}

// ByCode returns the findings carrying the given code
func (d Diagnostics) ByCode(code string) []Diagnostic {
	var out []Diagnostic
	for _, diag := range d.All() {
		if diag.Code == code {
			out = append(out, diag)
		}
	}
	return out
}

// String formats every finding, one per line
func (d Diagnostics) String() string {
	var sb strings.Builder
	for _, diag := range d.All() {
		sb.WriteString(diag.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
