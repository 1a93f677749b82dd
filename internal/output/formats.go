package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/k6convert/internal/diagnostic"
)

// OutputFormat represents the available report formats
type OutputFormat string

const (
	// FormatText is the default human-readable text format
	FormatText OutputFormat = "text"
	// FormatJSON outputs in JSON format
	FormatJSON OutputFormat = "json"
	// FormatYAML outputs in YAML format
	FormatYAML OutputFormat = "yaml"
)

// ParseFormat returns the format named s
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", errors.WithHint(
			errors.Newf("unknown report format %q", s),
			"use one of: text, json, yaml",
		)
	}
}

// FormatProvider is an interface for different report formatters
type FormatProvider interface {
	FormatDiagnostics(d diagnostic.Diagnostics) string
	FormatError(err error) string
	FormatResult(r Report) string
}

// Report summarises one conversion run
type Report struct {
	Collection  string           `json:"collection,omitempty" yaml:"collection,omitempty"`
	Output      string           `json:"output,omitempty" yaml:"output,omitempty"`
	Warnings    int              `json:"warnings" yaml:"warnings"`
	Diagnostics []DiagnosticData `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Error       *ErrorData       `json:"error,omitempty" yaml:"error,omitempty"`

	raw diagnostic.Diagnostics
}

// DiagnosticData represents the structured data of a diagnostic
type DiagnosticData struct {
	Severity string `json:"severity" yaml:"severity"`
	Code     string `json:"code" yaml:"code"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Message  string `json:"message" yaml:"message"`
}

// ErrorData represents the structured data of a conversion error
type ErrorData struct {
	Message string   `json:"message" yaml:"message"`
	Hints   []string `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// NewReport builds a report for a finished conversion
func NewReport(collection, output string, d diagnostic.Diagnostics) Report {
	return Report{
		Collection:  collection,
		Output:      output,
		Warnings:    len(d.Warnings),
		Diagnostics: diagnosticData(d, true),
		raw:         d,
	}
}

func diagnosticData(d diagnostic.Diagnostics, includeInfo bool) []DiagnosticData {
	var out []DiagnosticData
	for _, diag := range d.All() {
		if diag.Severity == diagnostic.SeverityInfo && !includeInfo {
			continue
		}
		out = append(out, DiagnosticData{
			Severity: diag.Severity.String(),
			Code:     diag.Code,
			Path:     diag.Path,
			Message:  diag.Message,
		})
	}
	return out
}

func errorData(err error) *ErrorData {
	return &ErrorData{Message: err.Error(), Hints: errors.GetAllHints(err)}
}

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	Verbose bool
	Pretty  bool
}

func (f *JSONFormatter) marshal(v any) string {
	var out []byte
	var err error
	if f.Pretty {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"error":"Failed to marshal report: %s"}`, err)
	}
	return string(out) + "\n"
}

// FormatDiagnostics formats findings as a JSON array
func (f *JSONFormatter) FormatDiagnostics(d diagnostic.Diagnostics) string {
	data := diagnosticData(d, f.Verbose)
	if data == nil {
		data = []DiagnosticData{}
	}
	return f.marshal(data)
}

// FormatError formats an error as a JSON object
func (f *JSONFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return f.marshal(Report{Error: errorData(err)})
}

// FormatResult formats the report as a JSON object
func (f *JSONFormatter) FormatResult(r Report) string {
	if !f.Verbose {
		r.Diagnostics = diagnosticData(r.raw, false)
	}
	return f.marshal(r)
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct {
	Verbose bool
}

func (f *YAMLFormatter) marshal(v any) string {
	out, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: Failed to marshal report: %s\n", err)
	}
	return string(out)
}

// FormatDiagnostics formats findings as a YAML sequence
func (f *YAMLFormatter) FormatDiagnostics(d diagnostic.Diagnostics) string {
	data := diagnosticData(d, f.Verbose)
	if data == nil {
		data = []DiagnosticData{}
	}
	return f.marshal(data)
}

// FormatError formats an error as a YAML document
func (f *YAMLFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return f.marshal(Report{Error: errorData(err)})
}

// FormatResult formats the report as a YAML document
func (f *YAMLFormatter) FormatResult(r Report) string {
	if !f.Verbose {
		r.Diagnostics = diagnosticData(r.raw, false)
	}
	return f.marshal(r)
}

// GetFormatter returns the appropriate formatter based on the format
func GetFormatter(format OutputFormat, verbose bool, noColor bool) FormatProvider {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Verbose: verbose, Pretty: !noColor}
	case FormatYAML:
		return &YAMLFormatter{Verbose: verbose}
	default:
		return NewFormatter(verbose, noColor)
	}
}
