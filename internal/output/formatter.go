package output

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"

	"github.com/wesleyorama2/k6convert/internal/diagnostic"
)

// Formatter is responsible for formatting conversion results in text format
type Formatter struct {
	Verbose bool
	NoColor bool
	scheme  *ColorScheme
}

// NewFormatter creates a new formatter with the given options
func NewFormatter(verbose, noColor bool) *Formatter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme = NoColorScheme()
	}
	return &Formatter{
		Verbose: verbose,
		NoColor: noColor,
		scheme:  scheme,
	}
}

// NewFormatterWithFormat creates a new formatter with the specified output format
func NewFormatterWithFormat(format OutputFormat, verbose, noColor bool) FormatProvider {
	return GetFormatter(format, verbose, noColor)
}

// FormatDiagnostics formats findings one per line. Informational findings
// are only shown in verbose mode, the summary line always is.
func (f *Formatter) FormatDiagnostics(d diagnostic.Diagnostics) string {
	var buf strings.Builder

	for _, w := range d.Warnings {
		buf.WriteString(fmt.Sprintf("%s %s\n", WarningIcon(f.NoColor), f.diagnostic(w, f.scheme.Warning)))
	}
	for _, i := range d.Infos {
		if !f.Verbose && i.Code != diagnostic.CodeSummary {
			continue
		}
		buf.WriteString(fmt.Sprintf("%s %s\n", InfoIcon(f.NoColor), f.diagnostic(i, f.scheme.Info)))
	}

	return buf.String()
}

func (f *Formatter) diagnostic(d diagnostic.Diagnostic, c *color.Color) string {
	var buf strings.Builder
	buf.WriteString(c.Sprint(d.Severity.String()))
	if f.Verbose {
		buf.WriteString(" " + f.scheme.Code.Sprint("["+d.Code+"]"))
	}
	if d.Path != "" {
		buf.WriteString(" " + f.scheme.Path.Sprint(d.Path) + ":")
	}
	buf.WriteString(" " + d.Message)
	return buf.String()
}

// FormatError formats a conversion error with any hints attached to it.
// Verbose mode adds the error's full detail, including stack traces.
func (f *Formatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf("%s %s %s\n", ErrorIcon(f.NoColor), f.scheme.Error.Sprint("Error:"), err.Error()))
	for _, hint := range errors.GetAllHints(err) {
		buf.WriteString(fmt.Sprintf("  %s %s\n", f.scheme.Hint.Sprint("hint:"), hint))
	}
	if f.Verbose {
		buf.WriteString("  Details:\n")
		for _, line := range strings.Split(strings.TrimRight(fmt.Sprintf("%+v", err), "\n"), "\n") {
			buf.WriteString("    " + line + "\n")
		}
	}

	return buf.String()
}

// FormatResult formats the findings of a successful conversion followed by
// a closing status line
func (f *Formatter) FormatResult(r Report) string {
	var buf strings.Builder
	buf.WriteString(f.FormatDiagnostics(r.raw))

	target := r.Output
	if target == "" {
		target = "stdout"
	}
	status := fmt.Sprintf("converted %s to %s", f.scheme.Highlight.Sprint(r.Collection), target)
	if r.Warnings > 0 {
		buf.WriteString(fmt.Sprintf("%s %s (%d warnings)\n", SuccessIcon(f.NoColor), status, r.Warnings))
	} else {
		buf.WriteString(fmt.Sprintf("%s %s\n", SuccessIcon(f.NoColor), status))
	}
	return buf.String()
}

// FormatDiff colours a unified diff line by line
func (f *Formatter) FormatDiff(diff string) string {
	if diff == "" {
		return f.scheme.Success.Sprint("no changes") + "\n"
	}
	var buf strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			buf.WriteString(f.scheme.Highlight.Sprint(line))
		case strings.HasPrefix(line, "+"):
			buf.WriteString(f.scheme.DiffAdd.Sprint(line))
		case strings.HasPrefix(line, "-"):
			buf.WriteString(f.scheme.DiffDel.Sprint(line))
		default:
			buf.WriteString(line)
		}
	}
	return buf.String()
}
