package output

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorScheme defines the colors used for different elements in the output
type ColorScheme struct {
	Warning   *color.Color
	Info      *color.Color
	Error     *color.Color
	Hint      *color.Color
	Path      *color.Color
	Code      *color.Color
	Success   *color.Color
	Highlight *color.Color
	DiffAdd   *color.Color
	DiffDel   *color.Color
}

// DefaultColorScheme returns the default color scheme
func DefaultColorScheme() *ColorScheme {
	return &ColorScheme{
		Warning:   color.New(color.FgYellow, color.Bold),
		Info:      color.New(color.FgBlue),
		Error:     color.New(color.FgRed, color.Bold),
		Hint:      color.New(color.FgCyan),
		Path:      color.New(color.FgMagenta),
		Code:      color.New(color.Faint),
		Success:   color.New(color.FgGreen),
		Highlight: color.New(color.FgMagenta, color.Bold),
		DiffAdd:   color.New(color.FgGreen),
		DiffDel:   color.New(color.FgRed),
	}
}

// NoColorScheme returns a color scheme with all colors disabled
func NoColorScheme() *ColorScheme {
	scheme := DefaultColorScheme()

	for _, c := range []*color.Color{
		scheme.Warning, scheme.Info, scheme.Error, scheme.Hint, scheme.Path,
		scheme.Code, scheme.Success, scheme.Highlight, scheme.DiffAdd, scheme.DiffDel,
	} {
		c.DisableColor()
	}

	return scheme
}

// ColorEnabled reports whether output written to f should be coloured.
// Colour is off when the user asked for none or f is not a terminal.
func ColorEnabled(f *os.File, noColor bool) bool {
	if noColor || f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SuccessIcon returns a checkmark symbol with appropriate color
func SuccessIcon(noColor bool) string {
	if noColor {
		return "✓"
	}
	return color.New(color.FgGreen).Sprint("✓")
}

// ErrorIcon returns an X symbol with appropriate color
func ErrorIcon(noColor bool) string {
	if noColor {
		return "✗"
	}
	return color.New(color.FgRed).Sprint("✗")
}

// InfoIcon returns an info symbol with appropriate color
func InfoIcon(noColor bool) string {
	if noColor {
		return "ℹ"
	}
	return color.New(color.FgBlue).Sprint("ℹ")
}

// WarningIcon returns a warning symbol with appropriate color
func WarningIcon(noColor bool) string {
	if noColor {
		return "⚠"
	}
	return color.New(color.FgYellow).Sprint("⚠")
}
