// Package script provides the low-level building blocks used to emit k6
// script text: an indentation-tracking line writer and the literal escaping
// routines every emitted name, address, and value passes through.
package script

import (
	"strings"
)

// indentUnit is the indentation emitted per nesting level
const indentUnit = "  "

// Fragment is a block of script lines with indentation relative to the
// point where it is inserted.
type Fragment []string

// Entry is one property of an object literal. An entry may span several
// lines; when it is followed by another entry the separating comma is placed
// on its last line.
type Entry []string

// Writer accumulates script text line by line and tracks the current
// indentation depth.
type Writer struct {
	lines []string
	depth int
}

// NewWriter creates an empty writer at depth zero
func NewWriter() *Writer {
	return &Writer{}
}

// Indent increases the indentation depth by one level
func (w *Writer) Indent() {
	w.depth++
}

// Dedent decreases the indentation depth by one level
func (w *Writer) Dedent() {
	if w.depth > 0 {
		w.depth--
	}
}

// Line writes a single line at the current indentation. An empty line is
// written without indentation.
func (w *Writer) Line(text string) {
	if text == "" {
		w.lines = append(w.lines, "")
		return
	}
	w.lines = append(w.lines, strings.Repeat(indentUnit, w.depth)+text)
}

// Block writes every line of a fragment at the current indentation
func (w *Writer) Block(lines []string) {
	for _, line := range lines {
		w.Line(line)
	}
}

// Object writes an object literal. The opening line is prefix followed by
// "{", the closing line is "}" followed by suffix, and entries are written
// one level deeper, separated by commas.
func (w *Writer) Object(prefix, suffix string, entries ...Entry) {
	w.Line(prefix + "{")
	w.Indent()
	w.Block(joinEntries(entries))
	w.Dedent()
	w.Line("}" + suffix)
}

// Fragment returns a copy of the lines written so far
func (w *Writer) Fragment() Fragment {
	out := make(Fragment, len(w.lines))
	copy(out, w.lines)
	return out
}

// String returns the accumulated text. Every line, including the last, is
// terminated by a newline.
func (w *Writer) String() string {
	if len(w.lines) == 0 {
		return ""
	}
	return strings.Join(w.lines, "\n") + "\n"
}

// Prop builds a single-line "key: value" entry
func Prop(key, value string) Entry {
	return Entry{key + ": " + value}
}

// Bare builds an entry consisting of the given text only, such as an
// object shorthand property.
func Bare(text string) Entry {
	return Entry{text}
}

// Nested builds a "key: { ... }" entry holding a nested object literal
func Nested(key string, entries ...Entry) Entry {
	return Wrap(key+": {", "}", entries...)
}

// Wrap builds an entry that opens with the given line, holds the entries
// one level deeper, and closes with the given line.
func Wrap(open, close string, body ...Entry) Entry {
	out := Entry{open}
	for _, line := range joinEntries(body) {
		if line == "" {
			out = append(out, "")
			continue
		}
		out = append(out, indentUnit+line)
	}
	return append(out, close)
}

// Method builds an object method entry whose body is the given fragment
func Method(signature string, body Fragment) Entry {
	out := Entry{signature + " {"}
	for _, line := range body {
		if line == "" {
			out = append(out, "")
			continue
		}
		out = append(out, indentUnit+line)
	}
	return append(out, "}")
}

// Inline renders entries on a single line as "{ a: 1, b: 2 }". Only
// single-line entries are supported.
func Inline(entries ...Entry) string {
	if len(entries) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, strings.Join(e, " "))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// joinEntries flattens entries into lines with commas between entries
func joinEntries(entries []Entry) []string {
	present := entries[:0:0]
	for _, e := range entries {
		if len(e) > 0 {
			present = append(present, e)
		}
	}

	var lines []string
	for i, e := range present {
		last := len(e) - 1
		for j, line := range e {
			if j == last && i < len(present)-1 {
				line += ","
			}
			lines = append(lines, line)
		}
	}
	return lines
}
