package script

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches {{name}} variable references
var placeholderPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// Quote renders s as a double-quoted JavaScript string literal. All literal
// text placed into a generated script goes through Quote or Value.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' {
			b.WriteString(`\"`)
			continue
		}
		writeEscaped(&b, r)
	}
	b.WriteByte('"')
	return b.String()
}

// Value renders s as a JavaScript expression. Plain text becomes a quoted
// string; text holding {{name}} placeholders becomes a template literal that
// resolves each placeholder through Var at run time.
func Value(s string) string {
	matches := placeholderPattern.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return Quote(s)
	}

	var b strings.Builder
	b.WriteByte('`')
	last := 0
	for _, m := range matches {
		writeTemplateText(&b, s[last:m[0]])
		name := strings.TrimSpace(s[m[2]:m[3]])
		b.WriteString("${Var(" + Quote(name) + ")}")
		last = m[1]
	}
	writeTemplateText(&b, s[last:])
	b.WriteByte('`')
	return b.String()
}

// Property renders a member access for name: ".name" when name is a valid
// identifier, otherwise a computed ["name"] access.
func Property(name string) string {
	if IsIdentifier(name) {
		return "." + name
	}
	return "[" + Value(name) + "]"
}

// IsIdentifier reports whether name can be used as a bare JavaScript
// identifier.
func IsIdentifier(name string) bool {
	if name == "" || reserved[name] {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// Placeholders returns the variable names referenced by s in order of
// appearance, without duplicates.
func Placeholders(s string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		name := strings.TrimSpace(m[1])
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// writeTemplateText writes text escaped for use inside a template literal
func writeTemplateText(b *strings.Builder, text string) {
	for i, r := range text {
		switch {
		case r == '`':
			b.WriteString("\\`")
		case r == '$' && strings.HasPrefix(text[i:], "${"):
			b.WriteString(`\$`)
		default:
			writeEscaped(b, r)
		}
	}
}

// writeEscaped writes a single rune escaped for any JavaScript string form
func writeEscaped(b *strings.Builder, r rune) {
	switch r {
	case '\\':
		b.WriteString(`\\`)
	case '\n':
		b.WriteString(`\n`)
	case '\r':
		b.WriteString(`\r`)
	case '\t':
		b.WriteString(`\t`)
	case '\b':
		b.WriteString(`\b`)
	case '\f':
		b.WriteString(`\f`)
	case '\u2028', '\u2029':
		fmt.Fprintf(b, `\u%04x`, r)
	default:
		if r < 0x20 || r == 0x7f {
			fmt.Fprintf(b, `\u%04x`, r)
			return
		}
		b.WriteRune(r)
	}
}

// reserved lists words that cannot be used as bare identifiers
var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "yield": true, "let": true, "static": true, "enum": true,
	"await": true,
}
