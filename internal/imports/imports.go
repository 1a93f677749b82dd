// Package imports resolves the helper-library references a generated script
// needs and renders them as import statements in canonical order.
package imports

import (
	"path"
	"strings"
)

// Kind groups imports into the blocks of the canonical import order
type Kind int

const (
	// KindPolyfill imports must load before everything else
	KindPolyfill Kind = iota
	// KindShim is the request-execution shim, always present
	KindShim
	// KindLibrary imports are helper libraries bundled next to the script
	KindLibrary
	// KindModule imports are provided by the k6 runtime itself
	KindModule
)

// String returns a human-readable kind name
func (k Kind) String() string {
	switch k {
	case KindPolyfill:
		return "polyfill"
	case KindShim:
		return "shim"
	case KindLibrary:
		return "library"
	case KindModule:
		return "module"
	default:
		return "unknown"
	}
}

// Import is a single helper reference. Specifier is relative to the libs
// directory for polyfills, the shim and libraries, and used as-is for
// runtime modules.
type Import struct {
	Specifier string
	// Default is the default-import binding name, if any
	Default string
	// Named are the named-import bindings, if any
	Named []string
	Kind  Kind
}

// Catalogue of every helper the converter knows how to reference
var (
	SpoGpo = Import{Specifier: "spo-gpo.js", Kind: KindPolyfill}
	Shim   = Import{Specifier: "shim/core.js", Kind: KindShim}
	URI    = Import{Specifier: "urijs.js", Default: "URI", Kind: KindLibrary}
	OAuth  = Import{Specifier: "oauth-1.0a.js", Default: "OAuth", Kind: KindLibrary}
	AWS4   = Import{Specifier: "aws4.js", Default: "aws4", Kind: KindLibrary}
	Group  = Import{Specifier: "k6", Named: []string{"group"}, Kind: KindModule}
	HMAC   = Import{Specifier: "k6/crypto", Named: []string{"hmac"}, Kind: KindModule}
)

// DefaultLibs is the directory bundled helpers are referenced from
const DefaultLibs = "./libs"

// Path returns the module specifier as written in the import statement
func (i Import) Path(libs string) string {
	if i.Kind == KindModule {
		return i.Specifier
	}
	if libs == "" {
		libs = DefaultLibs
	}
	joined := path.Join(libs, i.Specifier)
	if strings.HasPrefix(libs, "./") && !strings.HasPrefix(joined, "./") {
		joined = "./" + joined
	}
	return joined
}

// Statement renders the import statement for i
func (i Import) Statement(libs string) string {
	from := `"` + i.Path(libs) + `"`

	var bindings []string
	if i.Default != "" {
		bindings = append(bindings, i.Default)
	}
	if len(i.Named) > 0 {
		bindings = append(bindings, "{ "+strings.Join(i.Named, ", ")+" }")
	}

	if len(bindings) == 0 {
		return "import " + from + ";"
	}
	return "import " + strings.Join(bindings, ", ") + " from " + from + ";"
}
