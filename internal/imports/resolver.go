package imports

import (
	"slices"
	"sort"
)

// Resolver collects import requests while a collection is walked and
// produces the deduplicated, order-stable import list. A Resolver belongs to
// a single conversion and must not be shared.
type Resolver struct {
	order []Import
	index map[string]int
}

// NewResolver creates a resolver that already holds the shim
func NewResolver() *Resolver {
	r := &Resolver{index: make(map[string]int)}
	r.Require(Shim)
	return r
}

// Require records that the script needs the given imports. The first
// request for a specifier fixes its position; later requests only add
// bindings it did not have yet.
func (r *Resolver) Require(imps ...Import) {
	for _, imp := range imps {
		pos, ok := r.index[imp.Specifier]
		if !ok {
			imp.Named = slices.Clone(imp.Named)
			r.index[imp.Specifier] = len(r.order)
			r.order = append(r.order, imp)
			continue
		}

		existing := &r.order[pos]
		if existing.Default == "" {
			existing.Default = imp.Default
		}
		for _, name := range imp.Named {
			if !slices.Contains(existing.Named, name) {
				existing.Named = append(existing.Named, name)
			}
		}
	}
}

// Has reports whether a specifier has been requested
func (r *Resolver) Has(imp Import) bool {
	_, ok := r.index[imp.Specifier]
	return ok
}

// Resolve returns the imports grouped by kind. Within a kind, imports keep
// the order in which they were first requested.
func (r *Resolver) Resolve() []Import {
	out := slices.Clone(r.order)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Kind < out[j].Kind
	})
	return out
}

// Statements renders the resolved imports as import statements
func (r *Resolver) Statements(libs string) []string {
	resolved := r.Resolve()
	lines := make([]string, 0, len(resolved))
	for _, imp := range resolved {
		lines = append(lines, imp.Statement(libs))
	}
	return lines
}
