// Package collection turns a Postman collection document (schema v2.0 or
// v2.1) into a uniform tree of folders and requests with auth and variable
// inheritance already resolved.
//
// Decode builds and resolves the tree in one step. A tree assembled by hand
// is resolved with Resolve. Once resolved it must be treated as read-only;
// the emitter walks it without modifying it.
package collection

import (
	"strings"
)

// Version identifies a supported collection schema version
type Version string

const (
	V20 Version = "2.0.0"
	V21 Version = "2.1.0"
)

// Node is either a *Folder or a *Request
type Node interface {
	// Label returns the display name of the node
	Label() string
	node()
}

// container is a node that can hold children and define auth and variables
// for them: the collection root or a folder.
type container interface {
	parentContainer() container
	explicitAuth() *Auth
	variables() Variables
	location() string
}

// Collection is the root of the tree
type Collection struct {
	Name      string
	Version   Version
	Auth      *Auth
	Variables Variables
	Children  []Node
}

// Folder groups requests and other folders
type Folder struct {
	Name      string
	Auth      *Auth
	Variables Variables
	Children  []Node

	parent container
}

// Request is a single HTTP request of the collection
type Request struct {
	Name   string
	Method string
	// Address is the URL template, placeholders intact
	Address string
	Body    *Body
	Headers []Header
	// Own is the auth defined directly on the request, nil when inherited
	Own *Auth
	// Auth is the effective auth after inheritance, specialised to a
	// strategy tag
	Auth Auth
	// Variables are the variables defined on the request item itself
	Variables Variables
	// Scope is the variable scope visible to the request
	Scope Scope
	// Path is the location of the request, e.g. "Users / Admin / Get user"
	Path string
	// Events lists the script events attached to the request item
	Events []string

	parent container
}

// Header is a preset request header
type Header struct {
	Key   string
	Value string
}

// BodyMode tells how a request body is represented
type BodyMode string

const (
	BodyRaw    BodyMode = "raw"
	BodyFields BodyMode = "fields"
)

// Body is a request body. Raw bodies carry text; urlencoded and form-data
// bodies carry ordered fields.
type Body struct {
	Mode   BodyMode
	Raw    string
	Fields []Field
}

// Field is a single key/value pair of a form body
type Field struct {
	Key   string
	Value string
}

// Variable is a named value defined on the collection, a folder, or a
// request item.
type Variable struct {
	Key   string
	Value string
}

// Variables is an ordered set of variable definitions
type Variables []Variable

// Lookup returns the value of the last definition of name
func (vs Variables) Lookup(name string) (string, bool) {
	for i := len(vs) - 1; i >= 0; i-- {
		if vs[i].Key == name {
			return vs[i].Value, true
		}
	}
	return "", false
}

// Has reports whether name is defined
func (vs Variables) Has(name string) bool {
	_, ok := vs.Lookup(name)
	return ok
}

// Scope is a layered variable mapping, outermost layer first. Lookups
// return the nearest definition.
type Scope struct {
	layers []Variables
}

// NewScope creates a scope from layers ordered outermost first
func NewScope(layers ...Variables) Scope {
	var kept []Variables
	for _, l := range layers {
		if len(l) > 0 {
			kept = append(kept, l)
		}
	}
	return Scope{layers: kept}
}

// Lookup resolves name against the innermost layer defining it
func (s Scope) Lookup(name string) (string, bool) {
	for i := len(s.layers) - 1; i >= 0; i-- {
		if v, ok := s.layers[i].Lookup(name); ok {
			return v, true
		}
	}
	return "", false
}

// Has reports whether any layer defines name
func (s Scope) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Label returns the folder name
func (f *Folder) Label() string { return f.Name }

// Label returns the request name
func (r *Request) Label() string { return r.Name }

func (*Folder) node()  {}
func (*Request) node() {}

func (c *Collection) parentContainer() container { return nil }
func (c *Collection) explicitAuth() *Auth        { return c.Auth }
func (c *Collection) variables() Variables       { return c.Variables }
func (c *Collection) location() string           { return "" }

func (f *Folder) parentContainer() container { return f.parent }
func (f *Folder) explicitAuth() *Auth        { return f.Auth }
func (f *Folder) variables() Variables       { return f.Variables }

func (f *Folder) location() string {
	if f.parent == nil {
		return f.Name
	}
	return joinPath(f.parent.location(), f.Name)
}

// Requests returns every request of the tree in depth-first order
func (c *Collection) Requests() []*Request {
	var out []*Request
	walkRequests(c.Children, &out)
	return out
}

// Counts returns the number of folders and requests in the tree
func (c *Collection) Counts() (folders, requests int) {
	var count func(nodes []Node)
	count = func(nodes []Node) {
		for _, n := range nodes {
			switch n := n.(type) {
			case *Folder:
				folders++
				count(n.Children)
			case *Request:
				requests++
			}
		}
	}
	count(c.Children)
	return folders, requests
}

// walkRequests appends requests of nodes in depth-first order
func walkRequests(nodes []Node, out *[]*Request) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Folder:
			walkRequests(n.Children, out)
		case *Request:
			*out = append(*out, n)
		}
	}
}

// joinPath joins location segments with " / "
func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return strings.Join([]string{parent, name}, " / ")
}
