// Package emit renders a normalised collection tree as k6 script text.
//
// Rendering is a single depth-first walk. Folders become nested group
// wrappers, requests become postman[Request] calls, and each request's auth
// strategy contributes the body of its auth method and the helper imports it
// needs. The import block is finalised after the walk so only helpers that
// are actually used are referenced.
package emit

import (
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wesleyorama2/k6convert/internal/auth"
	"github.com/wesleyorama2/k6convert/internal/collection"
	"github.com/wesleyorama2/k6convert/internal/config"
	"github.com/wesleyorama2/k6convert/internal/diagnostic"
	"github.com/wesleyorama2/k6convert/internal/imports"
	"github.com/wesleyorama2/k6convert/internal/script"
)

// Header is the first line of every generated script
const Header = "// Auto-generated by the Load Impact converter"

// Emitter renders collection trees. An Emitter holds no per-conversion
// state and may be shared between goroutines.
type Emitter struct {
	registry *auth.Registry
	settings config.Settings
	logger   *zap.Logger
}

// New creates an emitter. A nil registry selects the built-in strategies
// and a nil logger discards log output.
func New(registry *auth.Registry, settings config.Settings, logger *zap.Logger) *Emitter {
	if registry == nil {
		registry = auth.DefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if settings.Libs == "" {
		settings.Libs = imports.DefaultLibs
	}
	return &Emitter{registry: registry, settings: settings, logger: logger}
}

// render holds the state of one Render call
type render struct {
	*Emitter
	resolver *imports.Resolver
	body     *script.Writer
	diags    diagnostic.Diagnostics
}

// Render returns the script for c. The tree is not modified. On error no
// script text is returned.
func (e *Emitter) Render(c *collection.Collection) (string, diagnostic.Diagnostics, error) {
	r := &render{
		Emitter:  e,
		resolver: imports.NewResolver(),
		body:     script.NewWriter(),
	}

	r.body.Indent()
	if err := r.nodes(c.Children); err != nil {
		return "", r.diags, err
	}

	folders, requests := c.Counts()
	r.diags.Info(diagnostic.CodeSummary, "", "converted %d requests in %d folders", requests, folders)

	out := script.NewWriter()
	out.Line(Header)
	out.Line("")
	out.Block(r.resolver.Statements(e.settings.Libs))
	out.Line("")
	out.Line("export let options = " + e.options() + ";")
	out.Line("")
	out.Line(`const Request = Symbol.for("request");`)
	out.Object(`postman[Symbol.for("initial")](`, ");", e.initial(c)...)
	out.Line("")
	out.Line("export default function() {")
	out.Block(r.body.Fragment())
	out.Line("}")

	e.logger.Debug("script rendered",
		zap.String("collection", c.Name),
		zap.Int("requests", requests),
		zap.Int("folders", folders),
		zap.Int("imports", len(r.resolver.Resolve())),
	)
	return out.String(), r.diags, nil
}

// options renders the script options object
func (e *Emitter) options() string {
	entries := []script.Entry{script.Prop("maxRedirects", strconv.Itoa(e.settings.MaxRedirects))}
	if e.settings.Iterations > 0 {
		entries = append(entries, script.Prop("iterations", strconv.Itoa(e.settings.Iterations)))
	}
	if e.settings.VUs > 0 {
		entries = append(entries, script.Prop("vus", strconv.Itoa(e.settings.VUs)))
	}
	if e.settings.Duration != "" {
		entries = append(entries, script.Prop("duration", script.Quote(e.settings.Duration)))
	}
	return script.Inline(entries...)
}

// initial renders the entries of the initial block: the options followed
// by every non-empty variable set
func (e *Emitter) initial(c *collection.Collection) []script.Entry {
	entries := []script.Entry{script.Bare("options")}
	sets := []struct {
		name string
		vars collection.Variables
	}{
		{"global", e.settings.Globals},
		{"collection", c.Variables},
		{"environment", e.settings.Environment},
	}
	for _, set := range sets {
		if len(set.vars) == 0 {
			continue
		}
		vars := make([]script.Entry, 0, len(set.vars))
		for _, v := range set.vars {
			vars = append(vars, script.Prop(script.Quote(v.Key), script.Quote(v.Value)))
		}
		entries = append(entries, script.Nested(set.name, vars...))
	}
	return entries
}

// nodes renders children in declaration order
func (r *render) nodes(children []collection.Node) error {
	for _, n := range children {
		switch n := n.(type) {
		case *collection.Folder:
			if err := r.folder(n); err != nil {
				return err
			}
		case *collection.Request:
			if err := r.request(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// folder renders a group wrapper around the folder's children
func (r *render) folder(f *collection.Folder) error {
	r.resolver.Require(imports.Group)

	r.body.Line("group(" + script.Quote(f.Name) + ", function() {")
	r.body.Indent()
	if err := r.nodes(f.Children); err != nil {
		return err
	}
	r.body.Dedent()
	r.body.Line("});")
	return nil
}

// request renders a single postman[Request] call
func (r *render) request(req *collection.Request) error {
	entries := []script.Entry{
		script.Prop("name", script.Quote(req.Name)),
		script.Prop("method", script.Quote(req.Method)),
		script.Prop("address", script.Quote(req.Address)),
	}
	if req.Body != nil {
		entries = append(entries, data(req.Body))
	}
	if len(req.Headers) > 0 {
		headers := make([]script.Entry, 0, len(req.Headers))
		for _, h := range req.Headers {
			headers = append(headers, script.Prop(script.Quote(h.Key), script.Quote(h.Value)))
		}
		entries = append(entries, script.Nested("headers", headers...))
	}

	fragment, err := r.auth(req)
	if err != nil {
		return err
	}
	if len(fragment) > 0 {
		entries = append(entries, script.Method("auth(config, Var)", fragment))
	}

	r.body.Object("postman[Request](", ");", entries...)
	r.checkVariables(req)
	return nil
}

// auth selects the request's strategy, records its imports, and returns
// its fragment
func (r *render) auth(req *collection.Request) (script.Fragment, error) {
	if req.Auth.IsNone() {
		return nil, nil
	}

	strategy, err := r.registry.Require(req.Auth.Type, req.Path)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("auth strategy selected",
		zap.String("request", req.Path),
		zap.String("type", string(req.Auth.Type)),
		zap.Bool("inherited", req.Own == nil),
	)
	if req.Own == nil {
		r.diags.Info(diagnostic.CodeAuthInherited, req.Path, "%s auth inherited from an ancestor", req.Auth.Type)
	}

	r.resolver.Require(strategy.RequiredImports(req.Auth.Params)...)
	return strategy.Emit(auth.Input{Method: req.Method, Params: req.Auth.Params}), nil
}

// data renders a request body
func data(b *collection.Body) script.Entry {
	if b.Mode == collection.BodyFields {
		fields := make([]script.Entry, 0, len(b.Fields))
		for _, f := range b.Fields {
			fields = append(fields, script.Prop(script.Quote(f.Key), script.Quote(f.Value)))
		}
		return script.Nested("data", fields...)
	}
	return script.Prop("data", script.Quote(b.Raw))
}

// checkVariables warns about placeholders the request references that no
// scope defines. Dynamic variables ({{$guid}} and friends) are provided by
// the runtime.
func (r *render) checkVariables(req *collection.Request) {
	seen := make(map[string]bool)
	for _, text := range referencedText(req) {
		for _, name := range script.Placeholders(text) {
			if seen[name] || strings.HasPrefix(name, "$") {
				continue
			}
			seen[name] = true
			if req.Scope.Has(name) || r.settings.Environment.Has(name) || r.settings.Globals.Has(name) {
				continue
			}
			r.diags.Warn(diagnostic.CodeUndefinedVariable, req.Path, "variable %q is not defined", name)
		}
	}
}

// referencedText lists every piece of request text that may hold
// placeholders, in a fixed order
func referencedText(req *collection.Request) []string {
	out := []string{req.Address}
	for _, h := range req.Headers {
		out = append(out, h.Key, h.Value)
	}
	if req.Body != nil {
		out = append(out, req.Body.Raw)
		for _, f := range req.Body.Fields {
			out = append(out, f.Key, f.Value)
		}
	}
	keys := make([]string, 0, len(req.Auth.Params))
	for k := range req.Auth.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, req.Auth.Params[k])
	}
	return out
}
