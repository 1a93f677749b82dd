package collection

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/wesleyorama2/k6convert/internal/diagnostic"
	"github.com/wesleyorama2/k6convert/pkg/jsonpath"
	"github.com/wesleyorama2/k6convert/pkg/jsonschema"
)

//go:embed schema.json
var schemaDocument string

// structure validates the shape of a collection before it is decoded
var structure = jsonschema.MustCompile(schemaDocument)

// versionPattern extracts the version segment of a schema URL
var versionPattern = regexp.MustCompile(`/v(\d+\.\d+\.\d+)/`)

// Decode parses a collection document and builds the normalised tree.
// Findings that do not prevent conversion are returned as diagnostics; any
// error aborts the conversion and no tree is returned.
func Decode(data []byte) (*Collection, diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics
	doc := string(data)

	if !jsonpath.Valid(doc) {
		return nil, diags, NewStructureError("", "document is not valid JSON")
	}
	if jsonpath.Kind(doc, "$") != "object" {
		return nil, diags, NewStructureError("", "document must be a JSON object")
	}

	// Detect the schema version first so old collections get a version error
	// rather than a list of missing fields
	version, err := DetectVersion(doc)
	if err != nil {
		return nil, diags, err
	}

	if errs := structure.Validate(doc); len(errs) > 0 {
		return nil, diags, NewStructureError("", "%s", errs.Error())
	}

	var raw rawCollection
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, diags, NewStructureError("", "%v", err)
	}

	d := &decoder{diags: &diags}
	c := &Collection{
		Name:      raw.Info.Name,
		Version:   version,
		Auth:      d.auth(raw.Auth),
		Variables: d.variables(raw.Variable),
	}
	d.events(raw.Event, "", "collection")

	children, err := d.items(raw.Item, c, "item")
	if err != nil {
		return nil, diags, err
	}
	c.Children = children

	if err := Resolve(c); err != nil {
		return nil, diags, err
	}
	return c, diags, nil
}

// DetectVersion reads info.schema and maps it to a supported version
func DetectVersion(doc string) (Version, error) {
	if !jsonpath.Exists(doc, "$.info") {
		// v1 collections have no info block but list requests at the top level
		if jsonpath.Exists(doc, "$.requests") || jsonpath.Exists(doc, "$.order") {
			return "", NewUnsupportedVersionError("1.0.0")
		}
		return "", NewStructureError("info", "collection info is required")
	}

	if jsonpath.Kind(doc, "$.info.schema") != "string" {
		return "", NewStructureError("info.schema", "schema URL is required")
	}
	schema, err := jsonpath.Extract(doc, "$.info.schema")
	if err != nil {
		return "", NewStructureError("info.schema", "%v", err)
	}

	switch {
	case strings.Contains(schema, "/v2.1.0/"):
		return V21, nil
	case strings.Contains(schema, "/v2.0.0/"):
		return V20, nil
	}

	if m := versionPattern.FindStringSubmatch(schema); m != nil {
		return "", NewUnsupportedVersionError(m[1])
	}
	return "", NewUnsupportedVersionError(schema)
}

// Resolve links every node of c to its parent and recomputes request paths
// and methods. It then computes the effective auth and variable scope of
// every request. Decode calls it; trees assembled by hand must go through it
// before they are rendered. Resolving an already resolved tree changes
// nothing.
func Resolve(c *Collection) error {
	if c == nil {
		return NewStructureError("", "collection is empty")
	}
	if err := link(c, c.Children, make(map[*Folder]bool)); err != nil {
		return err
	}

	for _, r := range c.Requests() {
		auth, err := ResolveAuth(r)
		if err != nil {
			return err
		}
		r.Auth = auth

		scope, err := ancestorScope(r, r.Variables)
		if err != nil {
			return err
		}
		r.Scope = scope
	}
	return nil
}

// link sets the parent of every child of parent. A folder that contains
// itself, directly or through its descendants, is rejected.
func link(parent container, children []Node, open map[*Folder]bool) error {
	for _, n := range children {
		switch n := n.(type) {
		case *Folder:
			if open[n] {
				return NewCircularInheritanceError(joinPath(parent.location(), n.Name))
			}
			n.parent = parent
			open[n] = true
			if err := link(n, n.Children, open); err != nil {
				return err
			}
			delete(open, n)
		case *Request:
			n.Method = strings.ToUpper(n.Method)
			if n.Method == "" {
				n.Method = "GET"
			}
			n.parent = parent
			n.Path = joinPath(parent.location(), n.Name)
		case nil:
			return NewStructureError(parent.location(), "nil node")
		}
	}
	return nil
}

// decoder builds tree nodes from raw items and records diagnostics
type decoder struct {
	diags *diagnostic.Diagnostics
}

// items converts the raw children of parent
func (d *decoder) items(raw []rawItem, parent container, path string) ([]Node, error) {
	nodes := make([]Node, 0, len(raw))
	for i, item := range raw {
		itemPath := fmt.Sprintf("%s[%d]", path, i)

		switch {
		case item.Item != nil:
			folder := &Folder{
				Name:      item.Name,
				Auth:      d.auth(item.Auth),
				Variables: d.variables(item.Variable),
				parent:    parent,
			}
			d.events(item.Event, folder.location(), "folder")

			children, err := d.items(item.Item, folder, itemPath+".item")
			if err != nil {
				return nil, err
			}
			folder.Children = children
			nodes = append(nodes, folder)

		case !isAbsent(item.Request):
			req, err := d.request(item, parent, itemPath)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, req)

		default:
			return nil, NewStructureError(itemPath, "item %q has neither a request nor child items", item.Name)
		}
	}
	return nodes, nil
}

// request converts a request item
func (d *decoder) request(item rawItem, parent container, path string) (*Request, error) {
	r := &Request{
		Name:      item.Name,
		Method:    "GET",
		Path:      joinPath(parent.location(), item.Name),
		Variables: d.variables(item.Variable),
		parent:    parent,
	}

	// A request may be given as a bare URL string
	if isString(item.Request) {
		var address string
		if err := json.Unmarshal(item.Request, &address); err != nil {
			return nil, NewStructureError(path+".request", "%v", err)
		}
		if address == "" {
			return nil, NewStructureError(path+".request", "url is required")
		}
		r.Address = address
		r.Events = d.events(item.Event, r.Path, "request")
		return r, nil
	}

	var raw rawRequest
	if err := json.Unmarshal(item.Request, &raw); err != nil {
		return nil, NewStructureError(path+".request", "%v", err)
	}

	if raw.Method != "" {
		r.Method = strings.ToUpper(raw.Method)
	}

	address, err := decodeURL(raw.URL, path+".request.url")
	if err != nil {
		return nil, err
	}
	r.Address = address

	headers, err := decodeHeaders(raw.Header, path+".request.header")
	if err != nil {
		return nil, err
	}
	r.Headers = headers

	r.Body = d.body(raw.Body, r.Path)
	// An explicit auth on the item itself is honoured too, the request's
	// own auth takes precedence
	r.Own = d.auth(raw.Auth)
	if r.Own == nil {
		r.Own = d.auth(item.Auth)
	}
	r.Events = d.events(item.Event, r.Path, "request")
	return r, nil
}

// auth converts an explicit auth definition; nil means inherit
func (d *decoder) auth(raw *rawAuth) *Auth {
	if raw == nil {
		return nil
	}
	t := strings.TrimSpace(raw.Type)
	if t == "" {
		return nil
	}
	params := raw.Params
	if params == nil {
		params = Params{}
	}
	return &Auth{Type: AuthType(t), Params: params}
}

// variables converts variable definitions, skipping disabled ones
func (d *decoder) variables(raw []rawVariable) Variables {
	var vars Variables
	for _, v := range raw {
		if v.Disabled {
			continue
		}
		key := v.Key
		if key == "" {
			key = v.ID
		}
		if key == "" {
			continue
		}
		vars = append(vars, Variable{Key: key, Value: scalarText(v.Value)})
	}
	return vars
}

// events records a diagnostic for every script that will not be converted
// and returns the names of the events found
func (d *decoder) events(raw []rawEvent, path, owner string) []string {
	var names []string
	for _, e := range raw {
		if e.Disabled || isAbsent(e.Script.Exec) {
			continue
		}
		lines := textList(e.Script.Exec)
		if strings.TrimSpace(strings.Join(lines, "")) == "" {
			continue
		}
		names = append(names, e.Listen)
		d.diags.Warn(diagnostic.CodeScriptSkipped, path, "%s script on %s is not converted", e.Listen, owner)
	}
	return names
}

// body converts a request body; unsupported parts are skipped with a
// warning
func (d *decoder) body(raw *rawBody, path string) *Body {
	if raw == nil || raw.Disabled {
		return nil
	}

	switch raw.Mode {
	case "raw":
		if raw.Raw == "" {
			return nil
		}
		return &Body{Mode: BodyRaw, Raw: raw.Raw}

	case "urlencoded":
		return fieldsBody(raw.URLEncoded)

	case "formdata":
		var kept []rawKeyValue
		for _, f := range raw.FormData {
			if f.Type == "file" {
				if !f.Disabled {
					d.diags.Warn(diagnostic.CodeBodySkipped, path, "form-data file field %q is not converted", f.Key)
				}
				continue
			}
			kept = append(kept, f)
		}
		return fieldsBody(kept)

	case "graphql":
		if raw.GraphQL == nil || raw.GraphQL.Query == "" {
			return nil
		}
		return &Body{Mode: BodyRaw, Raw: graphQLPayload(raw.GraphQL)}

	case "file":
		d.diags.Warn(diagnostic.CodeBodySkipped, path, "binary file body is not converted")
		return nil

	case "":
		return nil

	default:
		d.diags.Warn(diagnostic.CodeBodySkipped, path, "body mode %q is not converted", raw.Mode)
		return nil
	}
}

// fieldsBody converts enabled key/value entries into a fields body
func fieldsBody(entries []rawKeyValue) *Body {
	var fields []Field
	for _, e := range entries {
		if e.Disabled || e.Key == "" {
			continue
		}
		fields = append(fields, Field{Key: e.Key, Value: scalarText(e.Value)})
	}
	if len(fields) == 0 {
		return nil
	}
	return &Body{Mode: BodyFields, Fields: fields}
}

// graphQLPayload builds the JSON document a GraphQL body is sent as
func graphQLPayload(g *rawGraphQL) string {
	payload := struct {
		Query     string          `json:"query"`
		Variables json.RawMessage `json:"variables,omitempty"`
	}{Query: g.Query}

	if vars := strings.TrimSpace(g.Variables); vars != "" && json.Valid([]byte(vars)) {
		payload.Variables = json.RawMessage(vars)
	}

	// Marshal cannot fail for this shape once the variables are valid JSON
	out, _ := json.Marshal(payload)
	return string(out)
}

// decodeURL returns the address template of a request URL field
func decodeURL(raw json.RawMessage, path string) (string, error) {
	if isAbsent(raw) {
		return "", NewStructureError(path, "url is required")
	}

	if isString(raw) {
		var address string
		if err := json.Unmarshal(raw, &address); err != nil {
			return "", NewStructureError(path, "%v", err)
		}
		if address == "" {
			return "", NewStructureError(path, "url is required")
		}
		return address, nil
	}

	var u rawURL
	if err := json.Unmarshal(raw, &u); err != nil {
		return "", NewStructureError(path, "%v", err)
	}
	if u.Raw != "" {
		return u.Raw, nil
	}

	address := buildAddress(u)
	if address == "" {
		return "", NewStructureError(path, "url is required")
	}
	return address, nil
}

// buildAddress assembles an address from its structured parts
func buildAddress(u rawURL) string {
	var sb strings.Builder

	host := strings.Join(textList(u.Host), ".")
	if host == "" {
		return ""
	}
	if u.Protocol != "" {
		sb.WriteString(u.Protocol + "://")
	}
	sb.WriteString(host)
	if u.Port != "" {
		sb.WriteString(":" + u.Port)
	}
	if segments := textList(u.Path); len(segments) > 0 {
		sb.WriteString("/" + strings.Join(segments, "/"))
	}

	var query []string
	for _, q := range u.Query {
		if q.Disabled {
			continue
		}
		if isAbsent(q.Value) {
			query = append(query, q.Key)
			continue
		}
		query = append(query, q.Key+"="+scalarText(q.Value))
	}
	if len(query) > 0 {
		sb.WriteString("?" + strings.Join(query, "&"))
	}
	return sb.String()
}

// decodeHeaders reads headers given as a list of entries or as a
// "Key: Value" block
func decodeHeaders(raw json.RawMessage, path string) ([]Header, error) {
	if isAbsent(raw) {
		return nil, nil
	}

	if isString(raw) {
		var block string
		if err := json.Unmarshal(raw, &block); err != nil {
			return nil, NewStructureError(path, "%v", err)
		}
		var headers []Header
		for _, line := range strings.Split(block, "\n") {
			key, value, ok := strings.Cut(line, ":")
			key = strings.TrimSpace(key)
			if !ok || key == "" {
				continue
			}
			headers = append(headers, Header{Key: key, Value: strings.TrimSpace(value)})
		}
		return headers, nil
	}

	var entries []rawKeyValue
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, NewStructureError(path, "%v", err)
	}

	var headers []Header
	for _, e := range entries {
		if e.Disabled || e.Key == "" {
			continue
		}
		headers = append(headers, Header{Key: e.Key, Value: scalarText(e.Value)})
	}
	return headers, nil
}
