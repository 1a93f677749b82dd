package collection

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/k6convert/internal/diagnostic"
)

const schemaV21 = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"
const schemaV20 = "https://schema.getpostman.com/json/collection/v2.0.0/collection.json"

func mustDecode(t *testing.T, doc string) (*Collection, diagnostic.Diagnostics) {
	t.Helper()
	c, diags, err := Decode([]byte(doc))
	require.NoError(t, err)
	require.NotNil(t, c)
	return c, diags
}

func TestDecode_SingleRequest(t *testing.T) {
	c, diags := mustDecode(t, `{
		"info": {"name": "Example", "schema": "`+schemaV21+`"},
		"item": [
			{
				"name": "TestRequest",
				"request": {"method": "get", "url": {"raw": "http://example.com/"}}
			}
		]
	}`)

	assert.Equal(t, "Example", c.Name)
	assert.Equal(t, V21, c.Version)
	assert.True(t, diags.IsEmpty())
	require.Len(t, c.Children, 1)

	r, ok := c.Children[0].(*Request)
	require.True(t, ok, "expected a request node")
	assert.Equal(t, "TestRequest", r.Name)
	assert.Equal(t, "GET", r.Method)
	assert.Equal(t, "http://example.com/", r.Address)
	assert.Nil(t, r.Body)
	assert.Nil(t, r.Headers)
	assert.Nil(t, r.Own)
	assert.Equal(t, NoAuth, r.Auth.Type)
	assert.Equal(t, "TestRequest", r.Path)
}

func TestDecode_PreservesOrderAndNesting(t *testing.T) {
	c, _ := mustDecode(t, `{
		"info": {"name": "Nested", "schema": "`+schemaV21+`"},
		"item": [
			{"name": "First", "request": "http://example.com/1"},
			{"name": "F1", "item": [
				{"name": "F2", "item": [
					{"name": "Deep", "request": {"url": "http://example.com/deep"}}
				]},
				{"name": "Second", "request": "http://example.com/2"}
			]},
			{"name": "Last", "request": "http://example.com/3"}
		]
	}`)

	require.Len(t, c.Children, 3)
	assert.Equal(t, "First", c.Children[0].Label())
	assert.Equal(t, "F1", c.Children[1].Label())
	assert.Equal(t, "Last", c.Children[2].Label())

	f1 := c.Children[1].(*Folder)
	require.Len(t, f1.Children, 2)
	f2 := f1.Children[0].(*Folder)
	assert.Equal(t, "F2", f2.Name)
	assert.Equal(t, "Second", f1.Children[1].Label())

	deep := f2.Children[0].(*Request)
	assert.Equal(t, "F1 / F2 / Deep", deep.Path)
	assert.Equal(t, "GET", deep.Method)

	var names []string
	for _, r := range c.Requests() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"First", "Deep", "Second", "Last"}, names)

	folders, requests := c.Counts()
	assert.Equal(t, 2, folders)
	assert.Equal(t, 4, requests)
}

func TestDecode_EmptyFolder(t *testing.T) {
	c, _ := mustDecode(t, `{
		"info": {"name": "Empty", "schema": "`+schemaV21+`"},
		"item": [{"name": "Nothing here", "item": []}]
	}`)

	require.Len(t, c.Children, 1)
	folder, ok := c.Children[0].(*Folder)
	require.True(t, ok)
	assert.Empty(t, folder.Children)
}

func TestDecode_AddressKeptVerbatim(t *testing.T) {
	c, _ := mustDecode(t, `{
		"info": {"name": "Vars", "schema": "`+schemaV21+`"},
		"item": [{"name": "R", "request": {"url": {"raw": "{{baseUrl}}/users/{{id}}?q={{query}}"}}}]
	}`)

	assert.Equal(t, "{{baseUrl}}/users/{{id}}?q={{query}}", c.Requests()[0].Address)
}

func TestDecode_StructuredURL(t *testing.T) {
	c, _ := mustDecode(t, `{
		"info": {"name": "URL", "schema": "`+schemaV21+`"},
		"item": [{"name": "R", "request": {"url": {
			"protocol": "https",
			"host": ["api", "example", "com"],
			"port": "8443",
			"path": ["v1", "users", {"type": "string", "value": ":id"}],
			"query": [
				{"key": "page", "value": "2"},
				{"key": "skip", "value": "1", "disabled": true},
				{"key": "flag", "value": null}
			]
		}}}]
	}`)

	assert.Equal(t, "https://api.example.com:8443/v1/users/:id?page=2&flag", c.Requests()[0].Address)
}

func TestDecode_HeadersAndBodies(t *testing.T) {
	c, diags := mustDecode(t, `{
		"info": {"name": "Bodies", "schema": "`+schemaV21+`"},
		"item": [
			{"name": "Raw", "request": {
				"method": "POST",
				"url": "http://example.com/",
				"header": [
					{"key": "Content-Type", "value": "application/json"},
					{"key": "X-Skip", "value": "1", "disabled": true},
					{"key": "X-Trace", "value": "{{trace}}"}
				],
				"body": {"mode": "raw", "raw": "{\"a\": 1}"}
			}},
			{"name": "Form", "request": {
				"method": "POST",
				"url": "http://example.com/",
				"body": {"mode": "urlencoded", "urlencoded": [
					{"key": "user", "value": "alice"},
					{"key": "off", "value": "x", "disabled": true},
					{"key": "count", "value": 3}
				]}
			}},
			{"name": "Multipart", "request": {
				"method": "POST",
				"url": "http://example.com/",
				"body": {"mode": "formdata", "formdata": [
					{"key": "name", "value": "report", "type": "text"},
					{"key": "upload", "src": "/tmp/a.txt", "type": "file"}
				]}
			}},
			{"name": "Graph", "request": {
				"method": "POST",
				"url": "http://example.com/graphql",
				"body": {"mode": "graphql", "graphql": {"query": "{ me { id } }", "variables": "{\"x\": 1}"}}
			}},
			{"name": "Block headers", "request": {
				"url": "http://example.com/",
				"header": "Accept: text/plain\nX-Empty:\n"
			}}
		]
	}`)

	requests := c.Requests()
	require.Len(t, requests, 5)

	raw := requests[0]
	assert.Equal(t, "POST", raw.Method)
	assert.Equal(t, []Header{
		{Key: "Content-Type", Value: "application/json"},
		{Key: "X-Trace", Value: "{{trace}}"},
	}, raw.Headers)
	require.NotNil(t, raw.Body)
	assert.Equal(t, BodyRaw, raw.Body.Mode)
	assert.Equal(t, `{"a": 1}`, raw.Body.Raw)

	form := requests[1]
	require.NotNil(t, form.Body)
	assert.Equal(t, BodyFields, form.Body.Mode)
	assert.Equal(t, []Field{{Key: "user", Value: "alice"}, {Key: "count", Value: "3"}}, form.Body.Fields)

	multipart := requests[2]
	require.NotNil(t, multipart.Body)
	assert.Equal(t, []Field{{Key: "name", Value: "report"}}, multipart.Body.Fields)

	graph := requests[3]
	require.NotNil(t, graph.Body)
	assert.Equal(t, `{"query":"{ me { id } }","variables":{"x":1}}`, graph.Body.Raw)

	block := requests[4]
	assert.Equal(t, []Header{{Key: "Accept", Value: "text/plain"}, {Key: "X-Empty", Value: ""}}, block.Headers)

	skipped := diags.ByCode(diagnostic.CodeBodySkipped)
	require.Len(t, skipped, 1)
	assert.Equal(t, "Multipart", skipped[0].Path)
	assert.Contains(t, skipped[0].Message, "upload")
}

func TestDecode_ScriptsProduceWarnings(t *testing.T) {
	c, diags := mustDecode(t, `{
		"info": {"name": "Scripts", "schema": "`+schemaV21+`"},
		"event": [{"listen": "prerequest", "script": {"exec": ["console.log(1)"]}}],
		"item": [
			{"name": "F", "item": [
				{"name": "R", "request": "http://example.com/",
				 "event": [
					{"listen": "test", "script": {"exec": ["pm.test('ok', () => {})"]}},
					{"listen": "prerequest", "script": {"exec": [""]}}
				 ]}
			]}
		]
	}`)

	warnings := diags.ByCode(diagnostic.CodeScriptSkipped)
	require.Len(t, warnings, 2)
	assert.Equal(t, "", warnings[0].Path)
	assert.Equal(t, "F / R", warnings[1].Path)
	assert.Contains(t, warnings[1].Message, "test script")
	assert.Equal(t, []string{"test"}, c.Requests()[0].Events)
}

func TestDecode_AuthParameterForms(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		auth   string
	}{
		{
			name:   "v2.1 list form",
			schema: schemaV21,
			auth:   `{"type": "basic", "basic": [{"key": "username", "value": "user123"}, {"key": "password", "value": "secret"}, {"key": "saveHelperData", "value": true}]}`,
		},
		{
			name:   "v2.0 object form",
			schema: schemaV20,
			auth:   `{"type": "basic", "basic": {"username": "user123", "password": "secret", "saveHelperData": true}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := mustDecode(t, `{
				"info": {"name": "Auth", "schema": "`+tt.schema+`"},
				"item": [{"name": "R", "request": {"url": "http://example.com/", "auth": `+tt.auth+`}}]
			}`)

			r := c.Requests()[0]
			require.NotNil(t, r.Own)
			assert.Equal(t, Basic, r.Auth.Type)
			assert.Equal(t, "user123", r.Auth.Params.Get("username"))
			assert.Equal(t, "secret", r.Auth.Params.Get("password"))
			assert.True(t, r.Auth.Params.Bool("saveHelperData"))
		})
	}
}

func TestDecode_Variables(t *testing.T) {
	c, _ := mustDecode(t, `{
		"info": {"name": "Vars", "schema": "`+schemaV21+`"},
		"variable": [
			{"key": "host", "value": "example.com"},
			{"key": "port", "value": 80},
			{"key": "off", "value": "x", "disabled": true}
		],
		"item": [
			{"name": "F", "variable": [{"key": "host", "value": "folder.example.com"}], "item": [
				{"name": "R", "request": "http://{{host}}/", "variable": [{"id": "local", "value": "1"}]}
			]},
			{"name": "Top", "request": "http://{{host}}/"}
		]
	}`)

	assert.Equal(t, Variables{{Key: "host", Value: "example.com"}, {Key: "port", Value: "80"}}, c.Variables)

	requests := c.Requests()
	inner := requests[0]
	host, ok := inner.Scope.Lookup("host")
	assert.True(t, ok)
	assert.Equal(t, "folder.example.com", host)
	port, _ := inner.Scope.Lookup("port")
	assert.Equal(t, "80", port)
	assert.True(t, inner.Scope.Has("local"))
	assert.False(t, inner.Scope.Has("off"))

	top := requests[1]
	host, _ = top.Scope.Lookup("host")
	assert.Equal(t, "example.com", host)
	assert.False(t, top.Scope.Has("local"))
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		check func(t *testing.T, err error)
	}{
		{
			name: "not JSON",
			doc:  `{"info": `,
			check: func(t *testing.T, err error) {
				var target *StructureError
				require.True(t, errors.As(err, &target))
			},
		},
		{
			name: "not an object",
			doc:  `[1, 2]`,
			check: func(t *testing.T, err error) {
				var target *StructureError
				require.True(t, errors.As(err, &target))
			},
		},
		{
			name: "v1 collection",
			doc:  `{"id": "abc", "name": "Old", "requests": [], "order": []}`,
			check: func(t *testing.T, err error) {
				var target *UnsupportedVersionError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "1.0.0", target.Version)
				assert.NotEmpty(t, errors.GetAllHints(err))
			},
		},
		{
			name: "unknown schema version",
			doc:  `{"info": {"name": "X", "schema": "https://schema.getpostman.com/json/collection/v3.0.0/collection.json"}, "item": []}`,
			check: func(t *testing.T, err error) {
				var target *UnsupportedVersionError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "3.0.0", target.Version)
			},
		},
		{
			name: "unrecognised schema URL",
			doc:  `{"info": {"name": "X", "schema": "https://example.com/other.json"}, "item": []}`,
			check: func(t *testing.T, err error) {
				var target *UnsupportedVersionError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "https://example.com/other.json", target.Version)
			},
		},
		{
			name: "missing info",
			doc:  `{"item": []}`,
			check: func(t *testing.T, err error) {
				var target *StructureError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "info", target.Path)
			},
		},
		{
			name: "missing schema",
			doc:  `{"info": {"name": "X"}, "item": []}`,
			check: func(t *testing.T, err error) {
				var target *StructureError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "info.schema", target.Path)
			},
		},
		{
			name: "missing item list",
			doc:  `{"info": {"name": "X", "schema": "` + schemaV21 + `"}}`,
			check: func(t *testing.T, err error) {
				var target *StructureError
				require.True(t, errors.As(err, &target))
				assert.Contains(t, target.Message, "item")
			},
		},
		{
			name: "item without name",
			doc:  `{"info": {"name": "X", "schema": "` + schemaV21 + `"}, "item": [{"request": "http://example.com/"}]}`,
			check: func(t *testing.T, err error) {
				var target *StructureError
				require.True(t, errors.As(err, &target))
				assert.Contains(t, target.Message, "/item/0")
			},
		},
		{
			name: "item with neither request nor children",
			doc:  `{"info": {"name": "X", "schema": "` + schemaV21 + `"}, "item": [{"name": "F", "item": [{"name": "Lonely"}]}]}`,
			check: func(t *testing.T, err error) {
				var target *StructureError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "item[0].item[0]", target.Path)
			},
		},
		{
			name: "request without url",
			doc:  `{"info": {"name": "X", "schema": "` + schemaV21 + `"}, "item": [{"name": "R", "request": {"method": "GET"}}]}`,
			check: func(t *testing.T, err error) {
				var target *StructureError
				require.True(t, errors.As(err, &target))
				assert.Equal(t, "item[0].request.url", target.Path)
			},
		},
		{
			name: "request with empty url object",
			doc:  `{"info": {"name": "X", "schema": "` + schemaV21 + `"}, "item": [{"name": "R", "request": {"url": {}}}]}`,
			check: func(t *testing.T, err error) {
				var target *StructureError
				require.True(t, errors.As(err, &target))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, err := Decode([]byte(tt.doc))
			require.Error(t, err)
			assert.Nil(t, c)
			tt.check(t, err)
		})
	}
}

func TestDecode_IsDeterministic(t *testing.T) {
	doc := `{
		"info": {"name": "D", "schema": "` + schemaV20 + `"},
		"auth": {"type": "oauth1", "oauth1": {"consumerKey": "k", "consumerSecret": "s", "addParamsToHeader": true}},
		"item": [{"name": "R", "request": "http://example.com/"}]
	}`

	first, _ := mustDecode(t, doc)
	second, _ := mustDecode(t, doc)
	assert.Equal(t, first.Requests()[0].Auth, second.Requests()[0].Auth)
}

func TestResolve(t *testing.T) {
	r := &Request{Name: "R", Method: "post", Address: "http://example.com/{{id}}"}
	inner := &Folder{
		Name:      "Inner",
		Variables: Variables{{Key: "id", Value: "7"}},
		Children:  []Node{r},
	}
	c := &Collection{
		Name:      "Assembled",
		Auth:      &Auth{Type: Basic, Params: Params{"username": "u"}},
		Variables: Variables{{Key: "id", Value: "1"}, {Key: "host", Value: "h"}},
		Children:  []Node{&Folder{Name: "Outer", Children: []Node{inner}}},
	}

	require.NoError(t, Resolve(c))
	assert.Equal(t, "POST", r.Method)
	assert.Equal(t, "Outer / Inner / R", r.Path)
	assert.Equal(t, Basic, r.Auth.Type)
	assert.Equal(t, "u", r.Auth.Params.Get("username"))

	id, _ := r.Scope.Lookup("id")
	assert.Equal(t, "7", id)
	assert.True(t, r.Scope.Has("host"))

	resolved := *r
	require.NoError(t, Resolve(c))
	assert.Equal(t, resolved, *r, "resolving twice changes nothing")

	// moving a request under another folder is picked up by the next resolve
	inner.Children = nil
	c.Children = append(c.Children, r)
	require.NoError(t, Resolve(c))
	assert.Equal(t, "R", r.Path)
	id, _ = r.Scope.Lookup("id")
	assert.Equal(t, "1", id)
}

func TestResolve_Errors(t *testing.T) {
	err := Resolve(nil)
	var structErr *StructureError
	assert.True(t, errors.As(err, &structErr))

	loop := &Folder{Name: "Loop"}
	loop.Children = []Node{&Folder{Name: "Child", Children: []Node{loop}}}
	err = Resolve(&Collection{Name: "C", Children: []Node{loop}})
	var cycle *CircularInheritanceError
	require.True(t, errors.As(err, &cycle))
	assert.Equal(t, "Loop / Child / Loop", cycle.Path)

	err = Resolve(&Collection{Name: "C", Children: []Node{&Folder{Name: "F", Children: []Node{nil}}}})
	assert.True(t, errors.As(err, &structErr))
	assert.Equal(t, "F", structErr.Path)
}
