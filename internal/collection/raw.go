package collection

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Raw document types. Postman exports are loose about the shape of several
// fields (URL, headers, auth parameters), so those are kept as raw JSON and
// interpreted while the tree is built.

type rawCollection struct {
	Info     rawInfo       `json:"info"`
	Item     []rawItem     `json:"item"`
	Auth     *rawAuth      `json:"auth"`
	Variable []rawVariable `json:"variable"`
	Event    []rawEvent    `json:"event"`
}

type rawInfo struct {
	Name   string `json:"name"`
	Schema string `json:"schema"`
}

type rawItem struct {
	Name     string          `json:"name"`
	Item     []rawItem       `json:"item"`
	Request  json.RawMessage `json:"request"`
	Auth     *rawAuth        `json:"auth"`
	Variable []rawVariable   `json:"variable"`
	Event    []rawEvent      `json:"event"`
}

type rawRequest struct {
	Method string          `json:"method"`
	URL    json.RawMessage `json:"url"`
	Header json.RawMessage `json:"header"`
	Body   *rawBody        `json:"body"`
	Auth   *rawAuth        `json:"auth"`
}

type rawURL struct {
	Raw      string          `json:"raw"`
	Protocol string          `json:"protocol"`
	Host     json.RawMessage `json:"host"`
	Port     string          `json:"port"`
	Path     json.RawMessage `json:"path"`
	Query    []rawKeyValue   `json:"query"`
}

type rawKeyValue struct {
	Key      string          `json:"key"`
	Value    json.RawMessage `json:"value"`
	Type     string          `json:"type"`
	Disabled bool            `json:"disabled"`
}

type rawBody struct {
	Mode       string        `json:"mode"`
	Raw        string        `json:"raw"`
	URLEncoded []rawKeyValue `json:"urlencoded"`
	FormData   []rawKeyValue `json:"formdata"`
	GraphQL    *rawGraphQL   `json:"graphql"`
	Disabled   bool          `json:"disabled"`
}

type rawGraphQL struct {
	Query     string `json:"query"`
	Variables string `json:"variables"`
}

type rawVariable struct {
	ID       string          `json:"id"`
	Key      string          `json:"key"`
	Value    json.RawMessage `json:"value"`
	Disabled bool            `json:"disabled"`
}

type rawEvent struct {
	Listen   string    `json:"listen"`
	Disabled bool      `json:"disabled"`
	Script   rawScript `json:"script"`
}

type rawScript struct {
	Exec json.RawMessage `json:"exec"`
}

// rawAuth decodes {"type": "<t>", "<t>": <params>}. Parameters come as a
// list of {key, value} entries in v2.1 exports and as an object in v2.0
// exports; both forms are accepted regardless of the declared version.
type rawAuth struct {
	Type   string
	Params Params
}

// UnmarshalJSON implements json.Unmarshaler
func (a *rawAuth) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if t, ok := fields["type"]; ok {
		if err := json.Unmarshal(t, &a.Type); err != nil {
			return err
		}
	}

	a.Params = Params{}
	body, ok := fields[a.Type]
	if !ok || isNull(body) {
		return nil
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var entries []rawKeyValue
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return err
		}
		for _, e := range entries {
			a.Params[e.Key] = scalarText(e.Value)
		}
		return nil
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &object); err != nil {
		return err
	}
	for k, v := range object {
		a.Params[k] = scalarText(v)
	}
	return nil
}

// scalarText renders a raw JSON value as text: strings unquoted, numbers
// and booleans as written, null as "", objects and arrays compacted.
func scalarText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || isNull(trimmed) {
		return ""
	}

	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

// textList renders a raw string-or-array value as a list of segments.
// Array elements may be strings or {"value": ...} objects.
func textList(raw json.RawMessage) []string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || isNull(trimmed) {
		return nil
	}
	if trimmed[0] != '[' {
		return []string{scalarText(trimmed)}
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil
	}

	out := make([]string, 0, len(elems))
	for _, e := range elems {
		e = bytes.TrimSpace(e)
		if len(e) > 0 && e[0] == '{' {
			var segment struct {
				Value json.RawMessage `json:"value"`
			}
			if err := json.Unmarshal(e, &segment); err == nil {
				out = append(out, scalarText(segment.Value))
				continue
			}
		}
		out = append(out, scalarText(e))
	}
	return out
}

// isNull reports whether raw is the JSON null literal
func isNull(raw []byte) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// isString reports whether raw is a JSON string
func isString(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}

// isAbsent reports whether a raw field was missing or null
func isAbsent(raw []byte) bool {
	return len(bytes.TrimSpace(raw)) == 0 || isNull(raw)
}
