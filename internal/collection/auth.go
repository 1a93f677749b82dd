package collection

import (
	"strings"
)

// AuthType is the tag selecting a code-generation strategy
type AuthType string

// Strategy tags. The Postman "oauth1" and "oauth2" types are specialised
// into the placement-specific tags below once the request they apply to is
// known.
const (
	NoAuth                AuthType = "noauth"
	Basic                 AuthType = "basic"
	Bearer                AuthType = "bearer"
	Digest                AuthType = "digest"
	NTLM                  AuthType = "ntlm"
	APIKey                AuthType = "apikey"
	AWSv4                 AuthType = "awsv4"
	OAuth1HeaderSHA1      AuthType = "oauth1-header-sha1"
	OAuth1HeaderSHA256    AuthType = "oauth1-header-sha256"
	OAuth1HeaderPlaintext AuthType = "oauth1-header-plaintext"
	OAuth1Body            AuthType = "oauth1-body"
	OAuth1Query           AuthType = "oauth1-query"
	OAuth2Header          AuthType = "oauth2-header"
	OAuth2Query           AuthType = "oauth2-query"
)

// Postman auth type names that are specialised per request
const (
	postmanOAuth1 = "oauth1"
	postmanOAuth2 = "oauth2"
)

// Supported OAuth 1.0a signature methods
const (
	SignatureHMACSHA1   = "HMAC-SHA1"
	SignatureHMACSHA256 = "HMAC-SHA256"
	SignaturePlaintext  = "PLAINTEXT"
)

// Params holds the type-specific parameters of an auth definition. Values
// are kept as text, placeholders intact.
type Params map[string]string

// Get returns the value for key, or "" when absent
func (p Params) Get(key string) string {
	return p[key]
}

// Lookup returns the value for key and whether it was present
func (p Params) Lookup(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// GetOr returns the value for key, or fallback when absent or empty
func (p Params) GetOr(key, fallback string) string {
	if v := p[key]; v != "" {
		return v
	}
	return fallback
}

// Bool reports whether the value for key is "true"
func (p Params) Bool(key string) bool {
	return strings.EqualFold(p[key], "true")
}

// Auth is an auth definition: a type tag plus its parameters
type Auth struct {
	Type   AuthType
	Params Params
}

// IsNone reports whether the auth sends no credentials
func (a Auth) IsNone() bool {
	return a.Type == NoAuth || a.Type == ""
}

// ResolveAuth returns the effective auth of r: its own definition when it
// has one, otherwise the definition of the nearest ancestor that has one,
// otherwise noauth. An explicit noauth anywhere on the chain halts the
// search like any other definition. The result is specialised to the
// request's method.
func ResolveAuth(r *Request) (Auth, error) {
	def, err := nearestAuth(r)
	if err != nil {
		return Auth{}, err
	}
	if def == nil {
		return Auth{Type: NoAuth, Params: Params{}}, nil
	}
	return specialize(*def, r.Method), nil
}

// nearestAuth walks from r toward the root and returns the first explicit
// definition, or nil when no node defines one.
func nearestAuth(r *Request) (*Auth, error) {
	if r.Own != nil {
		return r.Own, nil
	}

	visited := make(map[container]bool)
	for c := r.parent; c != nil; c = c.parentContainer() {
		if visited[c] {
			return nil, NewCircularInheritanceError(requestLabel(r))
		}
		visited[c] = true

		if a := c.explicitAuth(); a != nil {
			return a, nil
		}
	}
	return nil, nil
}

// ancestorScope builds the variable scope of r from the root down
func ancestorScope(r *Request, own Variables) (Scope, error) {
	var chain []Variables
	visited := make(map[container]bool)
	for c := r.parent; c != nil; c = c.parentContainer() {
		if visited[c] {
			return Scope{}, NewCircularInheritanceError(requestLabel(r))
		}
		visited[c] = true
		chain = append(chain, c.variables())
	}

	layers := make([]Variables, 0, len(chain)+1)
	for i := len(chain) - 1; i >= 0; i-- {
		layers = append(layers, chain[i])
	}
	layers = append(layers, own)
	return NewScope(layers...), nil
}

// requestLabel names r in errors without walking its ancestors
func requestLabel(r *Request) string {
	if r.Path != "" {
		return r.Path
	}
	return r.Name
}

// specialize maps a Postman auth definition onto a strategy tag. OAuth 1.0a
// placement depends on addParamsToHeader and the request method; OAuth 2.0
// placement depends on addTokenTo. Unknown types pass through unchanged so
// the strategy registry can reject them.
func specialize(a Auth, method string) Auth {
	params := a.Params
	if params == nil {
		params = Params{}
	}

	switch string(a.Type) {
	case postmanOAuth1:
		sig := strings.ToUpper(params.GetOr("signatureMethod", SignatureHMACSHA1))
		if !isSupportedSignature(sig) {
			// no strategy exists for this tag, the registry rejects it
			return Auth{Type: AuthType("oauth1-" + strings.ToLower(sig)), Params: params}
		}
		if params.Bool("addParamsToHeader") {
			switch sig {
			case SignatureHMACSHA256:
				return Auth{Type: OAuth1HeaderSHA256, Params: params}
			case SignaturePlaintext:
				return Auth{Type: OAuth1HeaderPlaintext, Params: params}
			default:
				return Auth{Type: OAuth1HeaderSHA1, Params: params}
			}
		}
		if methodHasBody(method) {
			return Auth{Type: OAuth1Body, Params: params}
		}
		return Auth{Type: OAuth1Query, Params: params}

	case postmanOAuth2:
		if params.Get("addTokenTo") == "queryParams" {
			return Auth{Type: OAuth2Query, Params: params}
		}
		return Auth{Type: OAuth2Header, Params: params}

	default:
		return Auth{Type: a.Type, Params: params}
	}
}

// isSupportedSignature reports whether an OAuth 1.0a signature method can
// be generated
func isSupportedSignature(sig string) bool {
	switch sig {
	case SignatureHMACSHA1, SignatureHMACSHA256, SignaturePlaintext:
		return true
	}
	return false
}

// methodHasBody reports whether OAuth 1.0a parameters travel in the body
// for the given method
func methodHasBody(method string) bool {
	switch strings.ToUpper(method) {
	case "POST", "PUT", "PATCH":
		return true
	}
	return false
}
