package auth

import (
	"github.com/wesleyorama2/k6convert/internal/collection"
	"github.com/wesleyorama2/k6convert/internal/imports"
	"github.com/wesleyorama2/k6convert/internal/script"
)

// defaultTokenPrefix prefixes bearer and OAuth 2.0 tokens
const defaultTokenPrefix = "Bearer"

// BearerStrategy sets the Authorization header to "Bearer <token>"
type BearerStrategy struct{}

// Type returns the bearer tag
func (BearerStrategy) Type() collection.AuthType { return collection.Bearer }

// Description describes the strategy for auth-types listings
func (BearerStrategy) Description() string { return "sets the Authorization header to a bearer token" }

// RequiredImports returns nil, a header assignment needs no helpers
func (BearerStrategy) RequiredImports(collection.Params) []imports.Import { return nil }

// Emit sets the Authorization header from the token param
func (BearerStrategy) Emit(in Input) script.Fragment {
	return setHeader("Authorization", defaultTokenPrefix+" "+in.Params.Get("token"))
}

// APIKeyStrategy sets a single header to the key value, or appends it to
// the address when the key travels in the query string
type APIKeyStrategy struct{}

// Type returns the apikey tag
func (APIKeyStrategy) Type() collection.AuthType { return collection.APIKey }

// Description describes the strategy for auth-types listings
func (APIKeyStrategy) Description() string {
	return "sets an API key header, or an API key query parameter"
}

// RequiredImports returns urijs when the key goes in the query string
func (APIKeyStrategy) RequiredImports(params collection.Params) []imports.Import {
	if apiKeyInQuery(params) {
		return []imports.Import{imports.URI}
	}
	return nil
}

// Emit places the key under its name, defaulting to the Authorization header
func (APIKeyStrategy) Emit(in Input) script.Fragment {
	key := in.Params.GetOr("key", "Authorization")
	value := in.Params.Get("value")
	if apiKeyInQuery(in.Params) {
		return addQuery(key, value)
	}
	return setHeader(key, value)
}

func apiKeyInQuery(params collection.Params) bool {
	return params.Get("in") == "query"
}

// OAuth2HeaderStrategy sets the Authorization header to the access token
type OAuth2HeaderStrategy struct{}

// Type returns the oauth2-header tag
func (OAuth2HeaderStrategy) Type() collection.AuthType { return collection.OAuth2Header }

// Description describes the strategy for auth-types listings
func (OAuth2HeaderStrategy) Description() string {
	return "sets the Authorization header to an OAuth 2.0 access token"
}

// RequiredImports returns nil
func (OAuth2HeaderStrategy) RequiredImports(collection.Params) []imports.Import { return nil }

// Emit sets the Authorization header, honouring a custom headerPrefix
func (OAuth2HeaderStrategy) Emit(in Input) script.Fragment {
	prefix := in.Params.GetOr("headerPrefix", defaultTokenPrefix)
	return setHeader("Authorization", prefix+" "+in.Params.Get("accessToken"))
}

// OAuth2QueryStrategy appends the access token to the address
type OAuth2QueryStrategy struct{}

// Type returns the oauth2-query tag
func (OAuth2QueryStrategy) Type() collection.AuthType { return collection.OAuth2Query }

// Description describes the strategy for auth-types listings
func (OAuth2QueryStrategy) Description() string {
	return "adds an OAuth 2.0 access_token query parameter"
}

// RequiredImports returns urijs
func (OAuth2QueryStrategy) RequiredImports(collection.Params) []imports.Import {
	return []imports.Import{imports.URI}
}

// Emit appends access_token to the address
func (OAuth2QueryStrategy) Emit(in Input) script.Fragment {
	return addQuery("access_token", in.Params.Get("accessToken"))
}

// setHeader emits a single header assignment
func setHeader(name, value string) script.Fragment {
	return script.Fragment{"config.headers" + script.Property(name) + " = " + script.Value(value) + ";"}
}

// addQuery emits an address rewrite appending one query parameter
func addQuery(name, value string) script.Fragment {
	return script.Fragment{
		"const address = new URI(config.address);",
		"address.addQuery(" + script.Value(name) + ", " + script.Value(value) + ");",
		"config.address = address.toString();",
	}
}
