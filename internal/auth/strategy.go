// Package auth provides the code-generation strategies for every supported
// auth type and the registry that dispatches on an auth type tag.
//
// A strategy never performs authentication itself. It decides which helper
// libraries the generated script needs and emits the body of the request's
// auth(config, Var) method, which mutates the outgoing request configuration
// at test run time
package auth

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/wesleyorama2/k6convert/internal/collection"
	"github.com/wesleyorama2/k6convert/internal/imports"
	"github.com/wesleyorama2/k6convert/internal/script"
)

// Input carries what a strategy may use to emit its fragment
type Input struct {
	// Method is the request method, upper-cased
	Method string

	// Params are the auth parameters, placeholders intact
	Params collection.Params
}

// Strategy generates the auth mutation for one auth type
type Strategy interface {
	// Type returns the auth type tag the strategy handles
	Type() collection.AuthType

	// Description returns a one-line summary of the generated mutation
	Description() string

	// RequiredImports returns the helper references the fragment uses, in
	// the order they are first needed
	RequiredImports(params collection.Params) []imports.Import

	// Emit returns the body of the auth method. An empty fragment means
	// the request carries no auth method at all
	Emit(in Input) script.Fragment
}

// Registry maps auth type tags to strategies
type Registry struct {
	strategies map[collection.AuthType]Strategy
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[collection.AuthType]Strategy)}
}

// DefaultRegistry creates a registry holding every built-in strategy.
//
// Supported types:
//   - "noauth" - no credentials
//   - "basic", "digest", "ntlm" - credentials in the address userinfo
//   - "bearer", "apikey", "oauth2-header" - a single header
//   - "oauth2-query" - an access_token query parameter
//   - "oauth1-header-sha1", "oauth1-header-sha256", "oauth1-header-plaintext",
//     "oauth1-body", "oauth1-query" - OAuth 1.0a signatures
//   - "awsv4" - AWS Signature Version 4
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NoAuthStrategy{})
	r.Register(NewUserinfo(collection.Basic))
	r.Register(NewUserinfo(collection.Digest))
	r.Register(NewUserinfo(collection.NTLM))
	r.Register(BearerStrategy{})
	r.Register(APIKeyStrategy{})
	r.Register(OAuth2HeaderStrategy{})
	r.Register(OAuth2QueryStrategy{})
	r.Register(NewOAuth1(collection.OAuth1HeaderSHA1))
	r.Register(NewOAuth1(collection.OAuth1HeaderSHA256))
	r.Register(NewOAuth1(collection.OAuth1HeaderPlaintext))
	r.Register(NewOAuth1(collection.OAuth1Body))
	r.Register(NewOAuth1(collection.OAuth1Query))
	r.Register(AWSv4Strategy{})
	return r
}

// Register adds s to the registry, replacing any strategy registered for
// the same type
func (r *Registry) Register(s Strategy) {
	r.strategies[s.Type()] = s
}

// Lookup returns the strategy registered for t
func (r *Registry) Lookup(t collection.AuthType) (Strategy, bool) {
	s, ok := r.strategies[t]
	return s, ok
}

// Require returns the strategy registered for t, or an
// UnsupportedAuthTypeError naming the request at path. An unknown type is
// never downgraded to noauth
func (r *Registry) Require(t collection.AuthType, path string) (Strategy, error) {
	if s, ok := r.strategies[t]; ok {
		return s, nil
	}
	err := collection.NewUnsupportedAuthTypeError(string(t), path)
	return nil, errors.WithHintf(err, "supported auth types: %s", strings.Join(r.typeNames(), ", "))
}

// Types returns the registered auth types in sorted order
func (r *Registry) Types() []collection.AuthType {
	types := make([]collection.AuthType, 0, len(r.strategies))
	for t := range r.strategies {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func (r *Registry) typeNames() []string {
	types := r.Types()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}

// NoAuthStrategy sends the request without credentials
type NoAuthStrategy struct{}

// Type returns the noauth tag
func (NoAuthStrategy) Type() collection.AuthType { return collection.NoAuth }

// Description describes the strategy for auth-types listings
func (NoAuthStrategy) Description() string { return "sends no credentials" }

// RequiredImports returns nil, noauth needs no helpers
func (NoAuthStrategy) RequiredImports(collection.Params) []imports.Import { return nil }

// Emit returns an empty fragment
func (NoAuthStrategy) Emit(Input) script.Fragment { return nil }
