package auth

import (
	"github.com/wesleyorama2/k6convert/internal/collection"
	"github.com/wesleyorama2/k6convert/internal/imports"
	"github.com/wesleyorama2/k6convert/internal/script"
)

// UserinfoStrategy places credentials in the userinfo part of the address
// and marks the auth mode on the request options. It serves basic, digest
// and NTLM auth, which differ only in the marker
type UserinfoStrategy struct {
	mode collection.AuthType
}

// NewUserinfo creates a userinfo strategy for the given auth type
func NewUserinfo(mode collection.AuthType) UserinfoStrategy {
	return UserinfoStrategy{mode: mode}
}

// Type returns the auth type the strategy was created for
func (s UserinfoStrategy) Type() collection.AuthType { return s.mode }

// Description names the auth mode the strategy marks
func (s UserinfoStrategy) Description() string {
	return "sets address userinfo credentials with " + string(s.mode) + " auth mode"
}

// RequiredImports returns urijs
func (UserinfoStrategy) RequiredImports(collection.Params) []imports.Import {
	return []imports.Import{imports.URI}
}

// Emit rewrites the address with the username and password params and
// sets the auth mode on the request options
func (s UserinfoStrategy) Emit(in Input) script.Fragment {
	return script.Fragment{
		"const address = new URI(config.address);",
		"address.username(" + script.Value(in.Params.Get("username")) + ");",
		"address.password(" + script.Value(in.Params.Get("password")) + ");",
		"config.address = address.toString();",
		"config.options.auth = " + script.Quote(string(s.mode)) + ";",
	}
}
