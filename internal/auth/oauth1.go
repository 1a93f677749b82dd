package auth

import (
	"strings"

	"github.com/wesleyorama2/k6convert/internal/collection"
	"github.com/wesleyorama2/k6convert/internal/imports"
	"github.com/wesleyorama2/k6convert/internal/script"
)

// Signing input placeholders. The generated code must be identical for
// identical collections, so nonce and timestamp are fixed unless the
// collection supplies its own
const (
	defaultTimestamp = "1"
	defaultNonce     = "10"
)

// placement tells where OAuth 1.0a parameters are sent
type placement int

const (
	placeHeader placement = iota
	placeBody
	placeQuery
)

// OAuth1Strategy signs the request with OAuth 1.0a through the bundled
// oauth-1.0a helper and merges the result into the headers, the body, or
// the query string
type OAuth1Strategy struct {
	tag       collection.AuthType
	placement placement
	// signature is fixed for header variants and read from the parameters
	// otherwise
	signature string
}

// NewOAuth1 creates an OAuth 1.0a strategy for one of the oauth1-* tags
func NewOAuth1(tag collection.AuthType) OAuth1Strategy {
	s := OAuth1Strategy{tag: tag}
	switch tag {
	case collection.OAuth1HeaderSHA1:
		s.signature = collection.SignatureHMACSHA1
	case collection.OAuth1HeaderSHA256:
		s.signature = collection.SignatureHMACSHA256
	case collection.OAuth1HeaderPlaintext:
		s.signature = collection.SignaturePlaintext
	case collection.OAuth1Body:
		s.placement = placeBody
	case collection.OAuth1Query:
		s.placement = placeQuery
	}
	return s
}

// Type returns the auth type the strategy was created for
func (s OAuth1Strategy) Type() collection.AuthType { return s.tag }

// Description tells where the signed parameters are sent
func (s OAuth1Strategy) Description() string {
	switch s.placement {
	case placeBody:
		return "signs with OAuth 1.0a and merges the parameters into the body"
	case placeQuery:
		return "signs with OAuth 1.0a and appends the parameters to the address"
	default:
		return "signs with OAuth 1.0a " + s.signature + " and sets the Authorization header"
	}
}

// RequiredImports returns the oauth helper, plus urijs for query placement
// and k6/crypto hmac for HMAC signatures
func (s OAuth1Strategy) RequiredImports(params collection.Params) []imports.Import {
	out := []imports.Import{imports.OAuth}
	if s.placement == placeQuery {
		out = append(out, imports.URI)
	}
	if hashAlgorithm(s.signatureMethod(params)) != "" {
		out = append(out, imports.HMAC)
	}
	return out
}

// Emit signs the request and merges the signed parameters per placement
func (s OAuth1Strategy) Emit(in Input) script.Fragment {
	p := in.Params
	w := script.NewWriter()

	options := []script.Entry{
		script.Nested("consumer",
			script.Prop("key", script.Value(p.Get("consumerKey"))),
			script.Prop("secret", script.Value(p.Get("consumerSecret"))),
		),
	}
	signature := s.signatureMethod(p)
	options = append(options, script.Prop("signature_method", script.Quote(signature)))
	if alg := hashAlgorithm(signature); alg != "" {
		options = append(options, script.Method("hash_function(data, key)", script.Fragment{
			"return hmac(" + script.Quote(alg) + ", key, data, \"base64\");",
		}))
	}
	if v := p.Get("version"); v != "" {
		options = append(options, script.Prop("version", script.Value(v)))
	}
	if v := p.Get("realm"); v != "" {
		options = append(options, script.Prop("realm", script.Value(v)))
	}
	w.Object("const options = ", ";", options...)

	w.Object("const request = ", ";",
		script.Prop("method", "config.method"),
		script.Prop("url", "config.address"),
		script.Nested("data",
			script.Prop("oauth_timestamp", script.Value(p.GetOr("timestamp", defaultTimestamp))),
			script.Prop("oauth_nonce", script.Value(p.GetOr("nonce", defaultNonce))),
		),
	)

	authorize := "oauth.authorize(request)"
	if p.Get("token") != "" || p.Get("tokenSecret") != "" {
		w.Object("const token = ", ";",
			script.Prop("key", script.Value(p.Get("token"))),
			script.Prop("secret", script.Value(p.Get("tokenSecret"))),
		)
		authorize = "oauth.authorize(request, token)"
	}
	w.Line("const oauth = OAuth(options);")

	switch s.placement {
	case placeHeader:
		w.Line("const auth = oauth.toHeader(" + authorize + ");")
		w.Line("Object.assign(config.headers, auth);")
	case placeBody:
		w.Line("const auth = " + authorize + ";")
		w.Line("Object.assign(config.data, auth);")
	case placeQuery:
		w.Line("const auth = " + authorize + ";")
		w.Line("const address = new URI(config.address);")
		w.Line("for (const key of Object.keys(auth)) {")
		w.Indent()
		w.Line("address.addQuery(key, auth[key]);")
		w.Dedent()
		w.Line("}")
		w.Line("config.address = address.toString();")
	}
	return w.Fragment()
}

// signatureMethod returns the signature method the fragment signs with
func (s OAuth1Strategy) signatureMethod(params collection.Params) string {
	if s.signature != "" {
		return s.signature
	}
	return strings.ToUpper(params.GetOr("signatureMethod", collection.SignatureHMACSHA1))
}

// hashAlgorithm maps an HMAC signature method to the k6/crypto algorithm
// name. PLAINTEXT signatures need no hash
func hashAlgorithm(signature string) string {
	switch signature {
	case collection.SignatureHMACSHA1:
		return "sha1"
	case collection.SignatureHMACSHA256:
		return "sha256"
	default:
		return ""
	}
}
