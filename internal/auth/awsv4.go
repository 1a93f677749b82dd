package auth

import (
	"github.com/wesleyorama2/k6convert/internal/collection"
	"github.com/wesleyorama2/k6convert/internal/imports"
	"github.com/wesleyorama2/k6convert/internal/script"
)

// AWSv4Strategy signs the request with AWS Signature Version 4 through the
// bundled aws4 helper, rebuilds the address from the signed path, and
// merges the signed headers
type AWSv4Strategy struct{}

// Type returns the awsv4 tag
func (AWSv4Strategy) Type() collection.AuthType { return collection.AWSv4 }

// Description describes the strategy for auth-types listings
func (AWSv4Strategy) Description() string {
	return "signs with AWS Signature Version 4 and sets the signed headers"
}

// RequiredImports returns aws4 with its polyfill and urijs
func (AWSv4Strategy) RequiredImports(collection.Params) []imports.Import {
	// aws4 depends on the spo-gpo polyfill
	return []imports.Import{imports.SpoGpo, imports.URI, imports.AWS4}
}

// Emit signs the request and copies the signed address and headers back
// into config
func (AWSv4Strategy) Emit(in Input) script.Fragment {
	p := in.Params
	w := script.NewWriter()

	w.Line("const address = new URI(config.address);")

	options := []script.Entry{
		script.Prop("method", script.Quote(in.Method)),
		script.Prop("protocol", "address.protocol()"),
		script.Prop("hostname", "address.hostname()"),
		script.Prop("port", "address.port()"),
		script.Prop("path", "address.path() + address.search()"),
		script.Prop("body", "config.data"),
	}
	if v := p.Get("region"); v != "" {
		options = append(options, script.Prop("region", script.Value(v)))
	}
	if v := p.Get("service"); v != "" {
		options = append(options, script.Prop("service", script.Value(v)))
	}
	w.Object("const options = ", ";", options...)

	credential := []script.Entry{
		script.Prop("accessKeyId", script.Value(p.Get("accessKey"))),
		script.Prop("secretAccessKey", script.Value(p.Get("secretKey"))),
	}
	if v := p.Get("sessionToken"); v != "" {
		credential = append(credential, script.Prop("sessionToken", script.Value(v)))
	}
	w.Object("const credential = ", ";", credential...)

	w.Line("const signed = aws4.sign(options, credential);")
	w.Line(`const [path, query = ""] = signed.path.split("?");`)
	w.Line("config.address = new URI()")
	w.Indent()
	w.Line(".protocol(address.protocol())")
	w.Line(".hostname(signed.hostname)")
	w.Line(".path(path)")
	w.Line(".query(query)")
	w.Line(".toString();")
	w.Dedent()
	w.Line("Object.assign(config.headers, signed.headers);")
	return w.Fragment()
}
