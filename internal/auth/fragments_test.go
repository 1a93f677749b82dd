package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wesleyorama2/k6convert/internal/collection"
)

var oauth1Params = collection.Params{
	"consumerKey":    "conkey",
	"consumerSecret": "consec",
	"token":          "tokkey",
	"tokenSecret":    "toksec",
	"version":        "1.0",
	"realm":          "realm@example.com",
}

func withParams(base collection.Params, extra collection.Params) collection.Params {
	out := collection.Params{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func oauth1Prelude(signature string, hash string) string {
	options := lines(
		"const options = {",
		"  consumer: {",
		`    key: "conkey",`,
		`    secret: "consec"`,
		"  },",
		`  signature_method: "`+signature+`",`,
	)
	if hash != "" {
		options = lines(options,
			"  hash_function(data, key) {",
			`    return hmac("`+hash+`", key, data, "base64");`,
			"  },",
		)
	}
	return lines(options,
		`  version: "1.0",`,
		`  realm: "realm@example.com"`,
		"};",
		"const request = {",
		"  method: config.method,",
		"  url: config.address,",
		"  data: {",
		`    oauth_timestamp: "1",`,
		`    oauth_nonce: "10"`,
		"  }",
		"};",
		"const token = {",
		`  key: "tokkey",`,
		`  secret: "toksec"`,
		"};",
		"const oauth = OAuth(options);",
	)
}

func TestFragments(t *testing.T) {
	tests := []struct {
		name        string
		strategy    Strategy
		method      string
		params      collection.Params
		wantImports []string
		want        string
	}{
		{
			name:        "basic",
			strategy:    NewUserinfo(collection.Basic),
			params:      collection.Params{"username": "user123", "password": "secret"},
			wantImports: []string{"urijs.js"},
			want: lines(
				"const address = new URI(config.address);",
				`address.username("user123");`,
				`address.password("secret");`,
				"config.address = address.toString();",
				`config.options.auth = "basic";`,
			),
		},
		{
			name:        "digest",
			strategy:    NewUserinfo(collection.Digest),
			params:      collection.Params{"username": "user123", "password": "secret", "realm": "ignored"},
			wantImports: []string{"urijs.js"},
			want: lines(
				"const address = new URI(config.address);",
				`address.username("user123");`,
				`address.password("secret");`,
				"config.address = address.toString();",
				`config.options.auth = "digest";`,
			),
		},
		{
			name:        "ntlm",
			strategy:    NewUserinfo(collection.NTLM),
			params:      collection.Params{"username": "user123", "password": "secret"},
			wantImports: []string{"urijs.js"},
			want: lines(
				"const address = new URI(config.address);",
				`address.username("user123");`,
				`address.password("secret");`,
				"config.address = address.toString();",
				`config.options.auth = "ntlm";`,
			),
		},
		{
			name:        "bearer",
			strategy:    BearerStrategy{},
			params:      collection.Params{"token": "secrettoken"},
			wantImports: []string{},
			want:        `config.headers.Authorization = "Bearer secrettoken";`,
		},
		{
			name:        "bearer with placeholder",
			strategy:    BearerStrategy{},
			params:      collection.Params{"token": "{{token}}"},
			wantImports: []string{},
			want:        "config.headers.Authorization = `Bearer ${Var(\"token\")}`;",
		},
		{
			name:        "apikey default header",
			strategy:    APIKeyStrategy{},
			params:      collection.Params{"value": "secretApiKey"},
			wantImports: []string{},
			want:        `config.headers.Authorization = "secretApiKey";`,
		},
		{
			name:        "apikey custom header",
			strategy:    APIKeyStrategy{},
			params:      collection.Params{"key": "X-API-Key", "value": "secretApiKey", "in": "header"},
			wantImports: []string{},
			want:        `config.headers["X-API-Key"] = "secretApiKey";`,
		},
		{
			name:        "apikey in query",
			strategy:    APIKeyStrategy{},
			params:      collection.Params{"key": "api_key", "value": "{{key}}", "in": "query"},
			wantImports: []string{"urijs.js"},
			want: lines(
				"const address = new URI(config.address);",
				"address.addQuery(\"api_key\", `${Var(\"key\")}`);",
				"config.address = address.toString();",
			),
		},
		{
			name:        "oauth2 header",
			strategy:    OAuth2HeaderStrategy{},
			params:      collection.Params{"accessToken": "token", "addTokenTo": "header"},
			wantImports: []string{},
			want:        `config.headers.Authorization = "Bearer token";`,
		},
		{
			name:        "oauth2 header prefix",
			strategy:    OAuth2HeaderStrategy{},
			params:      collection.Params{"accessToken": "token", "headerPrefix": "Token"},
			wantImports: []string{},
			want:        `config.headers.Authorization = "Token token";`,
		},
		{
			name:        "oauth2 address",
			strategy:    OAuth2QueryStrategy{},
			params:      collection.Params{"accessToken": "token", "addTokenTo": "queryParams"},
			wantImports: []string{"urijs.js"},
			want: lines(
				"const address = new URI(config.address);",
				`address.addQuery("access_token", "token");`,
				"config.address = address.toString();",
			),
		},
		{
			name:     "awsv4",
			strategy: AWSv4Strategy{},
			method:   "GET",
			params: collection.Params{
				"accessKey":    "accesskey",
				"secretKey":    "secretkey",
				"region":       "region",
				"service":      "service",
				"sessionToken": "session",
			},
			wantImports: []string{"spo-gpo.js", "urijs.js", "aws4.js"},
			want: lines(
				"const address = new URI(config.address);",
				"const options = {",
				`  method: "GET",`,
				"  protocol: address.protocol(),",
				"  hostname: address.hostname(),",
				"  port: address.port(),",
				"  path: address.path() + address.search(),",
				"  body: config.data,",
				`  region: "region",`,
				`  service: "service"`,
				"};",
				"const credential = {",
				`  accessKeyId: "accesskey",`,
				`  secretAccessKey: "secretkey",`,
				`  sessionToken: "session"`,
				"};",
				"const signed = aws4.sign(options, credential);",
				`const [path, query = ""] = signed.path.split("?");`,
				"config.address = new URI()",
				"  .protocol(address.protocol())",
				"  .hostname(signed.hostname)",
				"  .path(path)",
				"  .query(query)",
				"  .toString();",
				"Object.assign(config.headers, signed.headers);",
			),
		},
		{
			name:        "awsv4 without optional fields",
			strategy:    AWSv4Strategy{},
			method:      "POST",
			params:      collection.Params{"accessKey": "a", "secretKey": "s"},
			wantImports: []string{"spo-gpo.js", "urijs.js", "aws4.js"},
			want: lines(
				"const address = new URI(config.address);",
				"const options = {",
				`  method: "POST",`,
				"  protocol: address.protocol(),",
				"  hostname: address.hostname(),",
				"  port: address.port(),",
				"  path: address.path() + address.search(),",
				"  body: config.data",
				"};",
				"const credential = {",
				`  accessKeyId: "a",`,
				`  secretAccessKey: "s"`,
				"};",
				"const signed = aws4.sign(options, credential);",
				`const [path, query = ""] = signed.path.split("?");`,
				"config.address = new URI()",
				"  .protocol(address.protocol())",
				"  .hostname(signed.hostname)",
				"  .path(path)",
				"  .query(query)",
				"  .toString();",
				"Object.assign(config.headers, signed.headers);",
			),
		},
		{
			name:        "oauth1 header sha1",
			strategy:    NewOAuth1(collection.OAuth1HeaderSHA1),
			method:      "GET",
			params:      oauth1Params,
			wantImports: []string{"oauth-1.0a.js", "k6/crypto"},
			want: lines(
				oauth1Prelude("HMAC-SHA1", "sha1"),
				"const auth = oauth.toHeader(oauth.authorize(request, token));",
				"Object.assign(config.headers, auth);",
			),
		},
		{
			name:        "oauth1 header sha256",
			strategy:    NewOAuth1(collection.OAuth1HeaderSHA256),
			method:      "GET",
			params:      withParams(oauth1Params, collection.Params{"signatureMethod": "HMAC-SHA256"}),
			wantImports: []string{"oauth-1.0a.js", "k6/crypto"},
			want: lines(
				oauth1Prelude("HMAC-SHA256", "sha256"),
				"const auth = oauth.toHeader(oauth.authorize(request, token));",
				"Object.assign(config.headers, auth);",
			),
		},
		{
			name:        "oauth1 header plaintext",
			strategy:    NewOAuth1(collection.OAuth1HeaderPlaintext),
			method:      "GET",
			params:      withParams(oauth1Params, collection.Params{"signatureMethod": "PLAINTEXT"}),
			wantImports: []string{"oauth-1.0a.js"},
			want: lines(
				oauth1Prelude("PLAINTEXT", ""),
				"const auth = oauth.toHeader(oauth.authorize(request, token));",
				"Object.assign(config.headers, auth);",
			),
		},
		{
			name:        "oauth1 body",
			strategy:    NewOAuth1(collection.OAuth1Body),
			method:      "POST",
			params:      oauth1Params,
			wantImports: []string{"oauth-1.0a.js", "k6/crypto"},
			want: lines(
				oauth1Prelude("HMAC-SHA1", "sha1"),
				"const auth = oauth.authorize(request, token);",
				"Object.assign(config.data, auth);",
			),
		},
		{
			name:        "oauth1 address",
			strategy:    NewOAuth1(collection.OAuth1Query),
			method:      "GET",
			params:      oauth1Params,
			wantImports: []string{"oauth-1.0a.js", "urijs.js", "k6/crypto"},
			want: lines(
				oauth1Prelude("HMAC-SHA1", "sha1"),
				"const auth = oauth.authorize(request, token);",
				"const address = new URI(config.address);",
				"for (const key of Object.keys(auth)) {",
				"  address.addQuery(key, auth[key]);",
				"}",
				"config.address = address.toString();",
			),
		},
		{
			name:        "oauth1 without token",
			strategy:    NewOAuth1(collection.OAuth1Query),
			method:      "DELETE",
			params:      collection.Params{"consumerKey": "k", "consumerSecret": "s", "signatureMethod": "PLAINTEXT", "timestamp": "{{ts}}"},
			wantImports: []string{"oauth-1.0a.js", "urijs.js"},
			want: lines(
				"const options = {",
				"  consumer: {",
				`    key: "k",`,
				`    secret: "s"`,
				"  },",
				`  signature_method: "PLAINTEXT"`,
				"};",
				"const request = {",
				"  method: config.method,",
				"  url: config.address,",
				"  data: {",
				"    oauth_timestamp: `${Var(\"ts\")}`,",
				`    oauth_nonce: "10"`,
				"  }",
				"};",
				"const oauth = OAuth(options);",
				"const auth = oauth.authorize(request);",
				"const address = new URI(config.address);",
				"for (const key of Object.keys(auth)) {",
				"  address.addQuery(key, auth[key]);",
				"}",
				"config.address = address.toString();",
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{Method: tt.method, Params: tt.params}

			assert.Equal(t, tt.wantImports, specifiers(tt.strategy.RequiredImports(tt.params)))
			assert.Equal(t, tt.want, lines(tt.strategy.Emit(in)...))
		})
	}
}

func TestFragments_AreDeterministic(t *testing.T) {
	for _, typ := range DefaultRegistry().Types() {
		s, _ := DefaultRegistry().Lookup(typ)
		in := Input{Method: "POST", Params: oauth1Params}
		assert.Equal(t, s.Emit(in), s.Emit(in), "strategy %s", typ)
	}
}
