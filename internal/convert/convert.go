// Package convert is the entry point of the converter core. It ties the
// collection normaliser, the auth strategy registry and the emitter
// together and performs no I/O of its own.
package convert

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/wesleyorama2/k6convert/internal/auth"
	"github.com/wesleyorama2/k6convert/internal/collection"
	"github.com/wesleyorama2/k6convert/internal/config"
	"github.com/wesleyorama2/k6convert/internal/diagnostic"
	"github.com/wesleyorama2/k6convert/internal/emit"
)

// Result is the outcome of a successful conversion
type Result struct {
	Script      string
	Diagnostics diagnostic.Diagnostics
}

type options struct {
	settings config.Settings
	logger   *zap.Logger
	registry *auth.Registry
}

// Option configures a conversion
type Option func(*options)

// WithSettings sets the converter settings
func WithSettings(s config.Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithRegistry replaces the built-in auth strategies
func WithRegistry(r *auth.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		settings: config.DefaultSettings(),
		logger:   zap.NewNop(),
		registry: auth.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Convert renders the script for a tree. The tree is resolved first, so a
// tree assembled by hand inherits auth and variables the same way a
// decoded one does. Conversions of distinct trees share no state and may
// run concurrently. On error the result is empty.
func Convert(tree *collection.Collection, opts ...Option) (Result, error) {
	if err := collection.Resolve(tree); err != nil {
		return Result{}, err
	}
	o := newOptions(opts)

	script, diags, err := emit.New(o.registry, o.settings, o.logger).Render(tree)
	if err != nil {
		o.logger.Debug("conversion failed", zap.String("collection", tree.Name), zap.Error(err))
		return Result{}, err
	}
	return Result{Script: script, Diagnostics: diags}, nil
}

// ConvertBytes decodes a collection document and converts it. Diagnostics
// from decoding precede those from rendering.
func ConvertBytes(data []byte, opts ...Option) (Result, error) {
	o := newOptions(opts)

	tree, diags, err := collection.Decode(data)
	if err != nil {
		return Result{}, errors.Wrap(err, "error reading collection")
	}
	o.logger.Debug("collection decoded",
		zap.String("name", tree.Name),
		zap.String("version", string(tree.Version)),
	)

	result, err := Convert(tree, opts...)
	if err != nil {
		return Result{}, err
	}
	diags.Merge(result.Diagnostics)
	result.Diagnostics = diags
	return result, nil
}
