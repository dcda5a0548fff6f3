// Package jmsadapter is the provider entry point. A Factory owns one
// provider boundary over a set of vendor artifacts and hands out
// namespace-polymorphic adapters for the connection factories and
// destinations resolved through it.
package jmsadapter

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/conapi-oss/jms-adapter/adapter"
	"github.com/conapi-oss/jms-adapter/boundary"
	"github.com/conapi-oss/jms-adapter/naming"
	"github.com/conapi-oss/jms-adapter/propbind"
	"github.com/conapi-oss/jms-adapter/telemetry"
)

// ErrNoEnvironment reports a directory lookup with a nil environment before
// any lookup supplied one.
var ErrNoEnvironment = errors.New("jmsadapter: no naming environment configured")

type options struct {
	boundary []boundary.Option
	parent   boundary.Resolver
	logger   zerolog.Logger
	metrics  telemetry.Collector
}

// Option configures factory construction.
type Option func(*options)

// WithArtifacts adds individually named provider artifact files.
func WithArtifacts(paths ...string) Option {
	return func(o *options) { o.boundary = append(o.boundary, boundary.WithArtifacts(paths...)) }
}

// WithArtifactDir adds every regular file found under dir, recursively.
func WithArtifactDir(dir string) Option {
	return func(o *options) { o.boundary = append(o.boundary, boundary.WithArtifactDir(dir)) }
}

// WithOpener replaces the default plugin-based artifact opener.
func WithOpener(open boundary.Opener) Option {
	return func(o *options) { o.boundary = append(o.boundary, boundary.WithOpener(open)) }
}

// WithParent replaces the host registry as the boundary's parent scope.
func WithParent(parent boundary.Resolver) Option {
	return func(o *options) { o.parent = parent }
}

// WithLogger sets the logger used by the factory and every adapter derived
// from it.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCollector sets the telemetry collector operations are counted through.
func WithCollector(c telemetry.Collector) Option {
	return func(o *options) { o.metrics = c }
}

// Factory resolves vendor connection factories and directory objects through
// one provider boundary. It is safe for concurrent use.
type Factory struct {
	loader  *boundary.Loader
	logger  zerolog.Logger
	metrics telemetry.Collector

	mu        sync.Mutex
	namingEnv map[string]string
}

// New builds a factory over the configured provider artifacts. Without
// artifact options the boundary is a transparent view of its parent scope,
// which defaults to the process-wide host registry.
func New(opts ...Option) (*Factory, error) {
	o := options{
		parent:  boundary.Host(),
		logger:  zerolog.Nop(),
		metrics: telemetry.Noop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	loader, err := boundary.New(o.parent, append(o.boundary, boundary.WithLogger(o.logger))...)
	if err != nil {
		return nil, err
	}
	o.metrics.SetArtifacts(len(loader.Artifacts()))
	return &Factory{loader: loader, logger: o.logger, metrics: o.metrics}, nil
}

// Loader returns the provider boundary the factory resolves through.
func (f *Factory) Loader() *boundary.Loader { return f.loader }

// CreateConnectionFactory resolves className through the provider boundary,
// constructs the vendor factory, binds the given properties onto it via its
// typed setters and wraps it. Construction and binding run under the
// boundary's resolution context.
func (f *Factory) CreateConnectionFactory(className string, props map[string]string) (*adapter.ConnectionFactory, error) {
	const op = "create connection factory"
	f.metrics.IncOperation(op)

	ctor, err := f.loader.Lookup(className)
	if err != nil {
		f.logger.Error().Err(err).
			Str("class", className).
			Str("chain", f.loader.Chain()).
			Msg("jmsadapter: connection factory class not found")
		return nil, f.fail(op, err)
	}

	var raw any
	err = boundary.WithResolutionContext(f.loader, func() error {
		var err error
		if raw, err = ctor(); err != nil {
			return fmt.Errorf("construct %s: %w", className, err)
		}
		return propbind.Bind(raw, props)
	})
	if err != nil {
		return nil, f.fail(op, err)
	}

	wrapped := adapter.NewConnectionFactory(raw, f.loader, f.logger)
	if wrapped.Variant() == adapter.VariantUnknown {
		return nil, f.fail(op, fmt.Errorf("%s: %w", className, adapter.ErrUnknownNamespace))
	}
	return wrapped, nil
}

// LookupConnectionFactory resolves a connection factory bound under name in
// the provider's naming directory. A non-nil env is cached for later lookups
// passing nil.
func (f *Factory) LookupConnectionFactory(env map[string]string, name string) (*adapter.ConnectionFactory, error) {
	const op = "lookup connection factory"
	f.metrics.IncOperation(op)

	obj, err := f.lookup(env, name)
	if err != nil {
		return nil, f.fail(op, err)
	}
	wrapped := adapter.NewConnectionFactory(obj, f.loader, f.logger)
	if wrapped.Variant() == adapter.VariantUnknown {
		return nil, f.fail(op, fmt.Errorf("%s: %w", name, adapter.ErrUnknownNamespace))
	}
	return wrapped, nil
}

// LookupDestination resolves a destination bound under name in the
// provider's naming directory. A nil env reuses the environment cached by an
// earlier lookup.
func (f *Factory) LookupDestination(env map[string]string, name string) (*adapter.Destination, error) {
	const op = "lookup destination"
	f.metrics.IncOperation(op)

	obj, err := f.lookup(env, name)
	if err != nil {
		return nil, f.fail(op, err)
	}
	dest := adapter.NewDestination(obj)
	if dest.Variant() == adapter.VariantUnknown {
		return nil, f.fail(op, fmt.Errorf("%s: %w", name, adapter.ErrUnknownNamespace))
	}
	return dest, nil
}

func (f *Factory) lookup(env map[string]string, name string) (any, error) {
	f.mu.Lock()
	if env == nil {
		env = f.namingEnv
	} else {
		f.namingEnv = env
	}
	f.mu.Unlock()
	if env == nil {
		return nil, ErrNoEnvironment
	}

	ctx, err := naming.Open(f.loader, env)
	if err != nil {
		return nil, err
	}
	defer ctx.Close()
	return ctx.Lookup(name)
}

func (f *Factory) fail(op string, err error) error {
	f.metrics.IncOperationError(op)
	return &adapter.OpError{Op: op, Err: err}
}
