// Package naming performs directory lookups of connection factories and
// destinations through a provider's initial-context implementation. The
// implementation is resolved by well-known type name through the provider
// boundary, trying the classic namespace first and the modern one second.
package naming

import (
	"errors"
	"fmt"

	"github.com/conapi-oss/jms-adapter/boundary"
	"github.com/conapi-oss/jms-adapter/spi/classic"
	"github.com/conapi-oss/jms-adapter/spi/modern"
)

// Well-known type names providers export their initial context under.
const (
	ClassicContextName = "classic.naming.InitialContext"
	ModernContextName  = "modern.naming.InitialContext"
)

// ErrNoInitialContext reports a provider boundary exporting no initial
// context under either well-known name.
var ErrNoInitialContext = errors.New("naming: provider exports no initial context")

// directory is the namespace-independent view of an initial context.
type directory interface {
	Open(env map[string]string) error
	Lookup(name string) (any, error)
	Close() error
}

// Context is an open directory session. Lookups run under the resolution
// context of the boundary the context was resolved from.
type Context struct {
	resolver boundary.Resolver
	dir      directory
}

// Open resolves the provider's initial context through resolver, constructs
// it and opens it with the given environment.
func Open(resolver boundary.Resolver, env map[string]string) (*Context, error) {
	ctor, err := resolver.Lookup(ClassicContextName)
	if err != nil {
		ctor, err = resolver.Lookup(ModernContextName)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoInitialContext, err)
	}

	var dir directory
	err = boundary.WithResolutionContext(resolver, func() error {
		raw, err := ctor()
		if err != nil {
			return fmt.Errorf("naming: construct initial context: %w", err)
		}
		switch ctx := raw.(type) {
		case classic.InitialContext:
			dir = ctx
		case modern.InitialContext:
			dir = ctx
		default:
			return fmt.Errorf("naming: initial context %T matches no supported namespace", raw)
		}
		if err := dir.Open(env); err != nil {
			return fmt.Errorf("naming: open initial context: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &Context{resolver: resolver, dir: dir}, nil
}

// Lookup resolves a directory name to the provider object bound under it.
func (c *Context) Lookup(name string) (any, error) {
	var obj any
	err := boundary.WithResolutionContext(c.resolver, func() error {
		var err error
		obj, err = c.dir.Lookup(name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("naming: lookup %q: %w", name, err)
	}
	return obj, nil
}

// Close closes the directory session.
func (c *Context) Close() error {
	if err := c.dir.Close(); err != nil {
		return fmt.Errorf("naming: close initial context: %w", err)
	}
	return nil
}
