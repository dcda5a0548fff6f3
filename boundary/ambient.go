package boundary

import (
	"context"
	"sync"
)

// The ambient resolver stands in for per-thread context class resolution:
// vendor providers hand work to their own goroutines, and those goroutines
// resolve type names through whatever resolver was ambient when the blocking
// vendor call was made. It is process-global state; WithResolutionContext is
// the only supported way to mutate it.

var (
	ambientMu sync.RWMutex
	ambient   Resolver
)

// Ambient returns the currently installed ambient resolver, or nil when no
// resolution context is active.
func Ambient() Resolver {
	ambientMu.RLock()
	defer ambientMu.RUnlock()
	return ambient
}

// WithResolutionContext installs r as the ambient resolver, runs fn, and
// restores the previous ambient resolver on every exit path, including a
// panic inside fn. Nested calls are safe only when they install the same
// resolver; interleaving different boundaries concurrently is not a
// supported configuration.
func WithResolutionContext(r Resolver, fn func() error) error {
	prev := swapAmbient(r)
	defer swapAmbient(prev)
	return fn()
}

func swapAmbient(r Resolver) Resolver {
	ambientMu.Lock()
	defer ambientMu.Unlock()
	prev := ambient
	ambient = r
	return prev
}

type ctxKey struct{}

// NewContext returns a context carrying r, for call sites that prefer
// explicit propagation over the ambient resolver.
func NewContext(ctx context.Context, r Resolver) context.Context {
	return context.WithValue(ctx, ctxKey{}, r)
}

// FromContext extracts the resolver carried by ctx, falling back to the
// ambient resolver when the context carries none.
func FromContext(ctx context.Context) (Resolver, bool) {
	if r, ok := ctx.Value(ctxKey{}).(Resolver); ok && r != nil {
		return r, true
	}
	if r := Ambient(); r != nil {
		return r, true
	}
	return nil, false
}
