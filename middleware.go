package berth

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
)

// ResolveEvent describes one resolution as seen by middleware. Nested
// resolutions issued by factories produce their own events.
type ResolveEvent struct {
	// Key is the requested service.
	Key Key
	// Lifetime is the registered lifetime, zero if the key is not registered.
	Lifetime Lifetime
	// ScopeID identifies the scope that served a scoped service,
	// uuid.Nil when the provider served the request.
	ScopeID uuid.UUID
	// Depth is 0 for a top-level call and grows by one per nested factory.
	Depth int
	// Cached is set for AfterResolve when the instance came from a cache.
	Cached bool
	// Started is when the resolution began.
	Started time.Time
}

// Middleware provides hooks for intercepting resolutions.
// Middleware can be used for logging, metrics, access checks, testing, etc.
type Middleware interface {
	// BeforeResolve is called before resolving a service.
	// Return error to abort resolution.
	BeforeResolve(ctx context.Context, ev ResolveEvent) error

	// AfterResolve is called after resolving a service.
	// Called even if resolution failed (service and err may both be set).
	// A returned error replaces the result. It does not undo caching: a
	// singleton or scoped instance built during this call stays cached and
	// is returned by later resolutions.
	AfterResolve(ctx context.Context, ev ResolveEvent, service any, err error) error
}

// middlewareChain is an immutable list of middleware; Provider.Use swaps it.
type middlewareChain struct {
	middleware []Middleware
}

// newMiddlewareChain creates a new middleware chain.
func newMiddlewareChain() *middlewareChain {
	return &middlewareChain{}
}

// add appends middleware to the chain. Only used before the chain is shared.
func (m *middlewareChain) add(middleware Middleware) {
	m.middleware = append(m.middleware, middleware)
}

// with returns a copy of the chain extended by middleware.
func (m *middlewareChain) with(middleware Middleware) *middlewareChain {
	next := slices.Clip(slices.Clone(m.middleware))

	return &middlewareChain{middleware: append(next, middleware)}
}

// beforeResolve calls BeforeResolve on all middleware.
func (m *middlewareChain) beforeResolve(ctx context.Context, ev ResolveEvent) error {
	for _, mw := range m.middleware {
		if err := mw.BeforeResolve(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// afterResolve calls AfterResolve on all middleware.
func (m *middlewareChain) afterResolve(ctx context.Context, ev ResolveEvent, service any, err error) error {
	for _, mw := range m.middleware {
		if mwErr := mw.AfterResolve(ctx, ev, service, err); mwErr != nil {
			return mwErr
		}
	}
	return nil
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeResolveFunc func(ctx context.Context, ev ResolveEvent) error
	AfterResolveFunc  func(ctx context.Context, ev ResolveEvent, service any, err error) error
}

// BeforeResolve implements Middleware.
func (f *FuncMiddleware) BeforeResolve(ctx context.Context, ev ResolveEvent) error {
	if f.BeforeResolveFunc != nil {
		return f.BeforeResolveFunc(ctx, ev)
	}
	return nil
}

// AfterResolve implements Middleware.
func (f *FuncMiddleware) AfterResolve(ctx context.Context, ev ResolveEvent, service any, err error) error {
	if f.AfterResolveFunc != nil {
		return f.AfterResolveFunc(ctx, ev, service, err)
	}
	return nil
}
