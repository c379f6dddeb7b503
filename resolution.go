package berth

import (
	"context"
	"sync/atomic"
)

// Resolver produces service instances. Both *Provider and *Scope implement
// it, and every Factory receives one as its resolution context.
type Resolver interface {
	// Resolve returns the instance for key according to its lifetime.
	Resolve(key Key) (any, error)
}

// resolver is implemented by the provider and its scopes; parent is the chain
// of keys under construction on the calling path, nil at top level, and f is
// the flight that path belongs to.
type resolver interface {
	resolve(ctx context.Context, key Key, parent *chain, f *flight) (any, error)
}

// chain is an immutable stack of keys being constructed on one resolution path.
type chain struct {
	key    Key
	parent *chain
	depth  int
}

func (c *chain) push(key Key) *chain {
	return &chain{key: key, parent: c, depth: c.len() + 1}
}

func (c *chain) len() int {
	if c == nil {
		return 0
	}

	return c.depth
}

func (c *chain) contains(key Key) bool {
	for link := c; link != nil; link = link.parent {
		if link.key == key {
			return true
		}
	}

	return false
}

// path lists the chain root first, followed by next.
func (c *chain) path(next Key) []Key {
	keys := make([]Key, c.len()+1)
	keys[len(keys)-1] = next
	i := len(keys) - 2
	for link := c; link != nil; link = link.parent {
		keys[i] = link.key
		i--
	}

	return keys
}

// resolution is the Resolver handed to a factory. It routes the factory's own
// lookups back to the provider or scope that invoked it, carrying the chain so
// a factory that re-enters its own key fails instead of deadlocking.
//
// Once the factory has returned, the resolution is detached: instances that
// kept it (Lazy, Supplier) resolve as fresh top-level calls on its owner.
type resolution struct {
	ctx      context.Context
	owner    resolver
	chain    *chain
	flight   *flight
	detached atomic.Bool
}

// Resolve implements Resolver.
func (r *resolution) Resolve(key Key) (any, error) {
	if r.detached.Load() {
		return r.owner.resolve(r.ctx, key, nil, newFlight())
	}

	return r.owner.resolve(r.ctx, key, r.chain, r.flight)
}

func (r *resolution) detach() {
	r.detached.Store(true)
}

// Context returns the context of the top-level resolution.
func (r *resolution) Context() context.Context {
	return r.ctx
}

// ContextOf returns the context the resolution running r was started with,
// or context.Background when r is not a factory's resolution context.
func ContextOf(r Resolver) context.Context {
	if res, ok := r.(*resolution); ok && res.ctx != nil {
		return res.ctx
	}

	return context.Background()
}
