package berth

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Scope is a unit of work (typically one request) with its own cache for
// scoped services. Singleton and transient lookups are delegated to the
// Provider unchanged, so singletons keep one identity across every scope.
type Scope struct {
	id     uuid.UUID
	parent *Provider
	cache  *instanceCache
	ended  bool
	mu     sync.RWMutex
}

// newScope creates a new scope.
func newScope(parent *Provider, id uuid.UUID) *Scope {
	return &Scope{
		id:     id,
		parent: parent,
		cache:  newInstanceCache(parent.waits),
	}
}

// ID returns the scope's identity.
func (s *Scope) ID() uuid.UUID {
	return s.id
}

// Provider returns the provider the scope was created from.
func (s *Scope) Provider() *Provider {
	return s.parent
}

// Resolve returns a service by key from this scope.
func (s *Scope) Resolve(key Key) (any, error) {
	return s.ResolveContext(context.Background(), key)
}

// ResolveContext is Resolve with a context for middleware and factories.
func (s *Scope) ResolveContext(ctx context.Context, key Key) (any, error) {
	return s.resolve(ctx, key, nil, newFlight())
}

func (s *Scope) resolve(ctx context.Context, key Key, parent *chain, f *flight) (any, error) {
	s.mu.RLock()
	ended, cache := s.ended, s.cache
	s.mu.RUnlock()

	if ended {
		return nil, ErrScopeEnded
	}

	// Registration always comes from the parent; a scope has no registry
	desc, ok := s.parent.registry[key]
	if !ok || desc.lifetime != Scoped {
		return s.parent.resolve(ctx, key, parent, f)
	}

	ev := ResolveEvent{
		Key:      key,
		Lifetime: desc.lifetime,
		ScopeID:  s.id,
		Depth:    parent.len(),
	}

	return s.parent.intercept(ctx, &ev, func() (any, bool, error) {
		return resolveCached(ctx, cache, desc, s, parent, f)
	})
}

// Len returns the number of scoped instances cached by this scope.
func (s *Scope) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.ended {
		return 0
	}

	return s.cache.len()
}

// End releases the scope's cached instances. Further calls to Resolve or End
// fail with ErrScopeEnded. No hooks are invoked on the released instances.
func (s *Scope) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return ErrScopeEnded
	}

	s.cache = nil
	s.ended = true

	return nil
}
