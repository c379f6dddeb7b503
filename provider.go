package berth

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Provider is the root of a built container. It owns an immutable registry
// and the instance cache for singleton services and for scoped services
// resolved without a scope.
//
// Share a Provider by pointer; every Scope created from it keeps it alive.
// A Provider is safe for concurrent use.
type Provider struct {
	registry   map[Key]*descriptor
	order      []Key
	cache      *instanceCache
	graph      *DependencyGraph
	waits      *waitGraph
	middleware *middlewareChain
	mu         sync.RWMutex
}

func newProvider(registry map[Key]*descriptor, order []Key, cfg providerConfig) *Provider {
	waits := &waitGraph{}

	p := &Provider{
		registry:   registry,
		order:      order,
		cache:      newInstanceCache(waits),
		graph:      NewDependencyGraph(),
		waits:      waits,
		middleware: newMiddlewareChain(),
	}

	for _, key := range order {
		p.graph.AddNode(key, registry[key].deps)
	}

	for _, mw := range cfg.middleware {
		p.middleware.add(mw)
	}

	return p
}

// Resolve returns the instance for key.
//
// Singleton and scoped services are built on first use and cached in the
// provider; transient services are built on every call.
func (p *Provider) Resolve(key Key) (any, error) {
	return p.ResolveContext(context.Background(), key)
}

// ResolveContext is Resolve with a context that is passed to middleware and
// is available to factories through ContextOf.
func (p *Provider) ResolveContext(ctx context.Context, key Key) (any, error) {
	return p.resolve(ctx, key, nil, newFlight())
}

func (p *Provider) resolve(ctx context.Context, key Key, parent *chain, f *flight) (any, error) {
	desc, ok := p.registry[key]

	ev := ResolveEvent{Key: key, Depth: parent.len()}
	if ok {
		ev.Lifetime = desc.lifetime
	}

	return p.intercept(ctx, &ev, func() (any, bool, error) {
		if !ok {
			return nil, false, errServiceNotFound(key)
		}

		if desc.lifetime.cached() {
			return resolveCached(ctx, p.cache, desc, p, parent, f)
		}

		instance, err := construct(ctx, desc, p, parent, f)

		return instance, false, err
	})
}

// intercept runs fn inside the middleware chain.
func (p *Provider) intercept(ctx context.Context, ev *ResolveEvent, fn func() (any, bool, error)) (any, error) {
	mw := p.middlewareSnapshot()
	ev.Started = time.Now()

	if err := mw.beforeResolve(ctx, *ev); err != nil {
		return nil, err
	}

	instance, cached, err := fn()
	ev.Cached = cached

	if mwErr := mw.afterResolve(ctx, *ev, instance, err); mwErr != nil {
		return nil, mwErr
	}

	return instance, err
}

// resolveCached applies the check, construct, insert sequence against cache.
func resolveCached(ctx context.Context, cache *instanceCache, desc *descriptor, owner resolver, parent *chain, f *flight) (any, bool, error) {
	if instance, ok := cache.load(desc.key); ok {
		return instance, true, nil
	}

	if parent.contains(desc.key) {
		return nil, false, errCircularResolution(desc.name, parent.path(desc.key))
	}

	instance, cached, err := cache.getOrCreate(desc.key, f, func() (any, error) {
		return construct(ctx, desc, owner, parent, f)
	})
	if errors.Is(err, errLockCycle) {
		// The holder of this key is waiting, through other locks, on this flight
		return nil, false, errCircularResolution(desc.name, parent.path(desc.key)).
			WithContext("concurrent", true)
	}

	return instance, cached, err
}

// construct invokes the factory with owner as its resolution context.
func construct(ctx context.Context, desc *descriptor, owner resolver, parent *chain, f *flight) (any, error) {
	if parent.contains(desc.key) {
		return nil, errCircularResolution(desc.name, parent.path(desc.key))
	}

	res := &resolution{
		ctx:    ctx,
		owner:  owner,
		chain:  parent.push(desc.key),
		flight: f,
	}

	instance, err := desc.factory(res)
	res.detach()

	if err != nil {
		return nil, newServiceError(desc.key, desc.name, "resolve", err)
	}

	if !desc.key.accepts(instance) {
		return nil, errTypeMismatch(desc.key, desc.name, instance)
	}

	return instance, nil
}

// CreateScope creates a new scope with its own cache for scoped services.
func (p *Provider) CreateScope() *Scope {
	return newScope(p, uuid.New())
}

// Use adds middleware to the provider.
// Middleware is called in the order they are added.
func (p *Provider) Use(middleware Middleware) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.middleware = p.middleware.with(middleware)
}

func (p *Provider) middlewareSnapshot() *middlewareChain {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.middleware
}

// Has checks if a key is registered.
func (p *Provider) Has(key Key) bool {
	_, ok := p.registry[key]

	return ok
}

// Keys returns all registered keys in registration order.
func (p *Provider) Keys() []Key {
	return slices.Clone(p.order)
}

// Descriptor returns a read-only view of the registration for key.
func (p *Provider) Descriptor(key Key) (Descriptor, bool) {
	desc, ok := p.registry[key]
	if !ok {
		return Descriptor{}, false
	}

	return desc.view(), true
}

// Inspect returns diagnostic information about a service.
func (p *Provider) Inspect(key Key) ServiceInfo {
	desc, ok := p.registry[key]
	if !ok {
		return ServiceInfo{Key: key, Name: key.String()}
	}

	view := desc.view()

	return ServiceInfo{
		Key:          key,
		Name:         view.DisplayName,
		Lifetime:     view.Lifetime,
		Dependencies: view.Dependencies,
		Metadata:     view.Metadata,
		Instantiated: p.cache.has(key),
	}
}

// Validate checks that every declared dependency is registered and that the
// declared dependencies are acyclic. It is never run implicitly.
func (p *Provider) Validate() error {
	return p.graph.Validate()
}

// Warmup resolves every singleton eagerly, in declared dependency order.
func (p *Provider) Warmup(ctx context.Context) error {
	order, err := p.graph.TopologicalSort()
	if err != nil {
		return err
	}

	for _, key := range order {
		if err := ctx.Err(); err != nil {
			return err
		}

		desc, ok := p.registry[key]
		if !ok || desc.lifetime != Singleton {
			continue
		}

		if _, err := p.ResolveContext(ctx, key); err != nil {
			return err
		}
	}

	return nil
}
