package berth

import (
	"maps"
	"slices"
	"sync"

	"go.uber.org/multierr"
)

// Collection accumulates service registrations before they are built into a
// Provider. Registering a key twice replaces the earlier descriptor; the key
// keeps its original position in Keys.
type Collection struct {
	descriptors map[Key]*descriptor
	order       []Key
	errs        error
	mu          sync.Mutex
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		descriptors: make(map[Key]*descriptor),
	}
}

// Register inserts or replaces the descriptor for key and returns the
// collection for chaining. Invalid registrations are recorded and reported by
// Build; dependencies a factory will resolve are not checked here.
func (c *Collection) Register(key Key, lifetime Lifetime, factory Factory, opts ...RegisterOption) *Collection {
	cfg := mergeOptions(opts)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case key.IsZero():
		c.errs = multierr.Append(c.errs, errInvalidRegistration(key, "key is not derived from a type"))
		return c
	case factory == nil:
		c.errs = multierr.Append(c.errs, errInvalidRegistration(key, "factory cannot be nil"))
		return c
	case !lifetime.IsValid():
		c.errs = multierr.Append(c.errs, errInvalidRegistration(key, "unknown lifetime "+lifetime.String()))
		return c
	}

	name := cfg.name
	if name == "" {
		name = key.String()
	}

	if _, exists := c.descriptors[key]; !exists {
		c.order = append(c.order, key)
	}

	c.descriptors[key] = &descriptor{
		key:      key,
		lifetime: lifetime,
		factory:  factory,
		name:     name,
		deps:     cfg.deps,
		metadata: cfg.metadata,
	}

	return c
}

// Has checks if a key is registered.
func (c *Collection) Has(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.descriptors[key]

	return ok
}

// Len returns the number of registered keys.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.descriptors)
}

// Keys returns the registered keys in first-registration order.
func (c *Collection) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.order)
}

// Build finalizes the collection into a Provider with an empty instance cache.
//
// The provider takes a snapshot of the registrations: nothing registered on
// the collection afterwards reaches it, and the provider exposes no way to
// change its registry.
func (c *Collection) Build(opts ...ProviderOption) (*Provider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.errs != nil {
		return nil, c.errs
	}

	var cfg providerConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return newProvider(maps.Clone(c.descriptors), slices.Clone(c.order), cfg), nil
}

// MustBuild is like Build but panics on error - use only during startup.
func (c *Collection) MustBuild(opts ...ProviderOption) *Provider {
	p, err := c.Build(opts...)
	if err != nil {
		panic(err)
	}

	return p
}
