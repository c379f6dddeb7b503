package berth

import "maps"

// Factory creates a service instance. The Resolver it receives is the
// resolution context to pull dependencies from: the Provider for singleton,
// transient and root-level scoped services, the Scope for scoped services
// resolved through a scope.
type Factory func(r Resolver) (any, error)

// descriptor is the registered recipe for one key.
type descriptor struct {
	key      Key
	lifetime Lifetime
	factory  Factory
	name     string
	deps     []Key
	metadata map[string]string
}

// Descriptor is a read-only view of a registration.
type Descriptor struct {
	Key          Key
	Lifetime     Lifetime
	DisplayName  string
	Dependencies []Key
	Metadata     map[string]string
}

func (d *descriptor) view() Descriptor {
	return Descriptor{
		Key:          d.key,
		Lifetime:     d.lifetime,
		DisplayName:  d.name,
		Dependencies: append([]Key(nil), d.deps...),
		Metadata:     maps.Clone(d.metadata),
	}
}
