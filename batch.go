package berth

// Registration holds configuration for a service to be registered.
type Registration struct {
	Key      Key
	Lifetime Lifetime
	Factory  Factory
	Options  []RegisterOption
}

// Service creates a Registration for batch registration.
//
// Example:
//
//	c.RegisterAll(
//	    berth.Service(berth.KeyOf[*sql.DB](), berth.Singleton, openDB),
//	    berth.Service(berth.KeyOf[Cache](), berth.Singleton, newCache),
//	)
func Service(key Key, lifetime Lifetime, factory Factory, opts ...RegisterOption) Registration {
	return Registration{
		Key:      key,
		Lifetime: lifetime,
		Factory:  factory,
		Options:  opts,
	}
}

// TypedService creates a Registration from a typed factory.
func TypedService[T any](lifetime Lifetime, factory func(Resolver) (T, error), opts ...RegisterOption) Registration {
	return Registration{
		Key:      KeyOf[T](),
		Lifetime: lifetime,
		Factory:  erase(factory),
		Options:  opts,
	}
}

// RegisterAll registers multiple services in a single call, in order.
// Later entries for the same key replace earlier ones.
func (c *Collection) RegisterAll(regs ...Registration) *Collection {
	for _, reg := range regs {
		c.Register(reg.Key, reg.Lifetime, reg.Factory, reg.Options...)
	}
	return c
}
