package berth

import (
	"fmt"
)

// Resolve with type safety.
func Resolve[T any](r Resolver) (T, error) {
	var zero T

	key := KeyOf[T]()

	instance, err := r.Resolve(key)
	if err != nil {
		return zero, err
	}

	if instance == nil {
		return zero, nil
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, errTypeMismatch(key, key.String(), instance)
	}

	return typed, nil
}

// Must resolves or panics - use only during startup.
func Must[T any](r Resolver) T {
	instance, err := Resolve[T](r)
	if err != nil {
		panic(fmt.Sprintf("failed to resolve %s: %v", KeyOf[T](), err))
	}

	return instance
}

// erase wraps a typed factory in an untyped Factory.
func erase[T any](factory func(Resolver) (T, error)) Factory {
	if factory == nil {
		return nil
	}

	return func(r Resolver) (any, error) {
		instance, err := factory(r)
		if err != nil {
			return nil, err
		}

		return instance, nil
	}
}

// Add registers a typed factory for T with the given lifetime.
func Add[T any](c *Collection, lifetime Lifetime, factory func(Resolver) (T, error), opts ...RegisterOption) *Collection {
	return c.Register(KeyOf[T](), lifetime, erase(factory), opts...)
}

// AddSingleton is a convenience wrapper for singleton services.
func AddSingleton[T any](c *Collection, factory func(Resolver) (T, error), opts ...RegisterOption) *Collection {
	return Add(c, Singleton, factory, opts...)
}

// AddScoped is a convenience wrapper for scoped services.
func AddScoped[T any](c *Collection, factory func(Resolver) (T, error), opts ...RegisterOption) *Collection {
	return Add(c, Scoped, factory, opts...)
}

// AddTransient is a convenience wrapper for transient services.
func AddTransient[T any](c *Collection, factory func(Resolver) (T, error), opts ...RegisterOption) *Collection {
	return Add(c, Transient, factory, opts...)
}

// AddValue registers a pre-built instance (always singleton).
func AddValue[T any](c *Collection, instance T, opts ...RegisterOption) *Collection {
	return AddSingleton(c, func(Resolver) (T, error) {
		return instance, nil
	}, opts...)
}

// Provide registers a constructor without dependencies.
func Provide[T any](c *Collection, lifetime Lifetime, ctor func() (T, error), opts ...RegisterOption) *Collection {
	if ctor == nil {
		return Add[T](c, lifetime, nil, opts...)
	}

	return Add(c, lifetime, func(Resolver) (T, error) {
		return ctor()
	}, opts...)
}

// Provide1 registers a constructor whose argument is resolved by type from
// the resolution context. The dependency is declared on the registration.
//
// Usage:
//
//	berth.Provide1(c, berth.Scoped, func(db *sql.DB) (*UserRepo, error) {
//	    return &UserRepo{db: db}, nil
//	})
func Provide1[T, A any](c *Collection, lifetime Lifetime, ctor func(A) (T, error), opts ...RegisterOption) *Collection {
	opts = withDeclared(opts, KeyOf[A]())
	if ctor == nil {
		return Add[T](c, lifetime, nil, opts...)
	}

	return Add(c, lifetime, func(r Resolver) (T, error) {
		var zero T

		a, err := Resolve[A](r)
		if err != nil {
			return zero, fmt.Errorf("failed to resolve dependency %s: %w", KeyOf[A](), err)
		}

		return ctor(a)
	}, opts...)
}

// Provide2 is Provide1 for constructors with two dependencies.
func Provide2[T, A, B any](c *Collection, lifetime Lifetime, ctor func(A, B) (T, error), opts ...RegisterOption) *Collection {
	opts = withDeclared(opts, KeyOf[A](), KeyOf[B]())
	if ctor == nil {
		return Add[T](c, lifetime, nil, opts...)
	}

	return Add(c, lifetime, func(r Resolver) (T, error) {
		var zero T

		a, err := Resolve[A](r)
		if err != nil {
			return zero, fmt.Errorf("failed to resolve dependency %s: %w", KeyOf[A](), err)
		}

		b, err := Resolve[B](r)
		if err != nil {
			return zero, fmt.Errorf("failed to resolve dependency %s: %w", KeyOf[B](), err)
		}

		return ctor(a, b)
	}, opts...)
}

// Provide3 is Provide1 for constructors with three dependencies.
func Provide3[T, A, B, C any](c *Collection, lifetime Lifetime, ctor func(A, B, C) (T, error), opts ...RegisterOption) *Collection {
	opts = withDeclared(opts, KeyOf[A](), KeyOf[B](), KeyOf[C]())
	if ctor == nil {
		return Add[T](c, lifetime, nil, opts...)
	}

	return Add(c, lifetime, func(r Resolver) (T, error) {
		var zero T

		a, err := Resolve[A](r)
		if err != nil {
			return zero, fmt.Errorf("failed to resolve dependency %s: %w", KeyOf[A](), err)
		}

		b, err := Resolve[B](r)
		if err != nil {
			return zero, fmt.Errorf("failed to resolve dependency %s: %w", KeyOf[B](), err)
		}

		cc, err := Resolve[C](r)
		if err != nil {
			return zero, fmt.Errorf("failed to resolve dependency %s: %w", KeyOf[C](), err)
		}

		return ctor(a, b, cc)
	}, opts...)
}

// withDeclared prepends a dependency declaration without touching the caller's slice.
func withDeclared(opts []RegisterOption, keys ...Key) []RegisterOption {
	return append([]RegisterOption{WithDependencies(keys...)}, opts...)
}
