package berth

import (
	"fmt"
	"sync"
)

// Lazy wraps a dependency that is resolved on first access.
// This is useful for deferring resolution of expensive services until
// they're actually needed.
//
// Create it inside a factory from the Resolver the factory received, so the
// deferred lookup honours the same scope:
//
//	berth.AddScoped(c, func(r berth.Resolver) (*Handler, error) {
//	    return &Handler{cache: berth.NewLazy[*Cache](r)}, nil
//	})
type Lazy[T any] struct {
	resolver Resolver
	once     sync.Once
	value    T
	err      error
	done     bool
	mu       sync.Mutex
}

// NewLazy creates a new lazy dependency wrapper.
func NewLazy[T any](r Resolver) *Lazy[T] {
	return &Lazy[T]{resolver: r}
}

// Get resolves the dependency and returns it.
// The resolution happens only once; subsequent calls return the cached value or error.
func (l *Lazy[T]) Get() (T, error) {
	l.once.Do(func() {
		value, err := Resolve[T](l.resolver)

		l.mu.Lock()
		l.value, l.err, l.done = value, err, err == nil
		l.mu.Unlock()
	})

	return l.value, l.err
}

// MustGet resolves the dependency and returns it, panicking on error.
func (l *Lazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("lazy dependency %s failed: %v", l.Key(), err))
	}

	return value
}

// IsResolved returns true if the dependency has been resolved successfully.
func (l *Lazy[T]) IsResolved() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.done
}

// Key returns the key of the dependency.
func (l *Lazy[T]) Key() Key {
	return KeyOf[T]()
}

// OptionalLazy wraps an optional dependency that is resolved on first access.
// Returns the zero value without error if the dependency is not registered.
type OptionalLazy[T any] struct {
	resolver Resolver
	once     sync.Once
	value    T
	err      error
	found    bool
	mu       sync.Mutex
}

// NewOptionalLazy creates a new optional lazy dependency wrapper.
func NewOptionalLazy[T any](r Resolver) *OptionalLazy[T] {
	return &OptionalLazy[T]{resolver: r}
}

// Get resolves the dependency and returns it.
// Only a missing registration for T itself is treated as absent; a missing
// registration further down T's dependencies is still an error.
func (l *OptionalLazy[T]) Get() (T, error) {
	l.once.Do(func() {
		value, err := Resolve[T](l.resolver)
		if isNotFound(err, l.Key()) {
			return
		}

		l.mu.Lock()
		l.value, l.err, l.found = value, err, err == nil
		l.mu.Unlock()
	})

	return l.value, l.err
}

// MustGet resolves the dependency and returns it, panicking on error.
// Returns the zero value if the dependency is not found (does not panic).
func (l *OptionalLazy[T]) MustGet() T {
	value, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("optional lazy dependency %s failed: %v", l.Key(), err))
	}

	return value
}

// IsFound returns true if the dependency was found (only valid after Get).
func (l *OptionalLazy[T]) IsFound() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.found
}

// Key returns the key of the dependency.
func (l *OptionalLazy[T]) Key() Key {
	return KeyOf[T]()
}

// Supplier resolves its dependency on every call. Combined with a transient
// registration it hands out a fresh instance each time.
type Supplier[T any] struct {
	resolver Resolver
}

// NewSupplier creates a new supplier.
func NewSupplier[T any](r Resolver) *Supplier[T] {
	return &Supplier[T]{resolver: r}
}

// Get resolves and returns the dependency.
func (s *Supplier[T]) Get() (T, error) {
	return Resolve[T](s.resolver)
}

// MustGet resolves and returns the dependency, panicking on error.
func (s *Supplier[T]) MustGet() T {
	value, err := s.Get()
	if err != nil {
		panic(fmt.Sprintf("supplier %s failed: %v", KeyOf[T](), err))
	}

	return value
}
