package berth

import "github.com/pkg/errors"

// Lifetime controls how many instances of a service exist and who shares them.
type Lifetime uint8

const (
	// Singleton services are created once per Provider and shared by every scope.
	Singleton Lifetime = iota + 1
	// Scoped services are created once per Scope. Resolved from the Provider
	// directly, the Provider acts as its own permanent scope.
	Scoped
	// Transient services are created on every resolution and never cached.
	Transient
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Scoped:
		return "scoped"
	case Transient:
		return "transient"
	default:
		return "unknown"
	}
}

// IsValid reports whether l is one of the three defined lifetimes.
func (l Lifetime) IsValid() bool {
	return l >= Singleton && l <= Transient
}

// cached reports whether instances of this lifetime live in an instance cache.
func (l Lifetime) cached() bool {
	return l == Singleton || l == Scoped
}

// ParseLifetime parses the String form of a Lifetime.
func ParseLifetime(s string) (Lifetime, error) {
	switch s {
	case "singleton":
		return Singleton, nil
	case "scoped":
		return Scoped, nil
	case "transient":
		return Transient, nil
	}

	return 0, errors.Errorf("unknown lifetime %q", s)
}
