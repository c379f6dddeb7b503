package berth

import (
	"reflect"
)

// Key identifies a service by its declared Go type. Keys are comparable and
// are used directly as map keys in the registry and in every instance cache.
//
// Interfaces are the usual choice: a Key for an interface type matches the
// capability a consumer depends on, not the concrete type a factory builds.
type Key struct {
	typ reflect.Type
}

// KeyOf returns the Key for the type parameter T.
//
// Example:
//
//	type Clock interface{ Now() time.Time }
//	key := berth.KeyOf[Clock]()
func KeyOf[T any]() Key {
	return Key{typ: reflect.TypeFor[T]()}
}

// KeyFor returns the Key for an already reflected type.
func KeyFor(t reflect.Type) Key {
	return Key{typ: t}
}

// Type returns the reflected type behind the key.
func (k Key) Type() reflect.Type {
	return k.typ
}

// IsZero reports whether k was not derived from a type.
func (k Key) IsZero() bool {
	return k.typ == nil
}

// String returns a human-readable representation of the key.
func (k Key) String() string {
	if k.typ == nil {
		return "<nil>"
	}

	return k.typ.String()
}

// accepts reports whether instance may be stored under k.
// A nil instance is accepted; it resolves to the zero value of the key's type.
func (k Key) accepts(instance any) bool {
	if instance == nil {
		return true
	}

	return reflect.TypeOf(instance).AssignableTo(k.typ)
}
