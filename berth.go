// Package berth is a type-keyed dependency injection container with
// singleton, scoped and transient lifetimes.
//
// Services are registered on a Collection under the Key of the type
// consumers depend on, built into a Provider, and resolved either from the
// Provider or from a Scope created per unit of work:
//
//	c := berth.NewCollection()
//	berth.AddSingleton(c, func(r berth.Resolver) (Clock, error) { return systemClock{}, nil })
//	berth.Provide1(c, berth.Scoped, NewSession)
//
//	p, err := c.Build()
//	if err != nil { ... }
//
//	scope := p.CreateScope()
//	defer scope.End()
//	session, err := berth.Resolve[*Session](scope)
//
// Factories pull their own dependencies from the Resolver they are given.
// A scoped factory running inside a scope receives that scope, so its scoped
// dependencies share its cache; singleton factories always receive the
// Provider.
package berth
