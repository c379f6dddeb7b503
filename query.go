package berth

// ServiceInfo contains diagnostic information about a registration.
type ServiceInfo struct {
	Key          Key
	Name         string
	Lifetime     Lifetime
	Dependencies []Key
	Metadata     map[string]string
	// Instantiated reports whether the provider's own cache holds an
	// instance. Instances cached by scopes are not reflected here.
	Instantiated bool
}

// ServiceQuery defines criteria for querying services.
type ServiceQuery struct {
	// Lifetime filters by service lifetime.
	// Zero matches all lifetimes.
	Lifetime Lifetime

	// Metadata filters by service metadata key-value pairs.
	// All specified metadata must match for a service to be included.
	Metadata map[string]string

	// Instantiated filters by whether the provider has cached an instance.
	// nil matches all services.
	Instantiated *bool
}

// Query returns detailed information about services matching the query
// criteria, in registration order.
//
// Example:
//
//	// Find all singletons that were already built
//	built := true
//	results := berth.Query(p, berth.ServiceQuery{
//	    Lifetime:     berth.Singleton,
//	    Instantiated: &built,
//	})
func Query(p *Provider, query ServiceQuery) []ServiceInfo {
	var results []ServiceInfo

	for _, key := range p.Keys() {
		info := p.Inspect(key)

		if query.Lifetime != 0 && info.Lifetime != query.Lifetime {
			continue
		}

		if !matchesMetadata(info.Metadata, query.Metadata) {
			continue
		}

		if query.Instantiated != nil && info.Instantiated != *query.Instantiated {
			continue
		}

		results = append(results, info)
	}

	return results
}

// QueryKeys returns the keys of services matching the query criteria.
func QueryKeys(p *Provider, query ServiceQuery) []Key {
	results := Query(p, query)
	keys := make([]Key, len(results))
	for i, info := range results {
		keys[i] = info.Key
	}
	return keys
}

// FindByLifetime returns all services with a specific lifetime.
func FindByLifetime(p *Provider, lifetime Lifetime) []ServiceInfo {
	return Query(p, ServiceQuery{Lifetime: lifetime})
}

// FindByMetadata returns all services carrying key=value metadata.
func FindByMetadata(p *Provider, key, value string) []ServiceInfo {
	return Query(p, ServiceQuery{Metadata: map[string]string{key: value}})
}

// FindInstantiated returns all services the provider has already built.
func FindInstantiated(p *Provider) []ServiceInfo {
	instantiated := true
	return Query(p, ServiceQuery{Instantiated: &instantiated})
}

func matchesMetadata(have, want map[string]string) bool {
	for key, value := range want {
		got, ok := have[key]
		if !ok || got != value {
			return false
		}
	}

	return true
}
