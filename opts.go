package berth

// RegisterOption is a configuration option for service registration.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	name     string
	deps     []Key
	metadata map[string]string
}

// WithDependencies declares the keys a factory resolves. Declarations are
// informational: they feed Validate, Warmup ordering and Inspect, and are
// never checked at registration time.
func WithDependencies(keys ...Key) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.deps = append(cfg.deps, keys...)
	}
}

// WithMetadata adds diagnostic metadata to a registration.
func WithMetadata(key, value string) RegisterOption {
	return func(cfg *registerConfig) {
		if cfg.metadata == nil {
			cfg.metadata = make(map[string]string)
		}
		cfg.metadata[key] = value
	}
}

// WithDisplayName overrides the name used for the service in errors and diagnostics.
func WithDisplayName(name string) RegisterOption {
	return func(cfg *registerConfig) {
		cfg.name = name
	}
}

// merge combines multiple options.
func mergeOptions(opts []RegisterOption) registerConfig {
	var cfg registerConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

// ProviderOption configures a Provider at Build time.
type ProviderOption func(*providerConfig)

type providerConfig struct {
	middleware []Middleware
}

// WithMiddleware installs resolution middleware, called in the order given.
func WithMiddleware(mw ...Middleware) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.middleware = append(cfg.middleware, mw...)
	}
}
