package providers

import (
	"fmt"
	"sync"
)

// ProviderRegistry manages provider constructors. Thread-safe so handlers
// and tests can register alternatives at runtime.
type ProviderRegistry struct {
	providers map[string]ProviderConstructor
	mutex     sync.RWMutex
}

// NewProviderRegistry creates a registry. With no arguments every known
// provider is registered; otherwise only the named ones.
func NewProviderRegistry(providerNames ...string) *ProviderRegistry {
	registry := &ProviderRegistry{
		providers: make(map[string]ProviderConstructor),
	}

	known := map[string]ProviderConstructor{
		"perplexity": NewPerplexityProvider,
		"mock":       NewMockProvider,
	}

	if len(providerNames) == 0 {
		for name, constructor := range known {
			registry.providers[name] = constructor
		}
	} else {
		for _, name := range providerNames {
			if constructor, ok := known[name]; ok {
				registry.providers[name] = constructor
			}
		}
	}

	return registry
}

// Register adds or replaces a provider constructor.
func (r *ProviderRegistry) Register(name string, constructor ProviderConstructor) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.providers[name] = constructor
}

// Get builds a provider instance by name.
func (r *ProviderRegistry) Get(name, apiKey, model string, extraHeaders map[string]string) (Provider, error) {
	r.mutex.RLock()
	constructor, ok := r.providers[name]
	r.mutex.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
	return constructor(apiKey, model, extraHeaders), nil
}
