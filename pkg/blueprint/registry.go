package blueprint

import (
	"errors"
	"fmt"
	"sync"
)

type resolveState int

const (
	unresolved resolveState = iota
	resolving
	resolved
)

type registryEntry struct {
	provider ResourceProvider
	value    any
	state    resolveState
}

// ResourceRegistry maps resource keys to providers and memoizes the
// resources they produce. A registry belongs to a single deployment run;
// every provider is invoked at most once per key.
type ResourceRegistry struct {
	mu      sync.RWMutex
	keys    []string
	entries map[string]*registryEntry

	// onResolve is called after a provider produced a value.
	onResolve func(key string)
}

// NewResourceRegistry creates an empty registry.
func NewResourceRegistry() *ResourceRegistry {
	return &ResourceRegistry{
		entries: make(map[string]*registryEntry),
	}
}

// Register registers a provider under key. Registering a key again replaces
// the provider as long as it has not been resolved yet.
func (r *ResourceRegistry) Register(key string, provider ResourceProvider) error {
	if key == "" {
		return errors.New("resource key is required")
	}
	if provider == nil {
		return fmt.Errorf("resource provider for %q is nil", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.entries[key]; ok {
		if e.state != unresolved {
			return fmt.Errorf("resource %q is already resolved", key)
		}
		e.provider = provider
		return nil
	}
	r.keys = append(r.keys, key)
	r.entries[key] = &registryEntry{provider: provider}
	return nil
}

// Has reports whether a provider is registered under key.
func (r *ResourceRegistry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Keys returns the registered keys in registration order.
func (r *ResourceRegistry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.keys...)
}

// Resolve returns the resource registered under key, invoking its provider
// on first use. Providers may resolve other keys through rc; a provider that
// (transitively) resolves its own key fails instead of recursing.
func (r *ResourceRegistry) Resolve(rc *ResourceContext, key string) (any, error) {
	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		r.mu.Unlock()
		return nil, &NotFoundError{Key: key}
	}
	switch e.state {
	case resolved:
		r.mu.Unlock()
		return e.value, nil
	case resolving:
		r.mu.Unlock()
		return nil, &ResolutionError{Key: key, Err: errors.New("dependency cycle detected")}
	}
	e.state = resolving
	provider := e.provider
	r.mu.Unlock()

	value, err := provider.Provide(rc)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		e.state = unresolved
		return nil, &ResolutionError{Key: key, Err: err}
	}
	e.value = value
	e.state = resolved
	if r.onResolve != nil {
		r.onResolve(key)
	}
	return value, nil
}

// ResolveAll resolves every registered provider in registration order.
func (r *ResourceRegistry) ResolveAll(rc *ResourceContext) error {
	for _, key := range r.Keys() {
		if _, err := r.Resolve(rc, key); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns a resource that has already been resolved. It never invokes
// a provider.
func (r *ResourceRegistry) Lookup(key string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok || e.state != resolved {
		return nil, &NotFoundError{Key: key}
	}
	return e.value, nil
}

// NamedResource looks up a resolved resource and asserts its type.
func NamedResource[T any](r *ResourceRegistry, key string) (T, error) {
	var zero T
	v, err := r.Lookup(key)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("resource %q is %T, not %T", key, v, zero)
	}
	return typed, nil
}
