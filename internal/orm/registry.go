package orm

import (
	"sort"
	"strings"
	"sync"

	"go.eggybyte.com/yolk/internal/errors"
)

// Registry maps ORM names to adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[string]Adapter)}
}

// Register adds an adapter under its lower-cased name.
func (r *Registry) Register(a Adapter) error {
	if a == nil || strings.TrimSpace(a.Name()) == "" {
		return errors.New(errors.CodeInvalidArgument, "adapter must have a name")
	}
	key := strings.ToLower(a.Name())

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.adapters[key]; exists {
		return errors.Newf(errors.CodeAlreadyExists, "ORM adapter %q is already registered", key)
	}
	r.adapters[key] = a
	return nil
}

// Get returns the adapter registered under name, ignoring case.
func (r *Registry) Get(name string) (Adapter, error) {
	key := strings.ToLower(strings.TrimSpace(name))

	r.mu.RLock()
	a, ok := r.adapters[key]
	r.mu.RUnlock()

	if !ok {
		return nil, errors.Newf(errors.CodeNotFound, "unknown ORM %q (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return a, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve picks the adapter by precedence: flag, then configured, then DefaultAdapter.
func (r *Registry) Resolve(flag, configured string) (Adapter, error) {
	switch {
	case strings.TrimSpace(flag) != "":
		return r.Get(flag)
	case strings.TrimSpace(configured) != "":
		return r.Get(configured)
	default:
		return r.Get(DefaultAdapter)
	}
}

// Dialects returns each adapter's supported databases, keyed by name.
func (r *Registry) Dialects() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]string, len(r.adapters))
	for name, a := range r.adapters {
		out[name] = append([]string(nil), a.Databases()...)
	}
	return out
}

// Supports reports whether the named adapter supports dialect.
func (r *Registry) Supports(name, dialect string) bool {
	a, err := r.Get(name)
	if err != nil {
		return false
	}
	for _, d := range a.Databases() {
		if strings.EqualFold(d, dialect) {
			return true
		}
	}
	return false
}
