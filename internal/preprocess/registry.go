package preprocess

import (
	"slices"
	"sync"

	"git.home.luguber.info/inful/bookproc/internal/foundation/errors"
)

// Registry manages preprocessor registration and lookup by name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory to the registry.
// Returns an error if a factory with the same name already exists.
func (r *Registry) Register(f Factory) error {
	if f == nil {
		return errors.ValidationError("cannot register nil preprocessor").Build()
	}
	name := f.Name()
	if name == "" {
		return errors.ValidationError("preprocessor name is required").Build()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.ValidationError("preprocessor already registered").
			WithContext("preprocessor", name).
			Build()
	}
	r.factories[name] = f
	return nil
}

// Get retrieves a factory by name.
func (r *Registry) Get(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.factories[name]
	if !ok {
		return nil, errors.NotFoundError("preprocessor not found").
			WithContext("preprocessor", name).
			Build()
	}
	return f, nil
}

// Has checks if a factory with the given name exists.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// globalRegistry holds the preprocessors compiled into the binary.
var globalRegistry = NewRegistry()

// DefaultRegistry returns the global registry.
func DefaultRegistry() *Registry {
	return globalRegistry
}

// Register adds a factory to the global registry. Built-in preprocessors call
// it from init and panic on failure, since a duplicate is a programming error.
func Register(f Factory) {
	if err := globalRegistry.Register(f); err != nil {
		panic(err)
	}
}

// Get retrieves a factory from the global registry.
func Get(name string) (Factory, error) {
	return globalRegistry.Get(name)
}
