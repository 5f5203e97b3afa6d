package action

import (
	"sort"
	"sync"
)

// Registry holds the set of registered actions. Registration happens
// during startup; once frozen the registry is read-only and lookups
// need no locking discipline from callers.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]*Definition
	frozen  bool
}

// NewRegistry creates an empty action registry.
func NewRegistry() *Registry {
	return &Registry{
		actions: make(map[string]*Definition),
	}
}

// Register adds an action definition. Registering a duplicate name or
// registering after Freeze is a startup error, not a silent override.
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return NewError(KindValidation, "nil action definition")
	}
	if def.Name == "" {
		return NewError(KindValidation, "action definition missing name")
	}
	if def.Handler == nil {
		return NewError(KindValidation, "action %q: missing handler", def.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return NewError(KindValidation, "action %q: registry is frozen", def.Name)
	}
	if _, exists := r.actions[def.Name]; exists {
		return NewError(KindValidation, "action %q: already registered", def.Name)
	}

	r.actions[def.Name] = def
	return nil
}

// Freeze marks the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// Get returns the definition for an action name.
func (r *Registry) Get(name string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.actions[name]
	return def, ok
}

// Has reports whether an action name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns all definitions sorted by name.
func (r *Registry) List() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Definition, 0, len(r.actions))
	for _, def := range r.actions {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Len returns the number of registered actions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}
