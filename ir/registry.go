package ir

import (
	"sync"

	"github.com/erraggy/oasir/oaserrors"
)

// Entry is a named model in a Registry.
type Entry struct {
	Name    string `json:"name"`
	Pointer string `json:"pointer,omitempty"`
	Model   Model  `json:"model"`
}

// Registry is an insertion ordered arena of named models. Each name is
// normalized exactly once; a second Add for the same name fails with a
// [*oaserrors.DoubleNormalizationError]. A Registry is safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries []*Entry
	byName  map[string]*Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Entry)}
}

// Add registers model under name.
func (r *Registry) Add(name, pointer string, model Model) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[name]; ok {
		return &oaserrors.DoubleNormalizationError{Name: name}
	}
	r.put(name, pointer, model)
	return nil
}

// Ensure registers model under name unless the name is already taken, and
// reports whether it was added.
func (r *Registry) Ensure(name, pointer string, model Model) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[name]; ok {
		return false
	}
	r.put(name, pointer, model)
	return true
}

func (r *Registry) put(name, pointer string, model Model) {
	if r.byName == nil {
		r.byName = make(map[string]*Entry)
	}
	e := &Entry{Name: name, Pointer: pointer, Model: model}
	r.entries = append(r.entries, e)
	r.byName[name] = e
}

// Get returns the model registered under name.
func (r *Registry) Get(name string) (Model, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return e.Model, true
}

// Lookup returns the full entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[name]
	return e, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Names returns the registered names in insertion order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// All returns the entries in insertion order.
func (r *Registry) All() []*Entry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Entry(nil), r.entries...)
}
