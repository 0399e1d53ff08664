package syncmap

import "sync"

// Map is a thread-safe generic map structure
type Map[T any] struct {
	mux sync.RWMutex
	m   map[string]T
}

// New creates a new instance of Map
func New[T any]() *Map[T] {
	return &Map[T]{
		m: make(map[string]T),
	}
}

// Get retrieves an item by key
func (r *Map[T]) Get(key string) (T, bool) {
	r.mux.RLock()
	defer r.mux.RUnlock()
	v, ok := r.m[key]
	return v, ok
}

// Set adds or updates an item by key
func (r *Map[T]) Set(key string, value T) {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.m[key] = value
}

// Delete removes an item by key
func (r *Map[T]) Delete(key string) {
	r.mux.Lock()
	defer r.mux.Unlock()
	delete(r.m, key)
}

// Len returns number of items
func (r *Map[T]) Len() int {
	r.mux.RLock()
	defer r.mux.RUnlock()
	return len(r.m)
}

// Snapshot returns a detached copy of the map; callers may iterate it while
// other goroutines modify the original.
func (r *Map[T]) Snapshot() map[string]T {
	r.mux.RLock()
	defer r.mux.RUnlock()
	ret := make(map[string]T, len(r.m))
	for k, v := range r.m {
		ret[k] = v
	}
	return ret
}
