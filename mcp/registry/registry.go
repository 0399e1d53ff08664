// Package registry holds the in-memory, insertion-ordered collection of
// remote tools created through the server.
package registry

import (
	"fmt"
	"sync"

	"github.com/riza-io/riza-mcp/mcp/tool"
	"github.com/riza-io/riza-mcp/riza"
)

// Entry pairs the client-visible descriptor with the remote handle.
type Entry struct {
	Descriptor tool.Descriptor
	Handle     *riza.Tool
}

// DuplicateToolError is returned when a tool name is already registered.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %s already exists", e.Name)
}

// Registry is safe for concurrent use. Readers get detached snapshots and
// never observe a partially applied mutation.
type Registry struct {
	mu        sync.RWMutex
	entries   []*Entry
	index     map[string]int
	reserved  map[string]bool
	listeners []func()
}

func New() *Registry {
	return &Registry{index: map[string]int{}, reserved: map[string]bool{}}
}

// Reserve claims name while its tool is being created remotely, so that a
// concurrent creation of the same name fails before reaching the remote
// service. release must be called once the creation finished, whether or not
// the tool got registered.
func (r *Registry) Reserve(name string) (release func(), err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.index[name]; ok || r.reserved[name] {
		return nil, &DuplicateToolError{Name: name}
	}
	r.reserved[name] = true
	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.reserved, name)
			r.mu.Unlock()
		})
	}, nil
}

// Register appends a created tool. Names must be unique.
func (r *Registry) Register(handle *riza.Tool) error {
	entry, err := newEntry(handle)
	if err != nil {
		return err
	}
	r.mu.Lock()
	if _, ok := r.index[entry.Descriptor.Name]; ok {
		r.mu.Unlock()
		return &DuplicateToolError{Name: entry.Descriptor.Name}
	}
	r.index[entry.Descriptor.Name] = len(r.entries)
	r.entries = append(r.entries, entry)
	listeners := r.listeners
	r.mu.Unlock()
	notify(listeners)
	return nil
}

// Replace swaps the handle of an existing tool in place, keeping its position.
func (r *Registry) Replace(handle *riza.Tool) error {
	entry, err := newEntry(handle)
	if err != nil {
		return err
	}
	r.mu.Lock()
	pos, ok := r.index[entry.Descriptor.Name]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("tool %s is not registered", entry.Descriptor.Name)
	}
	r.entries[pos] = entry
	listeners := r.listeners
	r.mu.Unlock()
	notify(listeners)
	return nil
}

// Lookup returns a copy of the named entry.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pos, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[pos].clone(), true
}

func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[name]
	return ok
}

// List returns descriptors in registration order.
func (r *Registry) List() []tool.Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make([]tool.Descriptor, len(r.entries))
	for i, entry := range r.entries {
		ret[i] = entry.Descriptor
	}
	return ret
}

// Entries returns copies of all entries in registration order.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ret := make([]Entry, len(r.entries))
	for i, entry := range r.entries {
		ret[i] = entry.clone()
	}
	return ret
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// OnChange registers fn to be called after every successful mutation.
// Listeners run on the mutating goroutine, outside the registry lock.
func (r *Registry) OnChange(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(append([]func(){}, r.listeners...), fn)
}

func newEntry(handle *riza.Tool) (*Entry, error) {
	descriptor, err := tool.NewDescriptor(handle)
	if err != nil {
		return nil, err
	}
	clone := *handle
	return &Entry{Descriptor: descriptor, Handle: &clone}, nil
}

func (e *Entry) clone() Entry {
	handle := *e.Handle
	return Entry{Descriptor: e.Descriptor, Handle: &handle}
}

func notify(listeners []func()) {
	for _, fn := range listeners {
		fn()
	}
}
