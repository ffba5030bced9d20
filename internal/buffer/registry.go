package buffer

import (
	"sync"

	"github.com/cwbudde/merlin-go/internal/prelude"
)

// Registry holds the open buffers for one server process, keyed by
// document path. Each buffer is owned by a single analysis task (spec.md
// §5 "Scheduling model"), so Registry only serializes the map mutation
// itself, never a buffer's internal operations.
type Registry struct {
	mu      sync.Mutex
	buffers map[string]*Buffer
}

// NewRegistry returns an empty buffer registry.
func NewRegistry() *Registry {
	return &Registry{buffers: make(map[string]*Buffer)}
}

// Open creates (or replaces) the buffer at path with text and returns it.
func (r *Registry) Open(path, text string) *Buffer {
	b := Open(path, text, prelude.Initial())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buffers[path] = b
	return b
}

// Get returns the buffer at path, if open.
func (r *Registry) Get(path string) (*Buffer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.buffers[path]
	return b, ok
}

// Close discards the buffer at path along with its histories (spec.md §3
// "Lifecycle: ... destroyed on close").
func (r *Registry) Close(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.buffers, path)
}
