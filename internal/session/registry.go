package session

import (
	"sync"

	"github.com/google/uuid"
)

// Registry holds one State per session ID.
type Registry struct {
	mu     sync.Mutex
	states map[string]*State
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{states: make(map[string]*State)}
}

// Create starts a new session with a fresh UUID.
func (r *Registry) Create() *State {
	st := NewState(uuid.NewString())
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[st.ID()] = st
	return st
}

// Get returns the session with the given ID.
func (r *Registry) Get(id string) (*State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.states[id]
	return st, ok
}

// Delete drops a session.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.states[id]
	delete(r.states, id)
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
