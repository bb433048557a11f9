package service

import "sync"

// CollectionState is the observable per-collection operation state: whether
// a fetch is in flight and the error left by the most recent operation (nil
// after a success).
type CollectionState struct {
	Loading bool
	LastErr error
}

type stateRegistry struct {
	mu     sync.Mutex
	states map[string]CollectionState
}

func newStateRegistry() *stateRegistry {
	return &stateRegistry{states: make(map[string]CollectionState)}
}

func (r *stateRegistry) get(collection string) CollectionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[collection]
}

func (r *stateRegistry) setLoading(collection string, loading bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.states[collection]
	st.Loading = loading
	r.states[collection] = st
}

func (r *stateRegistry) setError(collection string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.states[collection]
	st.LastErr = err
	r.states[collection] = st
}
