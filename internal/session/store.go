// Package session keeps per-browser application state on the server,
// keyed by an opaque session id carried in a cookie.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNotFound is returned for unknown session ids.
var ErrNotFound = errors.New("session not found")

// Store is an in-memory map of session id to State.
type Store struct {
	mu              sync.RWMutex
	states          map[string]*State
	defaultPageSize int
}

func NewStore(defaultPageSize int) *Store {
	if defaultPageSize <= 0 {
		defaultPageSize = 10
	}
	return &Store{
		states:          make(map[string]*State),
		defaultPageSize: defaultPageSize,
	}
}

func (s *Store) Get(id string) (*State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[id]
	return st, ok
}

// Create allocates a fresh state under a new random id.
func (s *Store) Create() (string, *State) {
	id := uuid.NewString()
	st := newState(s.defaultPageSize)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = st
	return id, st
}

// GetOrCreate returns the state for id, or a new one when id is unknown.
// created reports whether a new id was issued.
func (s *Store) GetOrCreate(id string) (sid string, st *State, created bool) {
	if id != "" {
		if st, ok := s.Get(id); ok {
			return id, st, false
		}
	}
	sid, st = s.Create()
	return sid, st, true
}

// Login stores the customer session on an existing state.
func (s *Store) Login(id, token, userID string) error {
	st, ok := s.Get(id)
	if !ok {
		return ErrNotFound
	}
	return st.Login(token, userID)
}

// Logout clears the customer session on an existing state.
func (s *Store) Logout(id string) error {
	st, ok := s.Get(id)
	if !ok {
		return ErrNotFound
	}
	st.Logout()
	return nil
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, id)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

type contextKey struct{}

type entry struct {
	id    string
	state *State
}

// NewContext attaches a session to ctx.
func NewContext(ctx context.Context, id string, st *State) context.Context {
	return context.WithValue(ctx, contextKey{}, entry{id: id, state: st})
}

// FromContext returns the session attached by NewContext.
func FromContext(ctx context.Context) (string, *State, bool) {
	e, ok := ctx.Value(contextKey{}).(entry)
	if !ok || e.state == nil {
		return "", nil, false
	}
	return e.id, e.state, true
}
