package repository

import (
	"sync"

	"core/internal/model"
)

// SessionStore is the process-wide mapping from session id to session
// state. Each session carries its own mutex so no two turns for one
// session run concurrently while different sessions proceed in parallel.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	mu      sync.Mutex
	session *model.Session
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]*sessionEntry{}}
}

// Acquire returns the session for id under its exclusive lock, creating it
// on first use. The returned release func must be called when the turn is
// done; created reports whether the session was newly created.
func (s *SessionStore) Acquire(id string) (sess *model.Session, created bool, release func()) {
	s.mu.Lock()
	entry, ok := s.sessions[id]
	if !ok {
		entry = &sessionEntry{session: model.NewSession(id)}
		s.sessions[id] = entry
		created = true
	}
	s.mu.Unlock()

	// Per-session lock is taken outside the store lock so a slow turn on
	// one session never blocks unrelated sessions.
	entry.mu.Lock()
	return entry.session, created, entry.mu.Unlock
}

// Delete removes a session, e.g. on external expiry
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
