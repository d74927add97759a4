package store

import (
	"sync"

	"github.com/aaronzipp/chrono-agents/internal/session"
)

// SessionStore keeps live sessions in memory
type SessionStore struct {
	sessions map[string]*session.Session
	mu       sync.RWMutex
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*session.Session),
	}
}

// Get retrieves a session by code
func (s *SessionStore) Get(code string) (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, exists := s.sessions[code]
	return sess, exists
}

// Set stores a session under its code
func (s *SessionStore) Set(sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Code()] = sess
}

// Create builds a session under a fresh unique code and stores it
func (s *SessionStore) Create(opts session.Options) *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := GenerateCode()
	for s.sessions[code] != nil {
		code = GenerateCode()
	}
	sess := session.New(code, opts)
	s.sessions[code] = sess
	return sess
}

// Delete removes a session and cancels its timers
func (s *SessionStore) Delete(code string) bool {
	s.mu.Lock()
	sess, exists := s.sessions[code]
	delete(s.sessions, code)
	s.mu.Unlock()
	if exists {
		sess.Close()
	}
	return exists
}

// Exists checks if a session code is taken
func (s *SessionStore) Exists(code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.sessions[code]
	return exists
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
