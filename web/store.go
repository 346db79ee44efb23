package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nathoo/dragonroad/engine"
)

// session is one player's game. Its mutex serializes actions so each
// command runs to completion before the next is read.
type session struct {
	mu      sync.Mutex
	id      uuid.UUID
	eng     *engine.Engine
	created time.Time
	touched time.Time
}

// store keeps sessions in memory, keyed by UUID.
type store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session
	now      func() time.Time
}

// newStore creates an empty store.
func newStore() *store {
	return &store{
		sessions: map[uuid.UUID]*session{},
		now:      time.Now,
	}
}

// add registers an engine under a fresh id.
func (s *store) add(eng *engine.Engine) *session {
	now := s.now()
	sess := &session{id: uuid.New(), eng: eng, created: now, touched: now}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	return sess
}

// get returns a session and marks it used.
func (s *store) get(id uuid.UUID) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if ok {
		sess.touched = s.now()
	}
	return sess, ok
}

// remove drops a session. Returns false if it did not exist.
func (s *store) remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// count returns the number of live sessions.
func (s *store) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (s *store) sweep(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxIdle)
	n := 0
	for id, sess := range s.sessions {
		if sess.touched.Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}
