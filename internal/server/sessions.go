package server

import (
	"sync"
	"time"

	"github.com/bobmcallan/extrato/internal/interfaces"
	"github.com/bobmcallan/extrato/internal/models"
)

// Sessions live for the process lifetime; the cap only guards against a
// runaway client uploading in a loop.
const maxSessions = 64

// session is one uploaded statement plus its benchmark cache.
type session struct {
	ID        string
	Statement *models.Statement
	Provider  interfaces.SeriesProvider
	CreatedAt time.Time
}

// sessionStore is a concurrency-safe in-memory session registry.
type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*session
}

func newSessionStore() *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*session),
	}
}

// add registers a session, evicting the oldest one when full.
func (st *sessionStore) add(sess *session) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if len(st.sessions) >= maxSessions {
		oldestID := ""
		var oldestAt time.Time
		for id, existing := range st.sessions {
			if oldestID == "" || existing.CreatedAt.Before(oldestAt) {
				oldestID = id
				oldestAt = existing.CreatedAt
			}
		}
		delete(st.sessions, oldestID)
	}

	st.sessions[sess.ID] = sess
}

// get returns the session with the given id.
func (st *sessionStore) get(id string) (*session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

// remove deletes a session and reports whether it existed.
func (st *sessionStore) remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

// count returns the number of live sessions.
func (st *sessionStore) count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
