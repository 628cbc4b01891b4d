// Package registry holds the presence table of currently-connected users.
// It is the single source of truth for "is user X reachable for signaling"
// and every handler routing to a named peer goes through it.
package registry

import (
	"sync"

	"github.com/alanya/signaling-server/internal/model"
)

// Registry maps usernames to the live session representing that user.
// At most one session exists per username; InsertIfAbsent holds the lock
// across the check and the insert so concurrent authentications for the same
// username cannot both win.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*model.Session
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		sessions: make(map[string]*model.Session),
	}
}

// InsertIfAbsent registers sess under username if no session currently holds
// it. It reports false, without modifying the table, when the username is
// taken.
func (r *Registry) InsertIfAbsent(username string, sess *model.Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[username]; exists {
		return false
	}
	r.sessions[username] = sess
	return true
}

// Get returns the live session for username, if any.
func (r *Registry) Get(username string) (*model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[username]
	return sess, ok
}

// Remove deletes the entry for username if it is held by sess. The session
// match keeps a disconnecting duplicate from evicting the session that won
// the username.
func (r *Registry) Remove(username string, sess *model.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[username]; ok && current == sess {
		delete(r.sessions, username)
	}
}

// Len returns the number of connected users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
