package model

import (
	"sync"

	"github.com/google/uuid"
)

// ResponseSender pushes outbound responses to one connection. Implementations
// must be safe for concurrent use: responses are pushed both by the session's
// own message handling and by peers routing signaling events to it.
type ResponseSender interface {
	Send(resp Response) error
	Close() error
}

// PeerAddress is the address a user advertised for direct peer connections.
// It is independent of the transport-level connection address.
type PeerAddress struct {
	Host string
	Port int
}

// IsZero reports whether no address has been advertised.
func (a PeerAddress) IsZero() bool {
	return a.Host == "" && a.Port == 0
}

// Identity is the authenticated user bound to a session, together with the
// peer address it last advertised. An address can only exist on an
// authenticated session because it lives inside this value.
type Identity struct {
	ID       uuid.UUID
	Username string
	Address  PeerAddress
}

// Session is the per-connection state owned by the protocol engine for the
// lifetime of one connection. It starts unauthenticated; Authenticate
// transitions it exactly once.
type Session struct {
	ID   uuid.UUID
	conn ResponseSender

	mu       sync.RWMutex
	identity *Identity
}

// NewSession creates an unauthenticated session over the given connection.
func NewSession(id uuid.UUID, conn ResponseSender) *Session {
	return &Session{
		ID:   id,
		conn: conn,
	}
}

// Authenticated reports whether the session has passed the authentication
// gate.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil
}

// Identity returns a copy of the bound identity, or false while the session
// is unauthenticated.
func (s *Session) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// Authenticate binds the resolved user to the session.
func (s *Session) Authenticate(id uuid.UUID, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &Identity{ID: id, Username: username}
}

// SetAddress records the advertised peer address. It reports false when the
// session is unauthenticated, in which case nothing is stored.
func (s *Session) SetAddress(addr PeerAddress) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return false
	}
	s.identity.Address = addr
	return true
}

// Address returns the advertised peer address. It reports false when the
// session is unauthenticated or no address has been advertised yet.
func (s *Session) Address() (PeerAddress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil || s.identity.Address.IsZero() {
		return PeerAddress{}, false
	}
	return s.identity.Address, true
}

// Send pushes a response to the session's connection.
func (s *Session) Send(resp Response) error {
	return s.conn.Send(resp)
}

// Close closes the underlying connection.
func (s *Session) Close() error {
	return s.conn.Close()
}
