package model

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSender struct{}

func (nopSender) Send(Response) error { return nil }
func (nopSender) Close() error        { return nil }

func TestSession_StartsUnauthenticated(t *testing.T) {
	s := NewSession(uuid.New(), nopSender{})

	assert.False(t, s.Authenticated())
	_, ok := s.Identity()
	assert.False(t, ok)
}

func TestSession_AddressRequiresAuthentication(t *testing.T) {
	s := NewSession(uuid.New(), nopSender{})

	assert.False(t, s.SetAddress(PeerAddress{Host: "1.2.3.4", Port: 5000}))
	_, ok := s.Address()
	assert.False(t, ok)
}

func TestSession_AuthenticateBindsIdentity(t *testing.T) {
	s := NewSession(uuid.New(), nopSender{})
	userID := uuid.New()

	s.Authenticate(userID, "alice")

	require.True(t, s.Authenticated())
	ident, ok := s.Identity()
	require.True(t, ok)
	assert.Equal(t, userID, ident.ID)
	assert.Equal(t, "alice", ident.Username)

	// Address is empty until advertised.
	_, ok = s.Address()
	assert.False(t, ok)
}

func TestSession_SetAddress(t *testing.T) {
	s := NewSession(uuid.New(), nopSender{})
	s.Authenticate(uuid.New(), "alice")

	require.True(t, s.SetAddress(PeerAddress{Host: "1.2.3.4", Port: 5000}))

	addr, ok := s.Address()
	require.True(t, ok)
	assert.Equal(t, "1.2.3.4", addr.Host)
	assert.Equal(t, 5000, addr.Port)
}

func TestNewResponse_NilDataMarshalsToEmptyObject(t *testing.T) {
	resp := NewResponse(ResponseP2PServerRegistered, true, "ok", nil)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"P2P_SERVER_REGISTERED","success":true,"message":"ok","data":{}}`, string(raw))
}
