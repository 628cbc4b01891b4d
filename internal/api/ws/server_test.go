package ws

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/alanya/signaling-server/internal/mocks"
)

func TestServer_Address(t *testing.T) {
	s := NewServer(http.NotFoundHandler(), ":9000")
	assert.Equal(t, ":9000", s.Address())
}

func TestServer_Stop(t *testing.T) {
	s := NewServer(http.NotFoundHandler(), ":9000")
	err := s.Stop(context.Background())
	assert.NoError(t, err)
}

func TestServer_Start_ListensAndServes(t *testing.T) {
	t.Parallel()

	srv := NewServer(http.NotFoundHandler(), ":0")
	sec := mocks.NewSecurityLayer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan struct{})
	sec.On("Listen", "tcp", ":0").Return(ln, nil).Run(func(args mock.Arguments) { close(done) })

	go func() { _ = srv.Start(sec) }()
	<-done
	time.Sleep(10 * time.Millisecond)
	assert.NoError(t, srv.Stop(context.Background()))
}
