package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alanya/signaling-server/internal/model"
)

var _ model.Server = (*Server)(nil)

// Server wraps the HTTP server hosting the websocket signaling endpoint
// with address and lifecycle methods.
type Server struct {
	httpServer *http.Server
	addr       string
}

// NewServer creates a Server exposing handler at the root path.
func NewServer(handler http.Handler, addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/", handler)

	return &Server{
		httpServer: &http.Server{Handler: mux},
		addr:       addr,
	}
}

// Start starts serving on the configured address using the provided
// security layer.
func (s *Server) Start(securityLayer model.SecurityLayer) error {
	listener, err := securityLayer.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop gracefully stops the server.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.addr
}
