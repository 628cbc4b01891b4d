package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alanya/signaling-server/internal/model"
)

const writeWait = 5 * time.Second

var _ model.ResponseSender = (*Conn)(nil)

// Conn adapts a websocket connection to the model.ResponseSender interface.
// Writes are serialized under a mutex: the session's own handler goroutine
// and peer sessions routing events to it both push through here, and the
// underlying connection supports only one concurrent writer.
type Conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

// NewConn wraps an upgraded websocket connection.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// Send marshals the response envelope and writes it as one text message.
func (c *Conn) Send(resp model.Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteJSON(resp)
}

// Close closes the underlying connection, unblocking its read loop.
func (c *Conn) Close() error {
	return c.ws.Close()
}
