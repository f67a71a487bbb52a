package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dkeye/momentsync/internal/core"
)

var ErrBackpressure = errors.New("backpressure")

// Conn wraps a websocket connection with a buffered outbound channel.
// TrySend never blocks: a full buffer means the recipient is stalled
// and that single delivery is dropped.
type Conn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func NewConn(conn *websocket.Conn, buffer int) *Conn {
	return &Conn{
		conn: conn,
		send: make(chan core.Frame, buffer),
	}
}

func (c *Conn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *Conn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}
