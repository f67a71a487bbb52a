package app

import (
	"time"

	"github.com/google/uuid"

	"github.com/dkeye/momentsync/internal/core"
	"github.com/dkeye/momentsync/internal/domain"
)

// Client is one admitted connection: a user's live socket scoped to a
// single moment for its whole lifetime. A user with several open tabs
// owns several Clients.
type Client struct {
	ID          core.ConnID
	User        domain.UserID
	Moment      domain.MomentID
	ConnectedAt time.Time

	conn core.Conn
}

func NewClient(user domain.UserID, moment domain.MomentID, conn core.Conn) *Client {
	return &Client{
		ID:          core.ConnID(uuid.NewString()),
		User:        user,
		Moment:      moment,
		ConnectedAt: time.Now(),
		conn:        conn,
	}
}

// Send queues a frame for the client without blocking.
func (c *Client) Send(f core.Frame) error { return c.conn.TrySend(f) }

// Close releases the underlying transport.
func (c *Client) Close() { c.conn.Close() }
