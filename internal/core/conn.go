package core

// Frame is a raw serialized payload (one JSON object per frame).
type Frame []byte

// ConnID identifies one live transport endpoint. A user with several
// open tabs owns several ConnIDs.
type ConnID string

// Conn abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type Conn interface {
	// TrySend queues a frame without blocking. It returns an error when
	// the outbound buffer is full or the connection is already closed;
	// callers treat that as a delivery failure for this one recipient.
	TrySend(Frame) error
	Close()
}
