package app

import (
	"sync"

	"github.com/dkeye/momentsync/internal/core"
	"github.com/dkeye/momentsync/internal/domain"
)

// SignalingSession is the bookkeeping record for one WebRTC
// offer/answer/ICE exchange. Not persisted beyond process lifetime.
type SignalingSession struct {
	ID     string
	From   domain.UserID
	Moment domain.MomentID
	Conn   core.ConnID
	PeerID string
	Active bool
}

// SessionBook tracks active signaling sessions so that answers and
// candidates referencing a dead or unknown negotiation can be dropped.
type SessionBook struct {
	mu       sync.Mutex
	sessions map[string]*SignalingSession
}

func NewSessionBook() *SessionBook {
	return &SessionBook{sessions: make(map[string]*SignalingSession)}
}

// Open records a session under a caller-supplied id. A second offer
// with the same id replaces the first (last offer wins).
func (b *SessionBook) Open(s SignalingSession) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s.Active = true
	b.sessions[s.ID] = &s
}

// Active reports whether the session id refers to a live negotiation.
func (b *SessionBook) Active(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[id]
	return ok && s.Active
}

// DeactivateOwned marks every session opened by the given connection
// inactive. Called on disconnect so stale answers cannot resurrect a
// dead negotiation.
func (b *SessionBook) DeactivateOwned(conn core.ConnID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, s := range b.sessions {
		if s.Conn == conn {
			s.Active = false
		}
	}
}
