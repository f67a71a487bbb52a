package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/momentsync/internal/core"
	"github.com/dkeye/momentsync/internal/domain"
)

// Registry is the only mutable shared state of the real-time core.
// It maps moment ids and user ids to the set of live clients so that
// fan-out can resolve recipients in O(1) per lookup.
type Registry struct {
	mu       sync.RWMutex
	byMoment map[domain.MomentID]map[core.ConnID]*Client
	byUser   map[domain.UserID]map[core.ConnID]*Client
}

func NewRegistry() *Registry {
	return &Registry{
		byMoment: make(map[domain.MomentID]map[core.ConnID]*Client),
		byUser:   make(map[domain.UserID]map[core.ConnID]*Client),
	}
}

// Register adds the client to its moment group and user group.
// Registering the same client twice is a no-op.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byMoment[c.Moment] == nil {
		r.byMoment[c.Moment] = make(map[core.ConnID]*Client)
	}
	r.byMoment[c.Moment][c.ID] = c
	if r.byUser[c.User] == nil {
		r.byUser[c.User] = make(map[core.ConnID]*Client)
	}
	r.byUser[c.User][c.ID] = c
	log.Info().Str("module", "app.registry").Str("conn", string(c.ID)).
		Str("user", string(c.User)).Str("moment", string(c.Moment)).Msg("registered")
}

// Unregister removes the client from both groups. It is safe to call
// for a client that was never registered; disconnect cleanup runs even
// when admission failed half-way.
func (r *Registry) Unregister(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.byMoment[c.Moment]; ok {
		delete(set, c.ID)
		if len(set) == 0 {
			delete(r.byMoment, c.Moment)
		}
	}
	if set, ok := r.byUser[c.User]; ok {
		delete(set, c.ID)
		if len(set) == 0 {
			delete(r.byUser, c.User)
		}
	}
	log.Info().Str("module", "app.registry").Str("conn", string(c.ID)).Msg("unregistered")
}

// MembersOfMoment returns a snapshot of the moment's live clients.
// A client may disconnect right after the snapshot is taken; delivery
// to it then fails for that one recipient only.
func (r *Registry) MembersOfMoment(id domain.MomentID) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byMoment[id]
	out := make([]*Client, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	return out
}

// ConnectionsOfUser returns a snapshot of the user's clients across
// all moments they are connected to.
func (r *Registry) ConnectionsOfUser(uid domain.UserID) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byUser[uid]
	out := make([]*Client, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	return out
}
