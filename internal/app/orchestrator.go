package app

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/momentsync/internal/core"
	"github.com/dkeye/momentsync/internal/domain"
	"github.com/dkeye/momentsync/internal/store"
)

// ErrAccessDenied is returned by Admit when the caller is not a member
// of the moment (or the moment does not exist). The transport layer
// closes the connection with a policy violation, nothing is sent.
var ErrAccessDenied = errors.New("access denied")

// Orchestrator routes every inbound frame of an admitted client to a
// per-kind handler and fans resulting events out through the registry.
// It mutates no persistent state itself; media changes delegate to the
// external moment store.
type Orchestrator struct {
	Registry *Registry
	Store    store.Store
	Sessions *SessionBook
}

func NewOrchestrator(reg *Registry, st store.Store, sessions *SessionBook) *Orchestrator {
	return &Orchestrator{Registry: reg, Store: st, Sessions: sessions}
}

// Authorize answers "is this user allowed in this moment" from the
// record store. Unknown moment ids deny access rather than error.
func (o *Orchestrator) Authorize(ctx context.Context, uid domain.UserID, momentID domain.MomentID) bool {
	if uid.Anonymous() {
		return false
	}
	m, err := o.Store.GetMoment(ctx, momentID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Error().Err(err).Str("module", "app.orchestrator").
				Str("moment", string(momentID)).Msg("authorize: store lookup failed")
		}
		return false
	}
	return m.HasMember(uid)
}

// Admit runs the admission sequence: authorize once, register the
// client in both groups, send the initial moment_data event. The
// membership check is connection-scoped; it is not repeated per message.
func (o *Orchestrator) Admit(ctx context.Context, uid domain.UserID, momentID domain.MomentID, conn core.Conn) (*Client, error) {
	if !o.Authorize(ctx, uid, momentID) {
		return nil, ErrAccessDenied
	}
	c := NewClient(uid, momentID, conn)
	o.Registry.Register(c)
	o.sendMomentData(ctx, c)
	return c, nil
}

// Disconnect removes the client from both groups and marks its
// signaling sessions inactive. Safe to call for clients that never
// completed admission.
func (o *Orchestrator) Disconnect(c *Client) {
	if c == nil {
		return
	}
	o.Registry.Unregister(c)
	o.Sessions.DeactivateOwned(c.ID)
}

func (o *Orchestrator) sendMomentData(ctx context.Context, c *Client) {
	m, err := o.Store.GetMoment(ctx, c.Moment)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").
			Str("moment", string(c.Moment)).Msg("moment_data lookup failed")
		return
	}
	o.sendTo(c, MomentDataEvent{
		Type: "moment_data",
		Moment: MomentInfo{
			ID:            m.ID,
			Name:          m.Name,
			Description:   m.Description,
			MediaCount:    len(m.MediaIDs),
			MemberCount:   len(m.AllowedUsers),
			IsPublic:      m.IsPublic,
			WebRTCEnabled: m.WebRTCEnabled,
		},
	})
}

// sendTo serializes an event for a single recipient.
func (o *Orchestrator) sendTo(c *Client, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").Msg("event marshal")
		return
	}
	if err := c.Send(core.Frame(b)); err != nil {
		log.Warn().Str("module", "app.orchestrator").Str("conn", string(c.ID)).Msg("send dropped")
	}
}

// broadcast serializes an event once and delivers it to every client
// in the moment group except the excluded connection (pass "" to
// include everyone). A failed delivery affects only that recipient.
func (o *Orchestrator) broadcast(momentID domain.MomentID, v any, exclude core.ConnID) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").Msg("event marshal")
		return
	}
	sent, dropped := 0, 0
	for _, member := range o.Registry.MembersOfMoment(momentID) {
		if member.ID == exclude {
			continue
		}
		if err := member.Send(core.Frame(b)); err != nil {
			dropped++
			continue
		}
		sent++
	}
	log.Debug().Str("module", "app.orchestrator").Str("moment", string(momentID)).
		Int("sent_to", sent).Int("dropped", dropped).Msg("broadcast result")
}

// NotifyUser delivers an addressed notification to every open
// connection of a user, across all moments. Fire and forget: a user
// with no live connection simply misses the real-time copy.
func (o *Orchestrator) NotifyUser(uid domain.UserID, title, body, kind string) {
	b, err := json.Marshal(NotificationEvent{
		Type:             "notification",
		Title:            title,
		Body:             body,
		NotificationType: kind,
	})
	if err != nil {
		log.Error().Err(err).Str("module", "app.orchestrator").Msg("notification marshal")
		return
	}
	for _, c := range o.Registry.ConnectionsOfUser(uid) {
		if err := c.Send(core.Frame(b)); err != nil {
			log.Warn().Str("module", "app.orchestrator").Str("conn", string(c.ID)).Msg("notification dropped")
		}
	}
}
