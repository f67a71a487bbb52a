package app

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// OnFrame dispatches one inbound frame from an admitted client.
// Malformed frames are dropped without closing the connection; an
// unrecognized kind is only logged.
func (o *Orchestrator) OnFrame(ctx context.Context, c *Client, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "app.router").Str("conn", string(c.ID)).Msg("bad json")
		return
	}

	switch env.Type {
	case kindAddMedia:
		o.handleAddMedia(ctx, c, data)
	case kindRemoveMedia:
		o.handleRemoveMedia(ctx, c, data)
	case kindWebRTCOffer:
		o.handleOffer(c, data)
	case kindWebRTCAnswer:
		o.handleAnswer(c, data)
	case kindICECandidate:
		o.handleCandidate(c, data)
	case kindTyping:
		o.handleTyping(c, data)
	case kindPing:
		o.handlePing(c)
	default:
		log.Warn().Str("module", "app.router").Str("type", env.Type).Msg("unknown message type")
	}
}

func (o *Orchestrator) handleTyping(c *Client, data []byte) {
	var p typingPayload
	if err := json.Unmarshal(data, &p); err != nil || p.IsTyping == nil {
		log.Warn().Str("module", "app.router").Msg("bad typing payload")
		return
	}
	o.broadcast(c.Moment, UserTypingEvent{
		Type:     "user_typing",
		User:     c.User,
		IsTyping: *p.IsTyping,
	}, c.ID)
}

func (o *Orchestrator) handlePing(c *Client) {
	o.sendTo(c, PongEvent{Type: "pong"})
}
