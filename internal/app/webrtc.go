package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) handleOffer(c *Client, data []byte) {
	var p offerPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Offer == nil || p.SessionID == "" {
		log.Warn().Str("module", "app.webrtc").Msg("bad offer payload")
		return
	}

	// Last offer with a given session id wins; a collision overwrites
	// the previous record rather than erroring.
	o.Sessions.Open(SignalingSession{
		ID:     p.SessionID,
		From:   c.User,
		Moment: c.Moment,
		Conn:   c.ID,
		PeerID: p.PeerID,
	})

	o.broadcast(c.Moment, WebRTCOfferEvent{
		Type:      "webrtc_offer",
		Offer:     p.Offer,
		FromUser:  c.User,
		SessionID: p.SessionID,
	}, c.ID)
}

func (o *Orchestrator) handleAnswer(c *Client, data []byte) {
	var p answerPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Answer == nil || p.SessionID == "" || p.ToUser == "" {
		log.Warn().Str("module", "app.webrtc").Msg("bad answer payload")
		return
	}
	if !o.Sessions.Active(p.SessionID) {
		log.Warn().Str("module", "app.webrtc").Str("session", p.SessionID).Msg("answer for unknown session")
		return
	}

	// Whole room receives the answer; recipients filter on to_user
	// client-side.
	o.broadcast(c.Moment, WebRTCAnswerEvent{
		Type:      "webrtc_answer",
		Answer:    p.Answer,
		ToUser:    p.ToUser,
		SessionID: p.SessionID,
	}, "")
}

func (o *Orchestrator) handleCandidate(c *Client, data []byte) {
	var p candidatePayload
	if err := json.Unmarshal(data, &p); err != nil || p.Candidate == nil || p.SessionID == "" {
		log.Warn().Str("module", "app.webrtc").Msg("bad candidate payload")
		return
	}
	if !o.Sessions.Active(p.SessionID) {
		log.Warn().Str("module", "app.webrtc").Str("session", p.SessionID).Msg("candidate for unknown session")
		return
	}

	o.broadcast(c.Moment, ICECandidateEvent{
		Type:      "webrtc_ice_candidate",
		Candidate: p.Candidate,
		FromUser:  c.User,
		SessionID: p.SessionID,
	}, c.ID)
}
