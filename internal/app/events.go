package app

import (
	"github.com/pion/webrtc/v4"

	"github.com/dkeye/momentsync/internal/domain"
)

// Inbound message kinds. One JSON object per frame, dispatched on "type".
const (
	kindAddMedia     = "add_media"
	kindRemoveMedia  = "remove_media"
	kindWebRTCOffer  = "webrtc_offer"
	kindWebRTCAnswer = "webrtc_answer"
	kindICECandidate = "webrtc_ice_candidate"
	kindTyping       = "typing"
	kindPing         = "ping"
)

type envelope struct {
	Type string `json:"type"`
}

type mediaPayload struct {
	MediaID   string `json:"media_id"`
	Timestamp int64  `json:"timestamp"`
}

type offerPayload struct {
	Offer     *webrtc.SessionDescription `json:"offer"`
	SessionID string                     `json:"session_id"`
	PeerID    string                     `json:"peer_id"`
}

type answerPayload struct {
	Answer    *webrtc.SessionDescription `json:"answer"`
	SessionID string                     `json:"session_id"`
	ToUser    string                     `json:"to_user"`
}

type candidatePayload struct {
	Candidate *webrtc.ICECandidateInit `json:"candidate"`
	SessionID string                   `json:"session_id"`
}

type typingPayload struct {
	IsTyping *bool `json:"is_typing"`
}

// MomentInfo is the read-only view sent once right after admission.
type MomentInfo struct {
	ID            domain.MomentID `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	MediaCount    int             `json:"media_count"`
	MemberCount   int             `json:"member_count"`
	IsPublic      bool            `json:"is_public"`
	WebRTCEnabled bool            `json:"webrtc_enabled"`
}

type MomentDataEvent struct {
	Type   string     `json:"type"`
	Moment MomentInfo `json:"moment"`
}

type MediaAddedEvent struct {
	Type      string        `json:"type"`
	MediaID   string        `json:"media_id"`
	Uploader  domain.UserID `json:"uploader"`
	Timestamp int64         `json:"timestamp"`
}

type MediaRemovedEvent struct {
	Type      string        `json:"type"`
	MediaID   string        `json:"media_id"`
	Remover   domain.UserID `json:"remover"`
	Timestamp int64         `json:"timestamp"`
}

type WebRTCOfferEvent struct {
	Type      string                     `json:"type"`
	Offer     *webrtc.SessionDescription `json:"offer"`
	FromUser  domain.UserID              `json:"from_user"`
	SessionID string                     `json:"session_id"`
}

type WebRTCAnswerEvent struct {
	Type      string                     `json:"type"`
	Answer    *webrtc.SessionDescription `json:"answer"`
	ToUser    string                     `json:"to_user"`
	SessionID string                     `json:"session_id"`
}

type ICECandidateEvent struct {
	Type      string                   `json:"type"`
	Candidate *webrtc.ICECandidateInit `json:"candidate"`
	FromUser  domain.UserID            `json:"from_user"`
	SessionID string                   `json:"session_id"`
}

type UserTypingEvent struct {
	Type     string        `json:"type"`
	User     domain.UserID `json:"user"`
	IsTyping bool          `json:"is_typing"`
}

type PongEvent struct {
	Type string `json:"type"`
}

type NotificationEvent struct {
	Type             string `json:"type"`
	Title            string `json:"title"`
	Body             string `json:"body"`
	NotificationType string `json:"notification_type"`
}
