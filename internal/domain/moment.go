package domain

import "errors"

const (
	MaxMomentNameLen  = 33
	MaxDescriptionLen = 500
)

var ErrMomentNameTooLong = errors.New("moment name too long")

type (
	MomentID string
	MediaID  string
)

// Moment is a shared album record. The real-time core only ever reads
// membership from it and mutates the media list through the store.
type Moment struct {
	ID            MomentID
	Name          string
	Description   string
	Owner         UserID
	AllowedUsers  []UserID
	MediaIDs      []MediaID
	IsPublic      bool
	WebRTCEnabled bool
}

// HasMember reports whether uid is the owner or an allowed member.
// Anonymous users are never members.
func (m *Moment) HasMember(uid UserID) bool {
	if uid.Anonymous() {
		return false
	}
	if uid == m.Owner {
		return true
	}
	for _, u := range m.AllowedUsers {
		if u == uid {
			return true
		}
	}
	return false
}

// HasMedia reports whether the media id is already part of the moment.
func (m *Moment) HasMedia(id MediaID) bool {
	for _, existing := range m.MediaIDs {
		if existing == id {
			return true
		}
	}
	return false
}
