// Package domain contains entity without logic, just meta-data
package domain

import "errors"

const MaxUsernameLen = 35

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUsernameEmpty   = errors.New("username empty")
)

// UserID is the username supplied by the transport layer's
// authenticated session. Anonymous connections carry an empty id.
type UserID string

// Anonymous reports whether the id belongs to an unauthenticated caller.
func (u UserID) Anonymous() bool { return u == "" }

// NewUserID validates a raw username coming from the identity layer.
func NewUserID(raw string) (UserID, error) {
	if len(raw) == 0 {
		return "", ErrUsernameEmpty
	}
	if len(raw) > MaxUsernameLen {
		return "", ErrUsernameTooLong
	}
	return UserID(raw), nil
}
