package model

import "time"

// SessionUser is the user profile returned by the backend at login.
type SessionUser struct {
	UserID       int64  `json:"userId"`
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	LocationID   *int64 `json:"locationId,omitempty"`
	LocationName string `json:"locationName,omitempty"`
	Email        string `json:"email,omitempty"`
}

// Session is the authenticated state persisted per browser.
// Token and User are either both present or the session does not exist.
type Session struct {
	// ID is the opaque store key; it is never part of the stored blob.
	ID        string       `json:"-"`
	Token     string       `json:"token"`
	User      *SessionUser `json:"user"`
	ExpiresIn int64        `json:"expiresIn,omitempty"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// Valid reports whether the both-or-none invariant holds.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User != nil
}

// Expired reports whether the session lifetime has passed. A zero ExpiresAt never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Role returns the user's role, or "" for a nil session.
func (s *Session) Role() Role {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Role
}
