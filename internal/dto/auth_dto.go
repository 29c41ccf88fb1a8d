package dto

import (
	"time"

	"minimart/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// LoginRequest is checked by the auth service, which rejects blank credentials
// with a single message.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Next     string `json:"next"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LoginResponse struct {
	User      *model.SessionUser `json:"user"`
	Redirect  string             `json:"redirect"`
	ExpiresAt time.Time          `json:"expiresAt"`
}

type SessionResponse struct {
	User         *model.SessionUser `json:"user"`
	ExpiresAt    time.Time          `json:"expiresAt"`
	DefaultRoute string             `json:"defaultRoute"`
}
