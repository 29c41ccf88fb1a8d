package apiclient

import (
	"context"
	"net/http"

	"minimart/internal/model"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the backend's /auth/login answer.
type LoginResult struct {
	Token     string             `json:"token"`
	ExpiresIn int64              `json:"expiresIn"`
	User      *model.SessionUser `json:"user"`
}

// Login exchanges credentials for a token. It never sends an Authorization header.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.WithToken("").do(ctx, http.MethodPost, "/auth/login", nil,
		loginRequest{Username: username, Password: password}, &out, "Unable to sign in")
	if err != nil {
		return nil, err
	}
	return &out, nil
}
