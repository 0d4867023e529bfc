package authsdk

import (
	"context"
	"net/http"
)

// Login exchanges a username and password for an auth token.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/login", LoginRequest{Username: username, Password: password}, nil)
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Refresh exchanges a valid auth token for a new one with a later expiry.
func (c *Client) Refresh(ctx context.Context, authToken string) (*TokenResponse, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/refresh", nil, map[string]string{
		"Authorization": "Bearer " + authToken,
	})
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// AuthenticateWithPassword logs in and wraps the token in a Session.
func (c *Client) AuthenticateWithPassword(ctx context.Context, username, password string) (*Session, error) {
	tok, err := c.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return NewSession(c, tok.AuthToken)
}
