package authsdk

import (
	"context"
	"net/http"
)

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	resp, err := c.doJSON(ctx, http.MethodPost, "/api/users", req, nil)
	if err != nil {
		return nil, err
	}

	var user User
	if err := decodeJSON(resp, &user, http.StatusCreated); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns every account ordered by username.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/users", nil, nil)
	if err != nil {
		return nil, err
	}

	var users []User
	if err := decodeJSON(resp, &users, http.StatusOK); err != nil {
		return nil, err
	}
	return users, nil
}
