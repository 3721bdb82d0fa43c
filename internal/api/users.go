package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var res LoginResult
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "users/login/", nil, body, &res)
	return res, err
}

// Profile returns the signed in user.
func (c *Client) Profile(ctx context.Context) (Profile, error) {
	var p Profile
	err := c.get(ctx, "users/logged-in-user/", nil, &p)
	return p, err
}

// Tenants lists the users holding the tenant role.
func (c *Client) Tenants(ctx context.Context) ([]User, error) {
	var users []User
	err := c.get(ctx, "users/tenants/", nil, &users)
	return users, err
}

// Register creates a user.
func (c *Client) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	var res RegisterResult
	err := c.do(ctx, http.MethodPost, "users/register/", nil, in, &res)
	return res, err
}
