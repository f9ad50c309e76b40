package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
)

// User is the identity record as returned by the auth API.
// Metadata holds the profile fields plus the internal "sub" claim.
type User struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata"`
}

// Session is an authenticated session: an access token plus its user.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// SignIn authenticates with email and password and returns the session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	query := url.Values{"grant_type": {"password"}}
	body := map[string]string{"email": email, "password": password}

	var session Session
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token", query, nil, body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SignUp registers a new user and returns the fresh session.
// When the project requires email confirmation the response carries the bare
// user instead of a session; the access token is empty in that case.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, nil, body, &raw); err != nil {
		return nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	if session.User.ID == "" {
		// Bare user shape, no surrounding session.
		if err := json.Unmarshal(raw, &session.User); err != nil {
			return nil, err
		}
	}
	return &session, nil
}

// VerifyPassword reports whether the credentials authenticate, by attempting
// a fresh password grant. A transport failure is an error, a rejection is not.
func (c *Client) VerifyPassword(ctx context.Context, email, password string) (bool, error) {
	_, err := c.SignIn(ctx, email, password)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// AdminGetUser fetches one identity record by id.
func (c *Client) AdminGetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/admin/users/"+url.PathEscape(id), nil, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminUpdateUser overwrites attributes of one identity record.
// attrs uses the admin API's names, e.g. {"user_metadata": {...}} or
// {"password": "..."}.
func (c *Client) AdminUpdateUser(ctx context.Context, id string, attrs map[string]any) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPut, "/auth/v1/admin/users/"+url.PathEscape(id), nil, nil, attrs, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminDeleteUser soft-deletes one identity record.
func (c *Client) AdminDeleteUser(ctx context.Context, id string) error {
	body := map[string]bool{"should_soft_delete": true}
	return c.do(ctx, http.MethodDelete, "/auth/v1/admin/users/"+url.PathEscape(id), nil, nil, body, nil)
}

// GetUserByToken resolves an access token to its user via the auth API.
// Used as the fallback when no JWT secret is configured locally.
func (c *Client) GetUserByToken(ctx context.Context, token string) (*User, error) {
	headers := map[string]string{"Authorization": "Bearer " + token}

	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", nil, headers, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
