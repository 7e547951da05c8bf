package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// User is the authentication identity record, distinct from the Profile row.
type User struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at"`
	UserMetadata     map[string]any `json:"user_metadata"`
}

// MetadataString reads a string value from the identity metadata, returning
// "" when absent or not a string.
func (u *User) MetadataString(key string) string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}

	value, _ := u.UserMetadata[key].(string)

	return value
}

// Session is an issued token pair plus the identity it belongs to.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

// SignUpResult carries the identity returned by sign-up and, when the
// service auto-confirms, the session issued alongside it.
type SignUpResult struct {
	User    *User
	Session *Session
}

// PasswordGrant exchanges credentials for a session without touching the
// client's held session. The web layer uses this directly so one process
// can serve many identities.
func (c *Client) PasswordGrant(ctx context.Context, email, password string) (*Session, error) {
	var (
		session Session
		body    authErrorBody
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&session).
		SetError(&body).
		Post(authPrefix + "/token")
	if err != nil {
		return nil, fmt.Errorf("password grant: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, body.toServiceError(resp.StatusCode())
	}

	return &session, nil
}

// SignInWithPassword signs the client in and notifies subscribers.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	session, err := c.PasswordGrant(ctx, email, password)
	if err != nil {
		return nil, err
	}

	c.setSession(session)
	c.publishAuthChange(AuthSignedIn, session)

	return session, nil
}

// RefreshGrant exchanges a refresh token for a fresh token pair without
// touching the client's held session.
func (c *Client) RefreshGrant(ctx context.Context, refreshToken string) (*Session, error) {
	var (
		session Session
		body    authErrorBody
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "refresh_token").
		SetBody(map[string]string{"refresh_token": refreshToken}).
		SetResult(&session).
		SetError(&body).
		Post(authPrefix + "/token")
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, body.toServiceError(resp.StatusCode())
	}

	return &session, nil
}

// RefreshSession exchanges the held refresh token for a fresh token pair and
// notifies subscribers.
func (c *Client) RefreshSession(ctx context.Context) (*Session, error) {
	current := c.CurrentSession()
	if current == nil {
		return nil, ErrNoSession
	}

	session, err := c.RefreshGrant(ctx, current.RefreshToken)
	if err != nil {
		return nil, err
	}

	c.setSession(session)
	c.publishAuthChange(AuthTokenRefreshed, session)

	return session, nil
}

// Register creates a new identity without touching the client's held
// session, attaching the display name as identity metadata. Depending on
// project settings the service either issues a session immediately
// (auto-confirm) or returns the unconfirmed identity.
func (c *Client) Register(ctx context.Context, email, password, fullName string) (*SignUpResult, error) {
	payload := map[string]any{
		"email":    email,
		"password": password,
	}
	if fullName != "" {
		payload["data"] = map[string]any{"full_name": fullName}
	}

	var body authErrorBody

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetError(&body).
		Post(authPrefix + "/signup")
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, body.toServiceError(resp.StatusCode())
	}

	// The success body is a session when the identity is auto-confirmed,
	// a bare user otherwise.
	var probe struct {
		AccessToken string `json:"access_token"`
	}

	raw := resp.Body()
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("sign up: decode response: %w", err)
	}

	if probe.AccessToken != "" {
		var session Session
		if err := json.Unmarshal(raw, &session); err != nil {
			return nil, fmt.Errorf("sign up: decode session: %w", err)
		}

		return &SignUpResult{User: session.User, Session: &session}, nil
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("sign up: decode user: %w", err)
	}

	return &SignUpResult{User: &user}, nil
}

// SignUp registers a new identity and, when the service auto-confirms and
// issues a session immediately, adopts it as the client's session and
// notifies subscribers.
func (c *Client) SignUp(ctx context.Context, email, password, fullName string) (*SignUpResult, error) {
	result, err := c.Register(ctx, email, password, fullName)
	if err != nil {
		return nil, err
	}

	if result.Session != nil {
		c.setSession(result.Session)
		c.publishAuthChange(AuthSignedIn, result.Session)
	}

	return result, nil
}

// RevokeToken invalidates the given access token remotely without touching
// the client's held session.
func (c *Client) RevokeToken(ctx context.Context, token string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Post(authPrefix + "/logout")
	if err != nil {
		return fmt.Errorf("sign out: %w", err)
	}

	if !resp.IsSuccess() {
		return &ServiceError{Status: resp.StatusCode(), Message: "sign out rejected"}
	}

	return nil
}

// SignOut revokes the held session remotely and clears it locally. The local
// session is cleared and subscribers notified even when the revocation
// request fails.
func (c *Client) SignOut(ctx context.Context) error {
	token, err := c.AccessToken()
	if err != nil {
		return nil
	}

	revokeErr := c.RevokeToken(ctx, token)

	c.setSession(nil)
	c.publishAuthChange(AuthSignedOut, nil)

	return revokeErr
}

// User fetches the identity record for the given access token.
func (c *Client) User(ctx context.Context, token string) (*User, error) {
	var (
		user User
		body authErrorBody
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&user).
		SetError(&body).
		Get(authPrefix + "/user")
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	if !resp.IsSuccess() {
		return nil, body.toServiceError(resp.StatusCode())
	}

	return &user, nil
}
