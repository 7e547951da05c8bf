// Package supabase is a thin client for the hosted auth/database service the
// dashboard delegates identity and persistence to: password-grant auth with
// in-process state-change notifications, and primary-key CRUD against the
// service's REST tables.
package supabase

import (
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const (
	authPrefix = "/auth/v1"
	restPrefix = "/rest/v1"

	requestTimeout = 30 * time.Second
)

// Client talks to one project of the remote service. It holds at most one
// session (the signed-in identity of the embedding program) and fans out
// auth state changes to subscribers. All calls are request-scoped; nothing
// is retried.
type Client struct {
	http    *resty.Client
	anonKey string
	logger  *slog.Logger

	mu      sync.RWMutex
	session *Session

	bus *gochannel.GoChannel
}

// New creates a client for the service at baseURL, authenticating requests
// with the project anon key until a user session is established.
func New(baseURL, anonKey string, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetHeader("apikey", anonKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			r.SetHeader("X-Request-ID", uuid.NewString())
			return nil
		})

	bus := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, watermill.NopLogger{})

	return &Client{
		http:    httpClient,
		anonKey: anonKey,
		logger:  logger,
		bus:     bus,
	}
}

// Close shuts down the auth notification bus. Subscriber channels close.
func (c *Client) Close() error {
	return c.bus.Close()
}

// CurrentSession returns the held session, or nil when signed out.
func (c *Client) CurrentSession() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.session
}

// AccessToken returns the current access token. It fails with ErrNoSession
// when no session is held; callers surface that as an unauthenticated error.
func (c *Client) AccessToken() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.session == nil {
		return "", ErrNoSession
	}

	return c.session.AccessToken, nil
}

func (c *Client) setSession(session *Session) {
	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
}

// bearerOr returns the caller token when set, the anon key otherwise.
func (c *Client) bearerOr(token string) string {
	if token == "" {
		return c.anonKey
	}

	return token
}
