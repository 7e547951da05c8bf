package supabase

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// AuthEvent identifies a session state transition.
type AuthEvent string

const (
	AuthSignedIn       AuthEvent = "SIGNED_IN"
	AuthSignedOut      AuthEvent = "SIGNED_OUT"
	AuthTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
)

const authTopic = "auth.state"

// AuthChange is delivered to subscribers on every session transition.
// Session is nil for AuthSignedOut.
type AuthChange struct {
	Event   AuthEvent `json:"event"`
	Session *Session  `json:"session"`
}

// OnAuthStateChange registers handler for session transitions for the
// lifetime of the subscription. The returned function unsubscribes; callers
// must invoke it on teardown.
func (c *Client) OnAuthStateChange(handler func(AuthChange)) (func(), error) {
	ctx, cancel := context.WithCancel(context.Background())

	messages, err := c.bus.Subscribe(ctx, authTopic)
	if err != nil {
		cancel()

		return nil, err
	}

	go func() {
		for msg := range messages {
			var change AuthChange
			if err := json.Unmarshal(msg.Payload, &change); err != nil {
				c.logger.Error("Failed to decode auth change notification", "error", err)
				msg.Ack()

				continue
			}

			handler(change)
			msg.Ack()
		}
	}()

	return cancel, nil
}

func (c *Client) publishAuthChange(event AuthEvent, session *Session) {
	payload, err := json.Marshal(AuthChange{Event: event, Session: session})
	if err != nil {
		c.logger.Error("Failed to encode auth change notification", "error", err)

		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := c.bus.Publish(authTopic, msg); err != nil {
		c.logger.Error("Failed to publish auth change notification", "event", string(event), "error", err)
	}
}
