package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flowdeck/flowdeck/pkg/models"
	"github.com/flowdeck/flowdeck/pkg/supabase"
)

// Profiles provisions and fetches account profiles. The same logic backs the
// session store and the web layer's per-request lookups.
type Profiles struct {
	client *supabase.Client
	logger *slog.Logger
}

func NewProfiles(client *supabase.Client, logger *slog.Logger) *Profiles {
	return &Profiles{client: client, logger: logger}
}

// GetOrCreate fetches the profile row for userID, creating it when the
// service reports the row missing. Any other fetch error is returned.
func (p *Profiles) GetOrCreate(ctx context.Context, token, userID string) (*models.Profile, error) {
	var profile models.Profile

	err := p.client.SelectSingle(ctx, token, supabase.TableProfiles, userID, &profile)
	if err == nil {
		return &profile, nil
	}

	if !supabase.IsNotFound(err) {
		return nil, err
	}

	return p.Create(ctx, token, userID)
}

// Create inserts a fresh profile for userID, reading email and display name
// from the identity record. New profiles start on the free plan with every
// optional field null.
func (p *Profiles) Create(ctx context.Context, token, userID string) (*models.Profile, error) {
	user, err := p.client.User(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("read identity for profile: %w", err)
	}

	var fullName *string
	if name := user.MetadataString("full_name"); name != "" {
		fullName = &name
	}

	row := map[string]any{
		"id":                   userID,
		"email":                user.Email,
		"full_name":            fullName,
		"subscription_status":  models.SubscriptionFree,
		"stripe_customer_id":   nil,
		"subscription_ends_at": nil,
	}

	var created models.Profile
	if err := p.client.Insert(ctx, token, supabase.TableProfiles, row, &created); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	p.logger.Info("Provisioned profile", "user_id", userID)

	return &created, nil
}
