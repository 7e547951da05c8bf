// Package models defines the core domain models for the automation dashboard.
package models

import "time"

// SubscriptionStatus represents the billing state of an account.
type SubscriptionStatus string

const (
	SubscriptionFree      SubscriptionStatus = "free"
	SubscriptionPro       SubscriptionStatus = "pro"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Profile is the per-user account record, one-to-one with the authenticated
// identity. It is provisioned lazily on first session when absent.
type Profile struct {
	ID                 string             `json:"id"`
	Email              string             `json:"email"`
	FullName           *string            `json:"full_name"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	StripeCustomerID   *string            `json:"stripe_customer_id"`
	SubscriptionEndsAt *time.Time         `json:"subscription_ends_at"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// DisplayName returns the full name when set, the email otherwise.
func (p *Profile) DisplayName() string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}

	return p.Email
}
