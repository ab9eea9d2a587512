package models

import "time"

// Account is a registered user of the platform. PasswordHash is excluded
// from JSON and must never be logged or returned to callers; use Sanitized
// before handing an Account outside the service layer.
type Account struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	Username              string     `json:"username"`
	PasswordHash          string     `json:"-"`
	Tokens                int        `json:"tokens"`
	SubscriptionActive    bool       `json:"subscription_active"`
	SubscriptionExpiresAt *time.Time `json:"subscription_expires_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	LastLogin             *time.Time `json:"last_login,omitempty"`
	IsActive              bool       `json:"is_active"`
}

// Sanitized returns a copy of the account with the password hash stripped.
func (a *Account) Sanitized() *Account {
	c := *a
	c.PasswordHash = ""
	return &c
}
