package models

import "time"

// Customer is the storefront profile an order is attributed to. Profiles are
// created by the auth surface or, as a fallback, as a minimal record during
// fulfillment when nothing matches the checkout email.
type Customer struct {
	ID        int       `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	AuthID    *string   `json:"auth_id,omitempty" db:"auth_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
