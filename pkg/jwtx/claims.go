// Package jwtx decodes access-token claims on the client side. The backend
// owns the signing keys, so decoding here is an unverified parse: the client
// only needs the expiry and identity claims to schedule refreshes and label
// the session, never to make a trust decision.
package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the access-token claims the storefront cares about. The backend
// issues more, we keep decoding additive so unknown fields are ignored.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the backend's user identifier claim.
	UserID string `json:"user_id,omitempty"`

	// Email of the authenticated user.
	Email string `json:"email,omitempty"`
}

// ExpiresAtTime returns the exp claim as a time, or the zero time when the
// claim is absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// ExpiresWithin reports whether the token expires at or before now+horizon.
// Tokens without an exp claim are treated as already expiring.
func (c *Claims) ExpiresWithin(now time.Time, horizon time.Duration) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return !c.ExpiresAt.Time.After(now.Add(horizon))
}
