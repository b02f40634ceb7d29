package domain

import "time"

// AuthSession is the in-memory snapshot of the authenticated user. It is
// owned by the auth scheduler; everything else reads copies.
type AuthSession struct {
	IsAuthenticated bool

	// UserID is the backend's subject identifier decoded from the access
	// token. Always consistent with AccessToken.
	UserID string

	// Email decoded from the access token, when the backend includes it.
	Email string

	AccessToken  string
	RefreshToken string

	// ExpiresAt is the access token's expiry claim.
	ExpiresAt time.Time
}
