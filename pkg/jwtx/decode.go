package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Status classifies a decoded token. Callers must handle all three cases
// explicitly rather than probing nullable claim fields.
type Status int

const (
	// StatusInvalid means the string is not a decodable JWT, or carries no
	// exp claim. Claims are not populated.
	StatusInvalid Status = iota

	// StatusExpired means the token decoded but its exp is at or before
	// "now". Claims are populated for inspection.
	StatusExpired

	// StatusValid means the token decoded and exp is in the future.
	StatusValid
)

func (s Status) String() string {
	switch s {
	case StatusExpired:
		return "expired"
	case StatusValid:
		return "valid"
	default:
		return "invalid"
	}
}

// Token is the tagged result of decoding an access token.
type Token struct {
	Status Status
	Claims Claims
}

// Decode parses raw without signature verification and classifies it against
// now. A token that fails to parse, or that has no exp claim, is Invalid; an
// exp at or before now is Expired; otherwise Valid.
func Decode(raw string, now time.Time) Token {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return Token{Status: StatusInvalid}
	}

	if claims.ExpiresAt == nil {
		return Token{Status: StatusInvalid}
	}

	if !now.Before(claims.ExpiresAt.Time) {
		return Token{Status: StatusExpired, Claims: claims}
	}

	return Token{Status: StatusValid, Claims: claims}
}
