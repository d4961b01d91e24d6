package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLifetime matches the API's token lifetime when a token carries no exp claim.
const DefaultLifetime = 7 * 24 * time.Hour

// Expiry returns when persisted session state should be dropped.
// The token is only inspected, never verified: the API remains the authority.
func Expiry(token string, now time.Time) time.Time {
	if token == "" {
		return now.Add(DefaultLifetime)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return now.Add(DefaultLifetime)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return now.Add(DefaultLifetime)
	}
	return exp.Time
}
