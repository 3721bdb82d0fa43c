package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields of the access token the client reads.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Parse decodes the claims of token without verifying its signature. The
// server verifies tokens; the client only reads them.
func Parse(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	return claims, nil
}

// Expiry returns the expiration time of token. ok is false when the token
// has no exp claim.
func Expiry(token string) (exp time.Time, ok bool, err error) {
	claims, err := Parse(token)
	if err != nil {
		return time.Time{}, false, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false, nil
	}
	return claims.ExpiresAt.Time, true, nil
}

// Expired reports whether token expires before now plus leeway. Tokens that
// cannot be parsed count as expired.
func Expired(token string, now time.Time, leeway time.Duration) bool {
	exp, ok, err := Expiry(token)
	if err != nil {
		return true
	}
	return ok && !now.Add(leeway).Before(exp)
}
