package credentials

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned by Inspect for tokens that are not JWTs.
var ErrNotJWT = errors.New("token is not a JWT")

// TokenInfo describes the claims of a stored token.
type TokenInfo struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time // zero when the token has no expiry
}

// Expired reports whether the token has an expiry before now.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Inspect decodes token claims without verifying the signature. The API
// remains the only authority on whether a token is accepted.
func Inspect(token string) (TokenInfo, error) {
	claims := &jwt.RegisteredClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("%w: %w", ErrNotJWT, err)
	}

	info := TokenInfo{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
