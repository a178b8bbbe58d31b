// Package auth keeps the bearer token the client sends to the remote store.
// Obtaining the token is left to the server operator; the client only
// stores it and reads the user scope out of it.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iudanet/keepsake/internal/validation"
)

// ErrTokenExpired is returned for a token whose exp claim has passed
var ErrTokenExpired = errors.New("token expired")

// Session is a stored bearer token together with what the client needs to
// know about it
type Session struct {
	ExpiresAt time.Time `json:"expires_at,omitzero"`
	SavedAt   time.Time `json:"saved_at"`
	Token     string    `json:"token"`
	Scope     string    `json:"scope"`
}

// Expired reports whether the token has expired at now. Tokens without an
// exp claim never expire.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// ParseToken reads the subject (user scope) and expiry of a JWT without
// verifying its signature; verification is the server's job.
func ParseToken(token string) (*Session, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if err := validation.ValidateScope(claims.Subject); err != nil {
		return nil, fmt.Errorf("token subject is not a valid scope: %w", err)
	}

	s := &Session{Token: token, Scope: claims.Subject}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}
