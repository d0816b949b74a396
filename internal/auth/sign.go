package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sign mints an HS256 token for the given subject and role. The server never
// issues tokens in production; this exists for the tokengen dev tool and for
// tests that need a valid bearer token.
func Sign(signingKey, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString([]byte(signingKey))
}
