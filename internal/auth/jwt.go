// Package auth verifies the bearer tokens presented to the API. Token
// issuance belongs to the identity provider; only the verification contract
// lives here.
package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	dErrors "tenantadmin/pkg/domain-errors"
	mwauth "tenantadmin/pkg/platform/middleware/auth"
)

// TokenClaims are the JWT claims this API expects: the standard subject plus
// the caller's role.
type TokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService validates HS256-signed access tokens.
type JWTService struct {
	signingKey []byte
}

func NewJWTService(signingKey string) *JWTService {
	return &JWTService{signingKey: []byte(signingKey)}
}

// ValidateToken verifies the token's signature, algorithm, and expiry, and
// returns the actor claims. All failures surface as unauthorized.
func (s *JWTService) ValidateToken(tokenString string) (*mwauth.Claims, error) {
	if tokenString == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "empty token")
	}

	claims := new(TokenClaims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing algorithm")
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
	}
	if !token.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	return &mwauth.Claims{Subject: claims.Subject, Role: claims.Role}, nil
}
