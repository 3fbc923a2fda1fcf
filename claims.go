package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// JWTClaims are the claims carried by bearer tokens. The subject is the
// identity key of the authenticated principal.
type JWTClaims struct {
	jwt.RegisteredClaims
}

// NewJWTClaims builds claims for subject issued at issuedAt and valid for ttl
func NewJWTClaims(subject string, issuedAt time.Time, ttl time.Duration) (*JWTClaims, error) {
	if strings.TrimSpace(subject) == "" {
		return nil, errors.New("token subject is required", errors.CategoryBadInput).
			WithTextCode(TextCodeBadRequest).
			WithCode(errors.CodeBadRequest)
	}

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}

	ensureTokenID(&claims.RegisteredClaims)

	return claims, nil
}

// Subject returns the subject claim
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// TokenID returns the jti claim
func (c *JWTClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// Expires returns the expiration time
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
