package auth

import (
	"fmt"
	"time"
)

var _ Session = &SessionObject{}

// SessionObject is the identity resolved from a valid bearer token
type SessionObject struct {
	UserID         string     `json:"username"`
	TokenID        string     `json:"token_id,omitempty"`
	Audience       []string   `json:"audience,omitempty"`
	Issuer         string     `json:"issuer,omitempty"`
	IssuedAt       *time.Time `json:"issued_at,omitempty"`
	ExpirationDate *time.Time `json:"expires_at,omitempty"`
}

func (s *SessionObject) GetUserID() string {
	return s.UserID
}

func (s *SessionObject) GetTokenID() string {
	return s.TokenID
}

func (s *SessionObject) GetAudience() []string {
	return s.Audience
}

func (s *SessionObject) GetIssuer() string {
	return s.Issuer
}

func (s *SessionObject) GetIssuedAt() *time.Time {
	return s.IssuedAt
}

func (s *SessionObject) GetExpiresAt() *time.Time {
	return s.ExpirationDate
}

func (s SessionObject) String() string {
	expires := "<nil>"
	if s.ExpirationDate != nil {
		expires = s.ExpirationDate.Format(time.RFC1123)
	}
	return fmt.Sprintf("user=%s jti=%s iss=%s exp=%s", s.UserID, s.TokenID, s.Issuer, expires)
}

// sessionFromClaims creates a SessionObject from validated claims
func sessionFromClaims(claims *JWTClaims) (*SessionObject, error) {
	if claims == nil || claims.Subject() == "" {
		return nil, ErrInvalidToken
	}

	session := &SessionObject{
		UserID:   claims.Subject(),
		TokenID:  claims.TokenID(),
		Issuer:   claims.Issuer,
		Audience: []string(claims.Audience),
	}

	if iat := claims.IssuedAt(); !iat.IsZero() {
		session.IssuedAt = &iat
	}

	if exp := claims.Expires(); !exp.IsZero() {
		session.ExpirationDate = &exp
	}

	return session, nil
}
