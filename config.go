package auth

import "time"

const (
	DefaultContextKey  = "session"
	DefaultAuthScheme  = "Bearer"
	DefaultTokenLookup = "header:Authorization"
)

// Options is a plain Config implementation
type Options struct {
	SigningKey    string        `json:"signing_key"`
	SigningMethod string        `json:"signing_method"`
	ContextKey    string        `json:"context_key"`
	TokenTTL      time.Duration `json:"token_ttl"`
	TokenLookup   string        `json:"token_lookup"`
	AuthScheme    string        `json:"auth_scheme"`
	Issuer        string        `json:"issuer"`
	Audience      []string      `json:"audience"`
}

var _ Config = Options{}

func (o Options) GetSigningKey() string {
	return o.SigningKey
}

func (o Options) GetSigningMethod() string {
	if o.SigningMethod == "" {
		return "HS256"
	}
	return o.SigningMethod
}

func (o Options) GetContextKey() string {
	if o.ContextKey == "" {
		return DefaultContextKey
	}
	return o.ContextKey
}

func (o Options) GetTokenTTL() time.Duration {
	if o.TokenTTL <= 0 {
		return DefaultTokenTTL
	}
	return o.TokenTTL
}

func (o Options) GetTokenLookup() string {
	if o.TokenLookup == "" {
		return DefaultTokenLookup
	}
	return o.TokenLookup
}

func (o Options) GetAuthScheme() string {
	if o.AuthScheme == "" {
		return DefaultAuthScheme
	}
	return o.AuthScheme
}

func (o Options) GetIssuer() string {
	return o.Issuer
}

func (o Options) GetAudience() []string {
	return o.Audience
}
