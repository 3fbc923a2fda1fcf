package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DefaultTokenTTL is used when neither the service nor the caller set a TTL
const DefaultTokenTTL = 30 * time.Minute

// TokenService mints and validates bearer tokens
type TokenService interface {
	Issue(subject string, ttl time.Duration) (string, time.Time, error)
	Validate(tokenString string) TokenResult
}

// TokenResult is the outcome of validating a token: either valid claims or
// rejected. A rejected result carries no reason.
type TokenResult struct {
	claims *JWTClaims
}

// Rejected returns the uniform rejected outcome
func Rejected() TokenResult {
	return TokenResult{}
}

// Accepted wraps claims in a valid outcome
func Accepted(claims *JWTClaims) TokenResult {
	if claims == nil || claims.Subject() == "" {
		return Rejected()
	}
	return TokenResult{claims: claims}
}

func (r TokenResult) Valid() bool {
	return r.claims != nil
}

func (r TokenResult) Subject() string {
	if r.claims == nil {
		return ""
	}
	return r.claims.Subject()
}

func (r TokenResult) Claims() *JWTClaims {
	return r.claims
}

// TokenServiceImpl implements the TokenService interface with HMAC signed JWTs
type TokenServiceImpl struct {
	signingKey []byte
	method     jwt.SigningMethod
	tokenTTL   time.Duration
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
	now        func() time.Time
}

var _ TokenService = (*TokenServiceImpl)(nil)

// NewTokenService creates a new TokenService signing with HS256
func NewTokenService(signingKey []byte, tokenTTL time.Duration, issuer string, audience jwt.ClaimStrings, logger Logger) *TokenServiceImpl {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}

	var aud jwt.ClaimStrings
	if len(audience) > 0 {
		aud = make(jwt.ClaimStrings, len(audience))
		copy(aud, audience)
	}

	return &TokenServiceImpl{
		signingKey: signingKey,
		method:     jwt.SigningMethodHS256,
		tokenTTL:   tokenTTL,
		issuer:     issuer,
		audience:   aud,
		logger:     normalizeLogger(logger),
		now:        time.Now,
	}
}

// NewTokenServiceFromConfig validates the signing configuration and returns
// a TokenService using it
func NewTokenServiceFromConfig(cfg Config, logger Logger) (*TokenServiceImpl, error) {
	if cfg.GetSigningKey() == "" {
		return nil, errors.New("signing key is required", errors.CategoryBadInput).
			WithTextCode(TextCodeBadRequest)
	}

	ts := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenTTL(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		logger,
	)

	if cfg.GetSigningMethod() == "" {
		return ts, nil
	}

	method, err := hmacSigningMethod(cfg.GetSigningMethod())
	if err != nil {
		return nil, err
	}

	return ts.WithSigningMethod(method), nil
}

// WithSigningMethod sets the HMAC algorithm used to sign and the only
// algorithm accepted on validation
func (ts *TokenServiceImpl) WithSigningMethod(method *jwt.SigningMethodHMAC) *TokenServiceImpl {
	if method != nil {
		ts.method = method
	}
	return ts
}

// WithClock overrides the time source used to issue and validate tokens
func (ts *TokenServiceImpl) WithClock(now func() time.Time) *TokenServiceImpl {
	if now != nil {
		ts.now = now
	}
	return ts
}

// DefaultTTL is the lifetime used when Issue is called with a zero ttl
func (ts *TokenServiceImpl) DefaultTTL() time.Duration {
	return ts.tokenTTL
}

// SigningMethod returns the configured algorithm name
func (ts *TokenServiceImpl) SigningMethod() string {
	return ts.method.Alg()
}

// Issue creates a token for subject valid for ttl. A zero ttl uses the
// service default.
func (ts *TokenServiceImpl) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	if ttl == 0 {
		ttl = ts.tokenTTL
	}

	claims, err := NewJWTClaims(subject, ts.now(), ttl)
	if err != nil {
		return "", time.Time{}, err
	}

	claims.Issuer = ts.issuer
	claims.Audience = ts.audience

	token, err := ts.SignClaims(claims)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, claims.Expires(), nil
}

// SignClaims signs claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(ts.method, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", internalError(err, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and verifies tokenString. Every failure yields Rejected.
func (ts *TokenServiceImpl) Validate(tokenString string) TokenResult {
	if tokenString == "" {
		return Rejected()
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{ts.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		ts.logger.Debug("token rejected: %v", err)
		return Rejected()
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		ts.logger.Debug("token rejected: could not decode claims")
		return Rejected()
	}

	if claims.Subject() == "" {
		ts.logger.Debug("token rejected: missing subject")
		return Rejected()
	}

	return Accepted(claims)
}

func hmacSigningMethod(name string) (*jwt.SigningMethodHMAC, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, nil
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, nil
	case jwt.SigningMethodHS512.Alg():
		return jwt.SigningMethodHS512, nil
	default:
		return nil, errors.New("unsupported signing method: "+name, errors.CategoryBadInput).
			WithTextCode(TextCodeBadRequest)
	}
}
