package auth

import (
	"context"
	"time"
)

// TokenTypeBearer is the token_type returned by Login
const TokenTypeBearer = "bearer"

// LoginResponse is returned on successful login
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Auther implements signup, login and token resolution on top of injected
// collaborators. It holds no mutable state of its own.
type Auther struct {
	provider       IdentityProvider
	registerUser   *RegisterUserHandler
	tokenService   TokenService
	tokenValidator TokenValidator
	tokenTTL       time.Duration
	logger         Logger
	activitySink   ActivitySink
	now            func() time.Time
}

// NewAuthenticator returns a new Auther
func NewAuthenticator(store CredentialStore, hasher PasswordHasher, tokenService TokenService, opts Config) *Auther {
	return &Auther{
		provider:     NewCredentialProvider(store, hasher),
		registerUser: NewRegisterUserHandler(store, hasher),
		tokenService: tokenService,
		tokenTTL:     opts.GetTokenTTL(),
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		now:          time.Now,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = normalizeLogger(logger)
	if p, ok := s.provider.(*CredentialProvider); ok {
		p.WithLogger(s.logger)
	}
	return s
}

// WithIdentityProvider replaces the provider used to verify credentials
func (s *Auther) WithIdentityProvider(provider IdentityProvider) *Auther {
	if provider != nil {
		s.provider = provider
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithTokenValidator sets a custom validator used by Resolve.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	s.tokenValidator = validator
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Signup registers identityKey with password. A taken key returns
// ErrIdentityExists; store failures return an internal error.
func (s *Auther) Signup(ctx context.Context, identityKey, password string) error {
	msg := RegisterUserMessage{
		IdentityKey: identityKey,
		Password:    password,
	}

	if err := s.registerUser.Execute(ctx, msg); err != nil {
		s.logger.Warn("Signup failed for %q: %v", identityKey, err)
		s.emitAuthEvent(ctx, ActivityEventSignupFailure, identityKey, failureReason(err))
		return err
	}

	s.emitAuthEvent(ctx, ActivityEventSignupSuccess, identityKey, "")
	return nil
}

// Login verifies the credentials and mints a bearer token for identityKey
func (s *Auther) Login(ctx context.Context, identityKey, password string) (*LoginResponse, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identityKey, password)
	if err != nil {
		reason := failureReason(err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, identityKey, reason)
		if IsUnauthorized(err) {
			s.logger.Info("Login rejected for %q", identityKey)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login verify identity error: %v", err)
		return nil, err
	}

	if identity == nil || identity.IdentityKey() == "" {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, identityKey, "unauthorized")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenService.Issue(identity.IdentityKey(), s.tokenTTL)
	if err != nil {
		s.logger.Error("Login token issue error: %v", err)
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, identityKey, "internal")
		return nil, internalError(err, "failed to issue token")
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, identityKey, "")

	s.logger.Debug("Login issued token for %q expiring at %s", identityKey, expiresAt.Format(time.RFC3339))

	return &LoginResponse{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int64(s.tokenLifetime().Seconds()),
	}, nil
}

// tokenLifetime is the ttl Issue applies for s.tokenTTL
func (s *Auther) tokenLifetime() time.Duration {
	if s.tokenTTL > 0 {
		return s.tokenTTL
	}
	if d, ok := s.tokenService.(interface{ DefaultTTL() time.Duration }); ok {
		return d.DefaultTTL()
	}
	return DefaultTokenTTL
}

// Resolve validates token and returns the identity it was issued to
func (s *Auther) Resolve(ctx context.Context, token string) (Session, error) {
	validator := s.tokenValidator
	if validator == nil {
		validator = s.tokenService
	}

	result := validator.Validate(token)
	if !result.Valid() {
		s.emitAuthEvent(ctx, ActivityEventTokenRejected, "", "unauthorized")
		return nil, ErrInvalidToken
	}

	session, err := sessionFromClaims(result.Claims())
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventTokenRejected, "", "unauthorized")
		return nil, ErrInvalidToken
	}

	return session, nil
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, identityKey, reason string) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType:   eventType,
		IdentityKey: identityKey,
		Reason:      reason,
		Metadata:    map[string]any{},
		OccurredAt:  s.now(),
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}

func failureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case IsConflict(err):
		return "conflict"
	case IsUnauthorized(err):
		return "unauthorized"
	case IsBadRequest(err):
		return "bad_request"
	default:
		return "internal"
	}
}
