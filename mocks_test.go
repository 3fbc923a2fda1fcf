package auth_test

import (
	"context"
	"sync"
	"time"

	auth "github.com/goliatone/go-login"
	"github.com/stretchr/testify/mock"
)

// MockCredentialStore implements auth.CredentialStore
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) GetByIdentityKey(ctx context.Context, identityKey string) (*auth.CredentialRecord, error) {
	args := m.Called(ctx, identityKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.CredentialRecord), args.Error(1)
}

func (m *MockCredentialStore) InsertIfAbsent(ctx context.Context, record *auth.CredentialRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// MockTokenService implements auth.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(subject string, ttl time.Duration) (string, time.Time, error) {
	args := m.Called(subject, ttl)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockTokenService) Validate(tokenString string) auth.TokenResult {
	args := m.Called(tokenString)
	return args.Get(0).(auth.TokenResult)
}

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// countingHasher records how many times each operation ran
type countingHasher struct {
	auth.PasswordHasher

	mu       sync.Mutex
	hashes   int
	verifies int
}

func (c *countingHasher) HashPassword(password string) (string, error) {
	c.mu.Lock()
	c.hashes++
	c.mu.Unlock()
	return c.PasswordHasher.HashPassword(password)
}

func (c *countingHasher) VerifyPassword(password, hash string) bool {
	c.mu.Lock()
	c.verifies++
	c.mu.Unlock()
	return c.PasswordHasher.VerifyPassword(password, hash)
}

func (c *countingHasher) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hashes, c.verifies
}

type recordingSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (r *recordingSink) Record(_ context.Context, event auth.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) all() []auth.ActivityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]auth.ActivityEvent, len(r.events))
	copy(out, r.events)
	return out
}

func fastHasher() auth.BcryptHasher {
	return auth.NewBcryptHasher(4)
}

func testOptions() auth.Options {
	return auth.Options{
		SigningKey: "test-signing-key",
		TokenTTL:   30 * time.Minute,
	}
}

func newTestAuther(store auth.CredentialStore) (*auth.Auther, *auth.TokenServiceImpl) {
	opts := testOptions()
	ts := auth.NewTokenService([]byte(opts.SigningKey), opts.TokenTTL, "", nil, auth.NopLogger())
	auther := auth.NewAuthenticator(store, fastHasher(), ts, opts).WithLogger(auth.NopLogger())
	return auther, ts
}
