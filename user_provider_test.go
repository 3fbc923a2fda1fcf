package auth_test

import (
	"context"
	"errors"
	"testing"

	auth "github.com/goliatone/go-login"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T, hasher auth.PasswordHasher, key, password string) *auth.MemoryCredentialStore {
	t.Helper()

	hash, err := hasher.HashPassword(password)
	require.NoError(t, err)

	record, err := auth.NewCredentialRecord(key, hash)
	require.NoError(t, err)

	store := auth.NewMemoryCredentialStore()
	require.NoError(t, store.InsertIfAbsent(context.Background(), record))
	return store
}

func TestCredentialProvider_VerifyIdentity(t *testing.T) {
	hasher := fastHasher()
	store := seededStore(t, hasher, "alice", "S3cret!")
	provider := auth.NewCredentialProvider(store, hasher).WithLogger(auth.NopLogger())

	identity, err := provider.VerifyIdentity(context.Background(), "alice", "S3cret!")
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.IdentityKey())
	assert.NotEmpty(t, identity.ID())
}

func TestCredentialProvider_WrongPasswordAndUnknownKeyMatch(t *testing.T) {
	hasher := &countingHasher{PasswordHasher: fastHasher()}
	store := seededStore(t, fastHasher(), "alice", "S3cret!")
	provider := auth.NewCredentialProvider(store, hasher)

	_, wrongPassErr := provider.VerifyIdentity(context.Background(), "alice", "nope")
	_, unknownErr := provider.VerifyIdentity(context.Background(), "bob", "S3cret!")

	assert.ErrorIs(t, wrongPassErr, auth.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownErr, auth.ErrInvalidCredentials)
	assert.Equal(t, wrongPassErr.Error(), unknownErr.Error())

	// the unknown key still ran a password verification
	_, verifies := hasher.counts()
	assert.Equal(t, 2, verifies)
}

func TestCredentialProvider_StoreFailureIsInternal(t *testing.T) {
	store := new(MockCredentialStore)
	store.On("GetByIdentityKey", mock.Anything, "alice").
		Return(nil, errors.New("connection refused")).Once()

	provider := auth.NewCredentialProvider(store, fastHasher())

	_, err := provider.VerifyIdentity(context.Background(), "alice", "S3cret!")
	require.Error(t, err)
	assert.True(t, auth.IsInternal(err))
	assert.False(t, auth.IsUnauthorized(err))
	store.AssertExpectations(t)
}
