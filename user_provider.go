package auth

import (
	"context"
	"sync"

	"github.com/goliatone/go-errors"
)

// CredentialProvider verifies identity keys and passwords against a CredentialStore
type CredentialProvider struct {
	store  CredentialStore
	hasher PasswordHasher
	logger Logger

	decoyOnce sync.Once
	decoyHash string
}

var _ IdentityProvider = (*CredentialProvider)(nil)

// NewCredentialProvider will create a new CredentialProvider
func NewCredentialProvider(store CredentialStore, hasher PasswordHasher) *CredentialProvider {
	return &CredentialProvider{
		store:  store,
		hasher: hasher,
		logger: defLogger{},
	}
}

func (u *CredentialProvider) WithLogger(l Logger) *CredentialProvider {
	u.logger = normalizeLogger(l)
	return u
}

// VerifyIdentity will find the record, compare the password, and return the
// identity. Unknown keys and wrong passwords both return ErrInvalidCredentials.
func (u *CredentialProvider) VerifyIdentity(ctx context.Context, identityKey, password string) (Identity, error) {
	record, err := u.store.GetByIdentityKey(ctx, identityKey)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			// burn the same hashing work as a real comparison
			u.hasher.VerifyPassword(password, u.decoy())
			return nil, ErrInvalidCredentials
		}
		return nil, internalError(err, "failed to retrieve credentials during verification")
	}

	if !u.hasher.VerifyPassword(password, record.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return authIdentity{
		id:          record.ID.String(),
		identityKey: record.IdentityKey,
	}, nil
}

func (u *CredentialProvider) decoy() string {
	u.decoyOnce.Do(func() {
		u.decoyHash = RandomPasswordHash(u.hasher)
	})
	return u.decoyHash
}

type authIdentity struct {
	id          string
	identityKey string
}

func (a authIdentity) ID() string {
	return a.id
}

func (a authIdentity) IdentityKey() string {
	return a.identityKey
}

var _ Identity = authIdentity{}
