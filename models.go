package auth

import (
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CredentialRecord is the stored identity key plus password hash.
// The hash is never serialized.
type CredentialRecord struct {
	bun.BaseModel `bun:"table:credentials,alias:cred"`
	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	IdentityKey   string    `bun:"identity_key,notnull,unique" json:"identity_key"`
	PasswordHash  string    `bun:"password_hash,notnull" json:"-"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
}

// NewCredentialRecord validates the required fields and returns a record ready
// to be inserted. The record ID is derived from the exact identity key bytes,
// so keys differing only in case or spacing get distinct IDs.
func NewCredentialRecord(identityKey, passwordHash string) (*CredentialRecord, error) {
	if err := validateIdentityKey(identityKey); err != nil {
		return nil, err
	}

	if passwordHash == "" {
		return nil, errors.New("password hash is required", errors.CategoryBadInput).
			WithTextCode(TextCodeInvalidRecord).
			WithCode(errors.CodeBadRequest)
	}

	id, err := recordID(identityKey)
	if err != nil {
		id = uuid.New()
	}

	return &CredentialRecord{
		ID:           id,
		IdentityKey:  identityKey,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func recordID(identityKey string) (uuid.UUID, error) {
	return hashid.NewUUID(identityKey,
		hashid.WithNormalization(false),
		hashid.WithHashAlgorithm(hashid.SHA1),
	)
}

// validateIdentityKey rejects empty and whitespace-only keys
func validateIdentityKey(identityKey string) error {
	if strings.TrimSpace(identityKey) == "" {
		return errors.New("identity key is required", errors.CategoryBadInput).
			WithTextCode(TextCodeInvalidRecord).
			WithCode(errors.CodeBadRequest)
	}
	return nil
}
