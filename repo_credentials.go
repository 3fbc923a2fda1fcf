package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
)

// BunCredentialStore persists credential records through bun. Uniqueness is
// enforced by the identity_key unique constraint.
type BunCredentialStore struct {
	db *bun.DB
}

var _ CredentialStore = (*BunCredentialStore)(nil)

func NewBunCredentialStore(db *bun.DB) *BunCredentialStore {
	return &BunCredentialStore{db: db}
}

// EnsureSchema applies any pending embedded migrations for the database dialect
func (s *BunCredentialStore) EnsureSchema(ctx context.Context) error {
	_, err := Migrate(ctx, s.db)
	return err
}

func (s *BunCredentialStore) GetByIdentityKey(ctx context.Context, identityKey string) (*CredentialRecord, error) {
	return s.GetByIdentityKeyTx(ctx, s.db, identityKey)
}

func (s *BunCredentialStore) GetByIdentityKeyTx(ctx context.Context, tx bun.IDB, identityKey string) (*CredentialRecord, error) {
	record := &CredentialRecord{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.identity_key = ?", identityKey).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCredentialNotFound
		}
		return nil, internalError(err, "failed to read credential record")
	}

	return record, nil
}

func (s *BunCredentialStore) InsertIfAbsent(ctx context.Context, record *CredentialRecord) error {
	return s.InsertIfAbsentTx(ctx, s.db, record)
}

// InsertIfAbsentTx inserts record in a single statement. A conflicting
// identity key inserts nothing and reports ErrIdentityExists.
func (s *BunCredentialStore) InsertIfAbsentTx(ctx context.Context, tx bun.IDB, record *CredentialRecord) error {
	res, err := tx.NewInsert().
		Model(record).
		On("CONFLICT (identity_key) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return internalError(err, "failed to insert credential record")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return internalError(err, "failed to read insert result")
	}

	if affected == 0 {
		return ErrIdentityExists
	}

	return nil
}
