package repository

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	auth "github.com/goliatone/go-login"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

const credentialsTable = "credentials"

// PostgresCredentialStore persists credential records with pgx.
// The pool is owned by the caller and is never closed here.
type PostgresCredentialStore struct {
	pool *pgxpool.Pool
}

var _ auth.CredentialStore = (*PostgresCredentialStore)(nil)

func NewPostgresCredentialStore(pool *pgxpool.Pool) (*PostgresCredentialStore, error) {
	if pool == nil {
		return nil, errors.New("repository: nil pool")
	}

	return &PostgresCredentialStore{pool: pool}, nil
}

// EnsureSchema applies the embedded postgres migrations through a bun
// handle sharing the pool.
func (s *PostgresCredentialStore) EnsureSchema(ctx context.Context) error {
	db := NewBunDB(s.pool)
	defer db.Close()

	_, err := auth.Migrate(ctx, db)
	return err
}

// NewBunDB wraps pool in a bun DB using the postgres dialect. Closing the
// returned DB leaves the pool open.
func NewBunDB(pool *pgxpool.Pool) *bun.DB {
	return bun.NewDB(stdlib.OpenDBFromPool(pool), pgdialect.New())
}

func (s *PostgresCredentialStore) GetByIdentityKey(ctx context.Context, identityKey string) (*auth.CredentialRecord, error) {
	record := &auth.CredentialRecord{}

	err := s.pool.QueryRow(ctx,
		`SELECT id, identity_key, password_hash, created_at
		   FROM `+s.ident()+`
		  WHERE identity_key = $1`,
		identityKey,
	).Scan(&record.ID, &record.IdentityKey, &record.PasswordHash, &record.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.ErrCredentialNotFound
		}
		return nil, wrapInternal(err, "failed to read credential record")
	}

	return record, nil
}

// InsertIfAbsent inserts record in a single statement. When the identity key
// is taken nothing is written and auth.ErrIdentityExists is returned.
func (s *PostgresCredentialStore) InsertIfAbsent(ctx context.Context, record *auth.CredentialRecord) error {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO `+s.ident()+` (id, identity_key, password_hash, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (identity_key) DO NOTHING`,
		record.ID, record.IdentityKey, record.PasswordHash, record.CreatedAt,
	)
	if err != nil {
		return wrapInternal(err, "failed to insert credential record")
	}

	if tag.RowsAffected() == 0 {
		return auth.ErrIdentityExists
	}

	return nil
}

func (s *PostgresCredentialStore) ident() string {
	return pgx.Identifier{credentialsTable}.Sanitize()
}

func wrapInternal(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, message).
		WithTextCode(auth.TextCodeInternal).
		WithCode(goerrors.CodeInternal)
}
