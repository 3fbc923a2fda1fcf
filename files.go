package auth

import (
	"context"
	"embed"
	"io/fs"
	"path"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/migrate"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

const migrationsRoot = "data/sql/migrations"

// GetMigrationsFS returns the migration files for this package
func GetMigrationsFS() embed.FS {
	return migrationsFS
}

// DialectMigrations discovers the embedded migrations for dialect
// ("sqlite" or "postgres").
func DialectMigrations(name string) (*migrate.Migrations, error) {
	sub, err := fs.Sub(migrationsFS, path.Join(migrationsRoot, name))
	if err != nil {
		return nil, err
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(sub); err != nil {
		return nil, err
	}

	return migrations, nil
}

// NewMigrator returns a bun migrator loaded with the migrations matching the
// dialect of db.
func NewMigrator(db *bun.DB, opts ...migrate.MigratorOption) (*migrate.Migrator, error) {
	migrations, err := DialectMigrations(dialectName(db))
	if err != nil {
		return nil, err
	}
	return migrate.NewMigrator(db, migrations, opts...), nil
}

// Migrate applies pending migrations to db. Applied migrations are recorded
// in bun's migrations table so running it again applies nothing.
func Migrate(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator, err := NewMigrator(db)
	if err != nil {
		return nil, internalError(err, "failed to load migrations")
	}

	if err := migrator.Init(ctx); err != nil {
		return nil, internalError(err, "failed to initialize migrations table")
	}

	if err := migrator.Lock(ctx); err != nil {
		return nil, internalError(err, "failed to lock migrations table")
	}
	defer migrator.Unlock(ctx)

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return group, internalError(err, "failed to apply migrations")
	}

	return group, nil
}

// Rollback reverts the last applied migration group.
func Rollback(ctx context.Context, db *bun.DB) (*migrate.MigrationGroup, error) {
	migrator, err := NewMigrator(db)
	if err != nil {
		return nil, internalError(err, "failed to load migrations")
	}

	if err := migrator.Init(ctx); err != nil {
		return nil, internalError(err, "failed to initialize migrations table")
	}

	if err := migrator.Lock(ctx); err != nil {
		return nil, internalError(err, "failed to lock migrations table")
	}
	defer migrator.Unlock(ctx)

	group, err := migrator.Rollback(ctx)
	if err != nil {
		return group, internalError(err, "failed to roll back migrations")
	}

	return group, nil
}

func dialectName(db *bun.DB) string {
	if db.Dialect().Name() == dialect.PG {
		return "postgres"
	}
	return "sqlite"
}
