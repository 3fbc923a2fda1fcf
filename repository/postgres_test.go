package repository_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-login"
	"github.com/goliatone/go-login/repository"
)

// Postgres tests run only when AUTH_TEST_POSTGRES_DSN is set. Each test works
// on identity keys carrying its own prefix and deletes them afterwards.
func setupPostgresStore(t *testing.T) (*repository.PostgresCredentialStore, func(string) string) {
	t.Helper()

	dsn := os.Getenv("AUTH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("AUTH_TEST_POSTGRES_DSN not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store, err := repository.NewPostgresCredentialStore(pool)
	require.NoError(t, err)
	require.NoError(t, store.EnsureSchema(ctx))

	prefix := uuid.NewString()[:8] + ":"
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(),
			"DELETE FROM credentials WHERE starts_with(identity_key, $1)", prefix)
	})

	return store, func(key string) string { return prefix + key }
}

func TestNewPostgresCredentialStore_RejectsNilPool(t *testing.T) {
	_, err := repository.NewPostgresCredentialStore(nil)
	assert.Error(t, err)
}

func TestPostgresCredentialStore_EnsureSchemaIsIdempotent(t *testing.T) {
	store, _ := setupPostgresStore(t)
	assert.NoError(t, store.EnsureSchema(context.Background()))
}

func TestPostgresCredentialStore_InsertAndGet(t *testing.T) {
	store, key := setupPostgresStore(t)
	ctx := context.Background()

	record, err := auth.NewCredentialRecord(key("alice"), "hash")
	require.NoError(t, err)

	require.NoError(t, store.InsertIfAbsent(ctx, record))

	found, err := store.GetByIdentityKey(ctx, key("alice"))
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)
	assert.Equal(t, "hash", found.PasswordHash)

	_, err = store.GetByIdentityKey(ctx, key("bob"))
	assert.ErrorIs(t, err, auth.ErrCredentialNotFound)
}

func TestPostgresCredentialStore_IdentityKeysAreCaseSensitive(t *testing.T) {
	store, key := setupPostgresStore(t)
	ctx := context.Background()

	variants := []string{key("alice"), key("Alice"), key(" alice ")}
	for _, k := range variants {
		record, err := auth.NewCredentialRecord(k, "hash:"+k)
		require.NoError(t, err)
		require.NoError(t, store.InsertIfAbsent(ctx, record), k)
	}

	for _, k := range variants {
		found, err := store.GetByIdentityKey(ctx, k)
		require.NoError(t, err, k)
		assert.Equal(t, k, found.IdentityKey)
		assert.Equal(t, "hash:"+k, found.PasswordHash)
	}
}

func TestPostgresCredentialStore_InsertIfAbsentKeepsFirstRecord(t *testing.T) {
	store, key := setupPostgresStore(t)
	ctx := context.Background()

	first, err := auth.NewCredentialRecord(key("alice"), "first")
	require.NoError(t, err)
	second, err := auth.NewCredentialRecord(key("alice"), "second")
	require.NoError(t, err)

	require.NoError(t, store.InsertIfAbsent(ctx, first))
	err = store.InsertIfAbsent(ctx, second)
	assert.True(t, auth.IsConflict(err))

	found, err := store.GetByIdentityKey(ctx, key("alice"))
	require.NoError(t, err)
	assert.Equal(t, "first", found.PasswordHash)
}

func TestPostgresCredentialStore_ConcurrentInsertSingleWinner(t *testing.T) {
	store, key := setupPostgresStore(t)
	ctx := context.Background()

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record, err := auth.NewCredentialRecord(key("carol"), fmt.Sprintf("hash-%d", i))
			if err != nil {
				return
			}
			err = store.InsertIfAbsent(ctx, record)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case auth.IsConflict(err):
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestAuther_SignupCaseVariantsOnPostgres(t *testing.T) {
	store, key := setupPostgresStore(t)
	ctx := context.Background()

	ts := auth.NewTokenService([]byte("test-signing-key"), time.Minute, "", nil, auth.NopLogger())
	auther := auth.NewAuthenticator(store, auth.NewBcryptHasher(4), ts, auth.Options{SigningKey: "test-signing-key"}).
		WithLogger(auth.NopLogger())

	require.NoError(t, auther.Signup(ctx, key("alice"), "lower-pass"))
	require.NoError(t, auther.Signup(ctx, key("Alice"), "upper-pass"))

	_, err := auther.Login(ctx, key("Alice"), "upper-pass")
	assert.NoError(t, err)
	_, err = auther.Login(ctx, key("alice"), "upper-pass")
	assert.True(t, auth.IsUnauthorized(err))
}
