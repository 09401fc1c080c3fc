// internal/users/store_test.go
package users

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netzero/internal/apperr"
)

// setupTestDB connects to a PostgreSQL database for testing and skips the
// test if no database is reachable.
func setupTestDB(t testing.TB) *sql.DB {
	t.Helper()

	pgUser := os.Getenv("PGUSER")
	pgPassword := os.Getenv("PGPASSWORD")
	pgHost := os.Getenv("PGHOST")
	pgPort := os.Getenv("PGPORT")
	pgDB := os.Getenv("PGDATABASE")

	if pgUser == "" {
		pgUser = "netzero"
	}
	if pgPassword == "" {
		pgPassword = "dev_password_change_in_prod"
	}
	if pgHost == "" {
		pgHost = "localhost"
	}
	if pgPort == "" {
		pgPort = "5432"
	}
	if pgDB == "" {
		pgDB = "netzero"
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pgHost, pgPort, pgUser, pgPassword, pgDB)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open database connection: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("skipping store tests: could not connect to postgres: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password TEXT NOT NULL,
			bio TEXT NOT NULL DEFAULT '',
			linkedin TEXT NOT NULL DEFAULT '',
			x TEXT NOT NULL DEFAULT '',
			github TEXT NOT NULL DEFAULT '',
			avatar_link TEXT NOT NULL DEFAULT '',
			tags TEXT[],
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		db.Exec(`DELETE FROM users WHERE email LIKE '%@store-test.local'`)
		db.Close()
	})

	return db
}

func strPtr(s string) *string { return &s }

func TestInsertAndGetByEmail(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	hash, err := HashPassword("SecurePass123!")
	require.NoError(t, err)

	created, err := store.Insert(ctx, &User{
		Email:    "alice@store-test.local",
		Name:     "Alice",
		Password: hash,
	})
	require.NoError(t, err)
	require.NotEqual(t, "", created.ID.String())

	got, err := store.GetByEmail(ctx, "alice@store-test.local")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Alice", got.Name)
	assert.Empty(t, got.Tags)
}

func TestInsertDuplicateEmailConflicts(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	_, err := store.Insert(ctx, &User{Email: "dup@store-test.local", Name: "First", Password: "x$y"})
	require.NoError(t, err)

	_, err = store.Insert(ctx, &User{Email: "dup@store-test.local", Name: "Second", Password: "x$y"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Conflict("")), "second registration must be a conflict")
}

func TestGetByEmailMissingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	_, err := store.GetByEmail(context.Background(), "nobody@store-test.local")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound("")))
}

func TestUpdateProfileReturnsPreviousAndUpdated(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	_, err := store.Insert(ctx, &User{Email: "bob@store-test.local", Name: "Bob", Password: "x$y"})
	require.NoError(t, err)

	prev, updated, err := store.UpdateProfile(ctx, "bob@store-test.local", ProfileUpdate{
		LinkedIn: strPtr("bob-linked"),
		Bio:      strPtr("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "", prev.LinkedIn)
	assert.Equal(t, "bob-linked", updated.LinkedIn)
	assert.Equal(t, "hello", updated.Bio)
	assert.Equal(t, "Bob", updated.Name, "untouched fields keep their value")

	_, _, err = store.UpdateProfile(ctx, "ghost@store-test.local", ProfileUpdate{Bio: strPtr("x")})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound("")))
}

func TestUpdateTagsOverwritesWholesale(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	ctx := context.Background()

	_, err := store.Insert(ctx, &User{Email: "carol@store-test.local", Name: "Carol", Password: "x$y"})
	require.NoError(t, err)

	require.NoError(t, store.UpdateTags(ctx, "carol@store-test.local", []string{"ai", "climate"}))
	got, err := store.GetByEmail(ctx, "carol@store-test.local")
	require.NoError(t, err)
	assert.Equal(t, []string{"ai", "climate"}, got.Tags)

	// A later cycle replaces, never merges.
	require.NoError(t, store.UpdateTags(ctx, "carol@store-test.local", []string{"music"}))
	got, err = store.GetByEmail(ctx, "carol@store-test.local")
	require.NoError(t, err)
	assert.Equal(t, []string{"music"}, got.Tags)

	err = store.UpdateTags(ctx, "ghost@store-test.local", []string{"x"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound("")))
}
