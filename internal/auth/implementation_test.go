// internal/auth/implementation_test.go
package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netzero/internal/apperr"
	"netzero/internal/users"
)

// fakeStore is an in-memory Store double keyed by email.
type fakeStore struct {
	byEmail map[string]*users.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{byEmail: make(map[string]*users.User)}
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*users.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) Insert(_ context.Context, u *users.User) (*users.User, error) {
	if _, ok := f.byEmail[u.Email]; ok {
		return nil, apperr.Conflict("email already registered")
	}
	u.ID = uuid.New()
	f.byEmail[u.Email] = u
	return u, nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice@example.com", "Alice", "SecurePass123!")
	require.NoError(t, err)
	assert.NotEqual(t, "SecurePass123!", u.Password, "password must never be stored in plaintext")

	got, err := svc.Authenticate(ctx, "alice@example.com", "SecurePass123!")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestRegisterMissingFields(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	for _, tc := range []struct{ email, name, password string }{
		{"", "Alice", "pw"},
		{"alice@example.com", "", "pw"},
		{"alice@example.com", "Alice", ""},
	} {
		_, err := svc.Register(ctx, tc.email, tc.name, tc.password)
		assert.True(t, apperr.Is(err, apperr.Validation("")), "missing field must be a validation error")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	_, err := svc.Register(ctx, "dup@example.com", "First", "pw1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "dup@example.com", "Second", "pw2")
	assert.True(t, apperr.Is(err, apperr.Conflict("")))
}

func TestAuthenticateUniformRejection(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice@example.com", "Alice", "SecurePass123!")
	require.NoError(t, err)

	// Wrong password for an existing email and a nonexistent email must be
	// externally indistinguishable.
	_, err1 := svc.Authenticate(ctx, "alice@example.com", "nope")
	_, err2 := svc.Authenticate(ctx, "ghost@example.com", "nope")
	require.Error(t, err1)
	require.Error(t, err2)
	assert.Equal(t, err1.Error(), err2.Error())
	assert.True(t, apperr.Is(err1, apperr.Unauthorized("")))
	assert.True(t, apperr.Is(err2, apperr.Unauthorized("")))
}
