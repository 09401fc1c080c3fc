// internal/auth/service.go
package auth

import (
	"context"

	"netzero/internal/users"
)

// Store is the slice of the user store the gateway needs.
type Store interface {
	GetByEmail(ctx context.Context, email string) (*users.User, error)
	Insert(ctx context.Context, u *users.User) (*users.User, error)
}

// Service defines the interface for the authentication gateway.
type Service interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, email, name, password string) (*users.User, error)
	// Authenticate verifies an email/password pair. Unknown email and wrong
	// password are indistinguishable to the caller.
	Authenticate(ctx context.Context, email, password string) (*users.User, error)
}
