// internal/auth/implementation.go
package auth

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"netzero/internal/apperr"
	"netzero/internal/users"
)

// service implements the Service interface.
type service struct {
	store  Store
	tracer trace.Tracer
}

// NewService creates a new authentication gateway over the given store.
func NewService(store Store) Service {
	return &service{
		store:  store,
		tracer: otel.Tracer("netzero/auth"),
	}
}

// Register creates a new user. Email uniqueness is enforced by the store.
func (s *service) Register(ctx context.Context, email, name, password string) (*users.User, error) {
	ctx, span := s.tracer.Start(ctx, "auth.register")
	defer span.End()

	if email == "" || name == "" || password == "" {
		return nil, apperr.Validation("missing required fields")
	}

	hash, err := users.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	u, err := s.store.Insert(ctx, &users.User{
		Email:    email,
		Name:     name,
		Password: hash,
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", u.ID.String()))
	return u, nil
}

// Authenticate verifies the credentials against the stored hash. Every
// failure path collapses into the same rejection so the response never leaks
// which emails are registered.
func (s *service) Authenticate(ctx context.Context, email, password string) (*users.User, error) {
	ctx, span := s.tracer.Start(ctx, "auth.authenticate")
	defer span.End()

	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		span.SetAttributes(attribute.Bool("auth.rejected", true))
		return nil, apperr.Unauthorized("invalid credentials")
	}

	ok, err := users.VerifyPassword(password, u.Password)
	if err != nil || !ok {
		span.SetAttributes(attribute.Bool("auth.rejected", true))
		return nil, apperr.Unauthorized("invalid credentials")
	}

	return u, nil
}
