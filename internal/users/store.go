// internal/users/store.go
package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"netzero/internal/apperr"
)

const userColumns = `id, email, name, password, bio, linkedin, x, github, avatar_link, tags, created_at`

// Store wraps user record access against the relational store. It carries no
// business logic beyond mapping store failures onto the error taxonomy.
type Store struct {
	db     *sql.DB
	tracer trace.Tracer
}

// NewStore creates a user store over the shared database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		tracer: otel.Tracer("netzero/users"),
	}
}

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	u := &User{}
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.Password,
		&u.Bio,
		&u.LinkedIn,
		&u.X,
		&u.GitHub,
		&u.AvatarLink,
		pq.Array(&u.Tags),
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail fetches exactly one user by unique email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, span := s.tracer.Start(ctx, "users.get_by_email")
	defer span.End()

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
	`
	u, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Upstream("user lookup failed", err)
	}
	return u, nil
}

// GetByID fetches a user by id.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	ctx, span := s.tracer.Start(ctx, "users.get_by_id",
		trace.WithAttributes(attribute.String("user.id", id.String())),
	)
	defer span.End()

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`
	u, err := scanUser(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Upstream("user lookup failed", err)
	}
	return u, nil
}

// Insert stores a new user. The email uniqueness constraint resolves
// concurrent registrations: the loser observes a conflict, never a duplicate.
func (s *Store) Insert(ctx context.Context, u *User) (*User, error) {
	ctx, span := s.tracer.Start(ctx, "users.insert")
	defer span.End()

	query := `
		INSERT INTO users (id, email, name, password, bio, linkedin, x, github, avatar_link, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	err := s.db.QueryRowContext(ctx, query,
		u.ID, u.Email, u.Name, u.Password, u.Bio, u.LinkedIn, u.X, u.GitHub, u.AvatarLink, pq.Array(u.Tags),
	).Scan(&u.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			span.SetAttributes(attribute.Bool("conflict.detected", true))
			return nil, apperr.Conflict("email already registered")
		}
		return nil, apperr.Upstream("user insert failed", err)
	}
	return u, nil
}

// UpdateProfile applies the patch and returns the row before and after the
// update in one transaction, so the caller can diff social handles without a
// read racing a concurrent update.
func (s *Store) UpdateProfile(ctx context.Context, email string, patch ProfileUpdate) (prev, updated *User, err error) {
	ctx, span := s.tracer.Start(ctx, "users.update_profile")
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, apperr.Upstream("profile update failed", err)
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1
		FOR UPDATE
	`
	prev, err = scanUser(tx.QueryRowContext(ctx, selectQuery, email))
	if err == sql.ErrNoRows {
		return nil, nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, nil, apperr.Upstream("profile update failed", err)
	}

	updateQuery := `
		UPDATE users
		SET name        = COALESCE($2, name),
		    x           = COALESCE($3, x),
		    github      = COALESCE($4, github),
		    linkedin    = COALESCE($5, linkedin),
		    avatar_link = COALESCE($6, avatar_link),
		    bio         = COALESCE($7, bio)
		WHERE email = $1
		RETURNING ` + userColumns + `
	`
	updated, err = scanUser(tx.QueryRowContext(ctx, updateQuery, email,
		patch.Name, patch.X, patch.GitHub, patch.LinkedIn, patch.AvatarLink, patch.Bio,
	))
	if err != nil {
		return nil, nil, apperr.Upstream("profile update failed", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, apperr.Upstream("profile update failed", fmt.Errorf("commit: %w", err))
	}
	return prev, updated, nil
}

// UpdateTags overwrites the tags column wholesale. Last write wins; tasks for
// the same user are not coordinated.
func (s *Store) UpdateTags(ctx context.Context, email string, tags []string) error {
	ctx, span := s.tracer.Start(ctx, "users.update_tags",
		trace.WithAttributes(attribute.Int("tags.count", len(tags))),
	)
	defer span.End()

	res, err := s.db.ExecContext(ctx, `UPDATE users SET tags = $2 WHERE email = $1`, email, pq.Array(tags))
	if err != nil {
		return apperr.Upstream("tags update failed", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
