// internal/events/implementation.go
package events

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"netzero/internal/apperr"
	"netzero/internal/users"
)

// service implements the Service interface.
type service struct {
	db     *sql.DB
	tracer trace.Tracer
}

// NewService creates a new event registry instance.
func NewService(db *sql.DB) Service {
	return &service{
		db:     db,
		tracer: otel.Tracer("netzero/events"),
	}
}

// CreateLocation inserts a new location. Latitude/longitude are stored as
// given; there is no range check.
func (s *service) CreateLocation(ctx context.Context, latitude, longitude float64) (*Location, error) {
	ctx, span := s.tracer.Start(ctx, "events.create_location")
	defer span.End()

	loc := &Location{
		ID:        uuid.New(),
		Latitude:  latitude,
		Longitude: longitude,
	}

	query := `
		INSERT INTO locations (id, latitude, longitude)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	if err := s.db.QueryRowContext(ctx, query, loc.ID, loc.Latitude, loc.Longitude).Scan(&loc.CreatedAt); err != nil {
		return nil, apperr.Upstream("location insert failed", err)
	}

	return loc, nil
}

// ListLocations returns every location, unfiltered.
func (s *service) ListLocations(ctx context.Context) ([]*Location, error) {
	ctx, span := s.tracer.Start(ctx, "events.list_locations")
	defer span.End()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, latitude, longitude, created_at
		FROM locations
		ORDER BY created_at
	`)
	if err != nil {
		return nil, apperr.Upstream("location query failed", err)
	}
	defer rows.Close()

	locations := make([]*Location, 0)
	for rows.Next() {
		loc := &Location{}
		if err := rows.Scan(&loc.ID, &loc.Latitude, &loc.Longitude, &loc.CreatedAt); err != nil {
			return nil, apperr.Upstream("location scan failed", err)
		}
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Upstream("location iteration failed", err)
	}

	span.SetAttributes(attribute.Int("locations.count", len(locations)))
	return locations, nil
}

// CreateEvent validates the duration and the location reference, then inserts
// the event with the actor as host.
func (s *service) CreateEvent(ctx context.Context, actor *users.User, name string, startTime time.Time, durationMinutes int, locationID uuid.UUID) (*Event, error) {
	ctx, span := s.tracer.Start(ctx, "events.create_event",
		trace.WithAttributes(attribute.String("host.id", actor.ID.String())),
	)
	defer span.End()

	if durationMinutes <= 0 {
		return nil, apperr.Unprocessable("duration_minutes must be > 0")
	}

	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM locations WHERE id = $1)`, locationID).Scan(&exists)
	if err != nil {
		return nil, apperr.Upstream("location lookup failed", err)
	}
	if !exists {
		return nil, apperr.NotFound("location not found")
	}

	ev := &Event{
		ID:              uuid.New(),
		HostID:          actor.ID,
		Name:            name,
		StartTime:       startTime,
		DurationMinutes: durationMinutes,
		LocationID:      locationID,
	}

	query := `
		INSERT INTO events (id, host_id, name, start_time, duration_minutes, location_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err = s.db.QueryRowContext(ctx, query,
		ev.ID, ev.HostID, ev.Name, ev.StartTime, ev.DurationMinutes, ev.LocationID,
	).Scan(&ev.CreatedAt)
	if err != nil {
		return nil, apperr.Upstream("event insert failed", err)
	}

	return ev, nil
}

// ListEvents returns every event, unfiltered by time, host, or membership.
func (s *service) ListEvents(ctx context.Context) ([]*Event, error) {
	ctx, span := s.tracer.Start(ctx, "events.list_events")
	defer span.End()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, host_id, name, start_time, duration_minutes, location_id, created_at
		FROM events
		ORDER BY start_time
	`)
	if err != nil {
		return nil, apperr.Upstream("event query failed", err)
	}
	defer rows.Close()

	evs := make([]*Event, 0)
	for rows.Next() {
		ev := &Event{}
		if err := rows.Scan(&ev.ID, &ev.HostID, &ev.Name, &ev.StartTime, &ev.DurationMinutes, &ev.LocationID, &ev.CreatedAt); err != nil {
			return nil, apperr.Upstream("event scan failed", err)
		}
		evs = append(evs, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Upstream("event iteration failed", err)
	}

	span.SetAttributes(attribute.Int("events.count", len(evs)))
	return evs, nil
}

// DeleteEvent removes an event and cascades its memberships in the same
// transaction. Only the host may delete.
func (s *service) DeleteEvent(ctx context.Context, actor *users.User, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "events.delete_event",
		trace.WithAttributes(
			attribute.String("event.id", id.String()),
			attribute.String("actor.id", actor.ID.String()),
		),
	)
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Upstream("event delete failed", err)
	}
	defer tx.Rollback()

	var hostID uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT host_id FROM events WHERE id = $1`, id).Scan(&hostID)
	if err == sql.ErrNoRows {
		return apperr.NotFound("event not found")
	}
	if err != nil {
		return apperr.Upstream("event lookup failed", err)
	}

	if hostID != actor.ID {
		span.SetAttributes(attribute.Bool("forbidden", true))
		return apperr.Forbidden("only the host can delete this event")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_members WHERE event_id = $1`, id); err != nil {
		return apperr.Upstream("membership cascade failed", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id); err != nil {
		return apperr.Upstream("event delete failed", err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Upstream("event delete failed", fmt.Errorf("commit: %w", err))
	}
	return nil
}
