// internal/membership/implementation.go
package membership

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"netzero/internal/apperr"
	"netzero/internal/events"
	"netzero/internal/users"
)

// service implements the Service interface.
type service struct {
	db     *sql.DB
	tracer trace.Tracer
}

// NewService creates a new membership manager instance.
func NewService(db *sql.DB) Service {
	return &service{
		db:     db,
		tracer: otel.Tracer("netzero/membership"),
	}
}

// Join inserts the membership row. Races between two joins for the same pair
// resolve at the store's primary key: exactly one caller wins, the other
// observes a conflict.
func (s *service) Join(ctx context.Context, actor *users.User, eventID uuid.UUID) (*Membership, error) {
	ctx, span := s.tracer.Start(ctx, "membership.join",
		trace.WithAttributes(
			attribute.String("event.id", eventID.String()),
			attribute.String("member.id", actor.ID.String()),
		),
	)
	defer span.End()

	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists)
	if err != nil {
		return nil, apperr.Upstream("event lookup failed", err)
	}
	if !exists {
		return nil, apperr.NotFound("event not found")
	}

	m := &Membership{EventID: eventID, MemberID: actor.ID}
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO event_members (event_id, member_id)
		VALUES ($1, $2)
		RETURNING created_at
	`, m.EventID, m.MemberID).Scan(&m.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				span.SetAttributes(attribute.Bool("conflict.detected", true))
				return nil, apperr.Conflict("already a member of this event")
			case "23503":
				// Event deleted between the existence check and the insert.
				return nil, apperr.NotFound("event not found")
			}
		}
		return nil, apperr.Upstream("membership insert failed", err)
	}

	return m, nil
}

// Leave deletes the membership if present. Absence is not an error.
func (s *service) Leave(ctx context.Context, actor *users.User, eventID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "membership.leave",
		trace.WithAttributes(
			attribute.String("event.id", eventID.String()),
			attribute.String("member.id", actor.ID.String()),
		),
	)
	defer span.End()

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM event_members
		WHERE event_id = $1 AND member_id = $2
	`, eventID, actor.ID)
	if err != nil {
		return apperr.Upstream("membership delete failed", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		span.SetAttributes(attribute.Int64("memberships.removed", n))
	}
	return nil
}

// Members returns the event joined with its location plus the public profile
// of every attendee.
func (s *service) Members(ctx context.Context, actor *users.User, eventID uuid.UUID) (*MemberList, error) {
	ctx, span := s.tracer.Start(ctx, "membership.members",
		trace.WithAttributes(attribute.String("event.id", eventID.String())),
	)
	defer span.End()

	ev, err := s.eventWithLocation(ctx, eventID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.name, u.bio, u.linkedin, u.x, u.github, u.avatar_link, u.tags, u.created_at
		FROM event_members m
		JOIN users u ON u.id = m.member_id
		WHERE m.event_id = $1
		ORDER BY m.created_at
	`, eventID)
	if err != nil {
		return nil, apperr.Upstream("member query failed", err)
	}
	defer rows.Close()

	members := make([]*users.User, 0)
	for rows.Next() {
		u := &users.User{}
		err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.Bio, &u.LinkedIn, &u.X, &u.GitHub, &u.AvatarLink, pq.Array(&u.Tags), &u.CreatedAt)
		if err != nil {
			return nil, apperr.Upstream("member scan failed", err)
		}
		members = append(members, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Upstream("member iteration failed", err)
	}

	span.SetAttributes(attribute.Int("members.count", len(members)))
	return &MemberList{Event: *ev, Members: members}, nil
}

// MyEvents aggregates the actor's hosted events (with attendee counts,
// including zero) and the events the actor has joined.
func (s *service) MyEvents(ctx context.Context, actor *users.User) (*MyEvents, error) {
	ctx, span := s.tracer.Start(ctx, "membership.my_events",
		trace.WithAttributes(attribute.String("member.id", actor.ID.String())),
	)
	defer span.End()

	out := &MyEvents{
		Hosted:   make([]HostedEvent, 0),
		MemberOf: make([]EventWithLocation, 0),
	}

	hostedRows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.host_id, e.name, e.start_time, e.duration_minutes, e.location_id, e.created_at,
		       l.id, l.latitude, l.longitude, l.created_at,
		       COUNT(m.member_id)
		FROM events e
		JOIN locations l ON l.id = e.location_id
		LEFT JOIN event_members m ON m.event_id = e.id
		WHERE e.host_id = $1
		GROUP BY e.id, l.id
		ORDER BY e.start_time
	`, actor.ID)
	if err != nil {
		return nil, apperr.Upstream("hosted events query failed", err)
	}
	defer hostedRows.Close()

	for hostedRows.Next() {
		var h HostedEvent
		h.Location = &events.Location{}
		err := hostedRows.Scan(
			&h.ID, &h.HostID, &h.Name, &h.StartTime, &h.DurationMinutes, &h.LocationID, &h.Event.CreatedAt,
			&h.Location.ID, &h.Location.Latitude, &h.Location.Longitude, &h.Location.CreatedAt,
			&h.AttendeeCount,
		)
		if err != nil {
			return nil, apperr.Upstream("hosted events scan failed", err)
		}
		out.Hosted = append(out.Hosted, h)
	}
	if err := hostedRows.Err(); err != nil {
		return nil, apperr.Upstream("hosted events iteration failed", err)
	}

	memberRows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.host_id, e.name, e.start_time, e.duration_minutes, e.location_id, e.created_at,
		       l.id, l.latitude, l.longitude, l.created_at
		FROM event_members m
		JOIN events e ON e.id = m.event_id
		JOIN locations l ON l.id = e.location_id
		WHERE m.member_id = $1
		ORDER BY e.start_time
	`, actor.ID)
	if err != nil {
		return nil, apperr.Upstream("joined events query failed", err)
	}
	defer memberRows.Close()

	for memberRows.Next() {
		var e EventWithLocation
		e.Location = &events.Location{}
		err := memberRows.Scan(
			&e.ID, &e.HostID, &e.Name, &e.StartTime, &e.DurationMinutes, &e.LocationID, &e.Event.CreatedAt,
			&e.Location.ID, &e.Location.Latitude, &e.Location.Longitude, &e.Location.CreatedAt,
		)
		if err != nil {
			return nil, apperr.Upstream("joined events scan failed", err)
		}
		out.MemberOf = append(out.MemberOf, e)
	}
	if err := memberRows.Err(); err != nil {
		return nil, apperr.Upstream("joined events iteration failed", err)
	}

	span.SetAttributes(
		attribute.Int("hosted.count", len(out.Hosted)),
		attribute.Int("member_of.count", len(out.MemberOf)),
	)
	return out, nil
}

func (s *service) eventWithLocation(ctx context.Context, eventID uuid.UUID) (*EventWithLocation, error) {
	ev := &EventWithLocation{Location: &events.Location{}}
	err := s.db.QueryRowContext(ctx, `
		SELECT e.id, e.host_id, e.name, e.start_time, e.duration_minutes, e.location_id, e.created_at,
		       l.id, l.latitude, l.longitude, l.created_at
		FROM events e
		JOIN locations l ON l.id = e.location_id
		WHERE e.id = $1
	`, eventID).Scan(
		&ev.ID, &ev.HostID, &ev.Name, &ev.StartTime, &ev.DurationMinutes, &ev.LocationID, &ev.Event.CreatedAt,
		&ev.Location.ID, &ev.Location.Latitude, &ev.Location.Longitude, &ev.Location.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("event not found")
	}
	if err != nil {
		return nil, apperr.Upstream("event query failed", err)
	}
	return ev, nil
}
