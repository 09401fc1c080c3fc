// internal/membership/domain.go
package membership

import (
	"time"

	"github.com/google/uuid"

	"netzero/internal/events"
	"netzero/internal/users"
)

// Membership links a member to an event. Its identity is the pair itself;
// the store enforces at most one row per (event, member).
type Membership struct {
	EventID   uuid.UUID `json:"event_id"`
	MemberID  uuid.UUID `json:"member_id"`
	CreatedAt time.Time `json:"created_at"`
}

// EventWithLocation is an event joined with its location for read views.
type EventWithLocation struct {
	events.Event
	Location *events.Location `json:"location"`
}

// HostedEvent is an event the caller hosts, with its attendee count.
type HostedEvent struct {
	EventWithLocation
	AttendeeCount int `json:"attendee_count"`
}

// MemberList is the detail view of one event and everyone attending it.
// Member profiles are public: the password hash never appears here.
type MemberList struct {
	Event   EventWithLocation `json:"event"`
	Members []*users.User     `json:"members"`
}

// MyEvents groups the caller's hosted events and memberships.
type MyEvents struct {
	Hosted   []HostedEvent       `json:"hosted"`
	MemberOf []EventWithLocation `json:"member_of"`
}
