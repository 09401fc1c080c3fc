// internal/membership/service.go
package membership

import (
	"context"

	"github.com/google/uuid"

	"netzero/internal/users"
)

// Service defines the interface for the membership manager.
type Service interface {
	// Join adds the actor to an event. Joining twice is a conflict.
	Join(ctx context.Context, actor *users.User, eventID uuid.UUID) (*Membership, error)
	// Leave removes the actor from an event. Leaving an event the actor is
	// not a member of succeeds silently.
	Leave(ctx context.Context, actor *users.User, eventID uuid.UUID) error
	// Members returns the event with its location and attendee profiles.
	Members(ctx context.Context, actor *users.User, eventID uuid.UUID) (*MemberList, error)
	// MyEvents returns events the actor hosts (with attendee counts) and
	// events the actor has joined.
	MyEvents(ctx context.Context, actor *users.User) (*MyEvents, error)
}
