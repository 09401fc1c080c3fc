// internal/events/service.go
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"netzero/internal/users"
)

// Service defines the interface for the event registry.
type Service interface {
	CreateLocation(ctx context.Context, latitude, longitude float64) (*Location, error)
	ListLocations(ctx context.Context) ([]*Location, error)
	CreateEvent(ctx context.Context, actor *users.User, name string, startTime time.Time, durationMinutes int, locationID uuid.UUID) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	DeleteEvent(ctx context.Context, actor *users.User, id uuid.UUID) error
}
