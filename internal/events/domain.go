// internal/events/domain.go
package events

import (
	"time"

	"github.com/google/uuid"
)

// Location is a geographic point events are tied to. Locations are created
// independently of events, owned by no one, and immutable once created.
type Location struct {
	ID        uuid.UUID `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is a meetup published by a host at an existing location.
type Event struct {
	ID              uuid.UUID `json:"id"`
	HostID          uuid.UUID `json:"host_id"`
	Name            string    `json:"name"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	LocationID      uuid.UUID `json:"location_id"`
	CreatedAt       time.Time `json:"created_at"`
}
