// internal/events/handler.go
package events

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"netzero/internal/apperr"
	"netzero/internal/auth"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// HandleCreateLocation inserts a location.
// POST /locations
func (h *Handler) HandleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, h.logger, apperr.Validation("invalid request body"))
		return
	}

	loc, err := h.service.CreateLocation(r.Context(), req.Latitude, req.Longitude)
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(loc)
}

// HandleListLocations returns all locations.
// GET /locations
func (h *Handler) HandleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.ListLocations(r.Context())
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(locations)
}

// HandleCreateEvent publishes a new event hosted by the authenticated user.
// POST /events
func (h *Handler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		apperr.Write(w, h.logger, apperr.Unauthorized("invalid credentials"))
		return
	}

	var req struct {
		Name            string `json:"name"`
		StartTime       string `json:"start_time"`
		DurationMinutes int    `json:"duration_minutes"`
		LocationID      string `json:"location_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, h.logger, apperr.Validation("invalid request body"))
		return
	}

	// RFC 3339 carries an explicit offset, which keeps start times
	// timezone-aware end to end.
	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		apperr.Write(w, h.logger, apperr.Unprocessable("start_time must be a valid RFC 3339 timestamp"))
		return
	}

	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		apperr.Write(w, h.logger, apperr.NotFound("location not found"))
		return
	}

	ev, err := h.service.CreateEvent(r.Context(), actor, req.Name, startTime, req.DurationMinutes, locationID)
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(ev)
}

// HandleListEvents returns all events.
// GET /events
func (h *Handler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	evs, err := h.service.ListEvents(r.Context())
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(evs)
}

// HandleDeleteEvent deletes an event the authenticated user hosts.
// DELETE /events/{id}
func (h *Handler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		apperr.Write(w, h.logger, apperr.Unauthorized("invalid credentials"))
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apperr.Write(w, h.logger, apperr.NotFound("event not found"))
		return
	}

	if err := h.service.DeleteEvent(r.Context(), actor, id); err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
