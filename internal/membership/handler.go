// internal/membership/handler.go
package membership

import (
	"encoding/json"
	"log/slog"
	"net/http"

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

func (h *Handler) eventID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound("event not found")
	}
	return id, nil
}

// HandleJoin adds the authenticated user to an event.
// POST /events/{id}/join
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		apperr.Write(w, h.logger, apperr.Unauthorized("invalid credentials"))
		return
	}

	id, err := h.eventID(r)
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	m, err := h.service.Join(r.Context(), actor, id)
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(m)
}

// HandleLeave removes the authenticated user from an event. Idempotent:
// always 204, even when there was nothing to remove.
// DELETE /events/{id}/leave
func (h *Handler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		apperr.Write(w, h.logger, apperr.Unauthorized("invalid credentials"))
		return
	}

	id, err := h.eventID(r)
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	if err := h.service.Leave(r.Context(), actor, id); err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleMembers lists an event's attendees for any authenticated user.
// GET /events/{id}/members
func (h *Handler) HandleMembers(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		apperr.Write(w, h.logger, apperr.Unauthorized("invalid credentials"))
		return
	}

	id, err := h.eventID(r)
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	list, err := h.service.Members(r.Context(), actor, id)
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// HandleMyEvents returns the caller's hosted events and memberships.
// GET /my-events
func (h *Handler) HandleMyEvents(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.FromContext(r.Context())
	if !ok {
		apperr.Write(w, h.logger, apperr.Unauthorized("invalid credentials"))
		return
	}

	my, err := h.service.MyEvents(r.Context(), actor)
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(my)
}
