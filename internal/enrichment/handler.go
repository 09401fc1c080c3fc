// internal/enrichment/handler.go
package enrichment

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"netzero/internal/apperr"
	"netzero/internal/users"
)

type Handler struct {
	pipeline *Pipeline
	logger   *slog.Logger
}

func NewHandler(pipeline *Pipeline, logger *slog.Logger) *Handler {
	return &Handler{pipeline: pipeline, logger: logger}
}

// HandleUpdateProfile applies a profile patch. Unknown fields are rejected at
// the boundary instead of silently ignored.
// POST /profile/{email}/update
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if decoded, err := url.PathUnescape(email); err == nil {
		email = decoded
	}

	var patch users.ProfileUpdate
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&patch); err != nil {
		apperr.Write(w, h.logger, apperr.Validation("invalid request body"))
		return
	}

	updated, err := h.pipeline.UpdateProfile(r.Context(), email, patch)
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"msg":  "profile updated",
		"user": updated.Public(),
	})
}

// HandleExtractTags runs a classification cycle inline and returns the tags.
// POST /extract-tags
func (h *Handler) HandleExtractTags(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LinkedIn string `json:"linkedin"`
		X        string `json:"x"`
		Email    string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, h.logger, apperr.Validation("invalid request body"))
		return
	}
	if req.Email == "" {
		apperr.Write(w, h.logger, apperr.Validation("email is required"))
		return
	}

	tags, err := h.pipeline.ExtractTagsNow(r.Context(), req.LinkedIn, req.X, req.Email)
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"tags": tags})
}
