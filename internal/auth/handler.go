// internal/auth/handler.go
package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"netzero/internal/apperr"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// HandleRegister creates a new account.
// POST /register
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, h.logger, apperr.Validation("invalid request body"))
		return
	}

	u, err := h.service.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"msg":  "registered",
		"user": u.Public(),
	})
}

// HandleLogin verifies credentials without establishing a session.
// POST /login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.Write(w, h.logger, apperr.Validation("invalid request body"))
		return
	}

	u, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message": "login ok",
		"user":    u.Public(),
	})
}

// HandleProfile returns the caller's own profile, credentials supplied as a
// password query parameter against the path email.
// GET /profile/{email}?password=
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if decoded, err := url.PathUnescape(email); err == nil {
		email = decoded
	}

	u, err := h.service.Authenticate(r.Context(), email, r.URL.Query().Get("password"))
	if err != nil {
		apperr.Write(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(u.Public())
}
