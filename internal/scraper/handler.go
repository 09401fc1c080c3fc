// internal/scraper/handler.go
package scraper

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"netzero/internal/apperr"
)

type Handler struct {
	scraper *Scraper
	logger  *slog.Logger
}

func NewHandler(scraper *Scraper, logger *slog.Logger) *Handler {
	return &Handler{scraper: scraper, logger: logger}
}

// HandleScrape extracts event facts from a remote page.
// GET /scrape-luma?event_url=
func (h *Handler) HandleScrape(w http.ResponseWriter, r *http.Request) {
	eventURL := r.URL.Query().Get("event_url")
	if eventURL == "" {
		apperr.Write(w, h.logger, apperr.Validation("event_url is required"))
		return
	}

	result := h.scraper.Scrape(r.Context(), eventURL)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
