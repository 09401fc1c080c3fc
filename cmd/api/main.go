// cmd/api/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"netzero/internal/auth"
	"netzero/internal/config"
	"netzero/internal/enrichment"
	"netzero/internal/events"
	"netzero/internal/membership"
	"netzero/internal/scraper"
	"netzero/internal/telemetry"
	"netzero/internal/users"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	shutdownTracing, err := telemetry.Setup(ctx, "netzero-api", cfg.OTELEndpoint)
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return err
	}

	userStore := users.NewStore(db)
	authSvc := auth.NewService(userStore)
	eventsSvc := events.NewService(db)
	membershipSvc := membership.NewService(db)

	classifier := enrichment.NewClassifier(cfg.ClassifierWebhookURL, cfg.ClassifierTimeout, logger)
	pipeline := enrichment.NewPipeline(userStore, classifier, cfg.EnrichQueueSize, logger)
	pipeline.Start()
	defer pipeline.Close()

	pageScraper := scraper.New(scraper.Markers{
		Title:       cfg.ScrapeTitleClass,
		Description: cfg.ScrapeDescriptionClass,
		Datetime:    cfg.ScrapeDatetimeClass,
	}, cfg.ScrapeTimeout, logger)

	authHandler := auth.NewHandler(authSvc, logger)
	eventsHandler := events.NewHandler(eventsSvc, logger)
	membershipHandler := membership.NewHandler(membershipSvc, logger)
	enrichmentHandler := enrichment.NewHandler(pipeline, logger)
	scrapeHandler := scraper.NewHandler(pageScraper, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Post("/register", authHandler.HandleRegister)
	r.Post("/login", authHandler.HandleLogin)
	r.Get("/profile/{email}", authHandler.HandleProfile)
	r.Post("/profile/{email}/update", enrichmentHandler.HandleUpdateProfile)
	r.Post("/extract-tags", enrichmentHandler.HandleExtractTags)

	r.Post("/locations", eventsHandler.HandleCreateLocation)
	r.Get("/locations", eventsHandler.HandleListLocations)
	r.Get("/events", eventsHandler.HandleListEvents)

	r.Get("/scrape-luma", scrapeHandler.HandleScrape)

	// Every protected call re-authenticates; there are no sessions.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireBasic(authSvc, logger))
		r.Post("/events", eventsHandler.HandleCreateEvent)
		r.Delete("/events/{id}", eventsHandler.HandleDeleteEvent)
		r.Post("/events/{id}/join", membershipHandler.HandleJoin)
		r.Delete("/events/{id}/leave", membershipHandler.HandleLeave)
		r.Get("/events/{id}/members", membershipHandler.HandleMembers)
		r.Get("/my-events", membershipHandler.HandleMyEvents)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting netzero api", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
