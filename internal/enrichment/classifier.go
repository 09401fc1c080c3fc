// internal/enrichment/classifier.go
package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	// Outbound pacing against the shared classification webhook.
	classifierRPS   = 1.0
	classifierBurst = 5
)

// Classifier is the rate-limited, circuit-broken client for the external
// tag-classification webhook.
type Classifier struct {
	webhookURL string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewClassifier creates a classifier client. The timeout bounds the whole
// webhook round trip; there are no retries.
func NewClassifier(webhookURL string, timeout time.Duration, logger *slog.Logger) *Classifier {
	return &Classifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(classifierRPS), classifierBurst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "classifier",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		logger: logger,
		tracer: otel.Tracer("netzero/enrichment"),
	}
}

type classifyRequest struct {
	Email       string `json:"email"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	XURL        string `json:"x_url,omitempty"`
}

// Classify posts the user's canonical profile URLs to the webhook and returns
// the flattened tag collection. Absent handles become absent URLs.
func (c *Classifier) Classify(ctx context.Context, linkedin, x, email string) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "enrichment.classify",
		trace.WithAttributes(
			attribute.Bool("handle.linkedin", linkedin != ""),
			attribute.Bool("handle.x", x != ""),
		),
	)
	defer span.End()

	req := classifyRequest{Email: email}
	if linkedin != "" {
		req.LinkedInURL = fmt.Sprintf("https://linkedin.com/in/%s/", linkedin)
	}
	if x != "" {
		req.XURL = fmt.Sprintf("https://x.com/%s/", x)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &StageError{Stage: StageRequest, Err: err}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &StageError{Stage: StageRequest, Err: err}
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.post(ctx, payload)
	})
	if err != nil {
		span.SetAttributes(attribute.Bool("classify.failed", true))
		return nil, &StageError{Stage: StageRequest, Err: err}
	}

	tags, err := parseTags(body.([]byte))
	if err != nil {
		span.SetAttributes(attribute.Bool("classify.failed", true))
		return nil, err
	}

	span.SetAttributes(attribute.Int("tags.count", len(tags)))
	return tags, nil
}

func (c *Classifier) post(ctx context.Context, payload []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "netzero/1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
