// internal/scraper/scraper.go
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/html"
)

// Some event pages block unidentified fetchers, so requests carry a
// browser-like identity.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Markers are the class attribute values the three fields are extracted by.
// Each marker is independent: a page missing one still yields the others.
type Markers struct {
	Title       string
	Description string
	Datetime    string
}

// Result holds the extracted page facts. Every field defaults to the empty
// string on any failure.
type Result struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Datetime    string `json:"datetime"`
}

// Scraper fetches a remote event page and extracts fixed text fields by
// structural markers.
type Scraper struct {
	httpClient *http.Client
	markers    Markers
	logger     *slog.Logger
	tracer     trace.Tracer
}

// New creates a scraper with the given markers and fetch timeout.
func New(markers Markers, timeout time.Duration, logger *slog.Logger) *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: timeout},
		markers:    markers,
		logger:     logger,
		tracer:     otel.Tracer("netzero/scraper"),
	}
}

// Scrape never fails from its caller's point of view: any fetch or parse
// problem degrades to the all-empty result. The underlying stage error is
// logged for diagnosis.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) Result {
	ctx, span := s.tracer.Start(ctx, "scraper.scrape")
	defer span.End()

	res, err := s.scrape(ctx, rawURL)
	if err != nil {
		span.SetAttributes(attribute.Bool("scrape.failed", true))
		s.logger.Warn("scrape failed", "url", rawURL, "error", err)
		return Result{}
	}
	return res
}

func (s *Scraper) scrape(ctx context.Context, rawURL string) (Result, error) {
	target := normalizeURL(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("fetch: unexpected status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read body: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return Result{}, fmt.Errorf("parse html: %w", err)
	}

	// Missing markers are not an error: partial extraction is success.
	return Result{
		Title:       firstTextByClass(doc, s.markers.Title),
		Description: firstTextByClass(doc, s.markers.Description),
		Datetime:    firstTextByClass(doc, s.markers.Datetime),
	}, nil
}

// normalizeURL prefixes https:// when the URL carries no scheme.
func normalizeURL(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}

// firstTextByClass returns the whitespace-normalized text of the first
// element whose class attribute equals the marker exactly, or "" if none
// matches.
func firstTextByClass(doc *html.Node, class string) string {
	node := findByClass(doc, class)
	if node == nil {
		return ""
	}

	var buf strings.Builder
	collectText(node, &buf)
	return strings.Join(strings.Fields(buf.String()), " ")
}

func findByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Key == "class" && attr.Val == class {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
		buf.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, buf)
	}
}
