package edhrec

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultSiteURL = "https://edhrec.com"
	defaultJSONURL = "https://json.edhrec.com/pages"
	requestDelay   = 800 * time.Millisecond // EDHREC safe throttle
	requestTimeout = 30 * time.Second
)

// Client fetches deck tables, deck previews and recommendation pages
// from EDHREC's JSON API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	siteURL     string
	jsonURL     string
	userAgent   string
	buildID     string
}

// NewClient creates a new EDHREC API client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		rateLimiter: rate.NewLimiter(rate.Every(requestDelay), 1),
		siteURL:     defaultSiteURL,
		jsonURL:     defaultJSONURL,
		userAgent:   "edhrec-analyzer/1.0",
	}
}

// NotFoundError indicates that EDHREC has no page for the requested commander.
type NotFoundError struct {
	Slug string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("commander not found: %s", e.Slug)
}

// IsNotFound returns true if the error is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// BuildID returns the Next.js build ID embedded in the EDHREC homepage.
// Deck preview URLs are namespaced by this ID. The value is detected once
// and reused for the lifetime of the client.
func (c *Client) BuildID(ctx context.Context) (string, error) {
	if c.buildID != "" {
		return c.buildID, nil
	}

	body, err := c.getRaw(ctx, c.siteURL)
	if err != nil {
		return "", fmt.Errorf("failed to load EDHREC homepage: %w", err)
	}

	id, err := extractBuildID(string(body))
	if err != nil {
		return "", err
	}

	c.buildID = id
	return id, nil
}

// extractBuildID pulls the build ID out of the homepage HTML by locating
// the /_next/static/<BUILD_ID>/_buildManifest.js script reference.
func extractBuildID(html string) (string, error) {
	const marker = "_buildManifest.js"
	idx := strings.Index(html, marker)
	if idx == -1 {
		return "", fmt.Errorf("could not find %s reference in homepage", marker)
	}

	prefix := html[:idx]

	const staticMarker = "/_next/static/"
	staticIdx := strings.LastIndex(prefix, staticMarker)
	if staticIdx == -1 {
		return "", fmt.Errorf("could not locate %s in homepage", staticMarker)
	}

	start := staticIdx + len(staticMarker)
	end := strings.Index(prefix[start:], "/")
	if end == -1 {
		return "", fmt.Errorf("malformed build manifest path in homepage")
	}

	id := prefix[start : start+end]
	if len(id) < 5 {
		return "", fmt.Errorf("extracted invalid EDHREC build ID: %q", id)
	}

	return id, nil
}

// DeckTable fetches the deck listing metadata for a commander slug.
// Returns a NotFoundError when EDHREC has no decks page for the slug,
// which is how a misspelled or unknown commander surfaces.
func (c *Client) DeckTable(ctx context.Context, slug string) (*DeckTablePage, error) {
	url := fmt.Sprintf("%s/decks/%s.json", c.jsonURL, slug)

	var page DeckTablePage
	if err := c.getJSON(ctx, url, slug, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// FetchDeck retrieves the raw card lines of one deck preview by its URL hash.
func (c *Client) FetchDeck(ctx context.Context, deckID string) ([]string, error) {
	buildID, err := c.BuildID(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/_next/data/%s/deckpreview/%s.json?deckId=%s", c.siteURL, buildID, deckID, deckID)

	var page DeckPreviewPage
	if err := c.getJSON(ctx, url, deckID, &page); err != nil {
		return nil, err
	}

	if page.PageProps.Data == nil || page.PageProps.Data.Deck == nil {
		return nil, fmt.Errorf("deck JSON format unexpected for %s", deckID)
	}

	return page.PageProps.Data.Deck, nil
}

// CommanderPage fetches the recommendation page for a commander slug,
// containing categorized card lists (the "suggestions" data).
func (c *Client) CommanderPage(ctx context.Context, slug string) (*CommanderPage, error) {
	url := fmt.Sprintf("%s/commanders/%s.json", c.jsonURL, slug)

	var page CommanderPage
	if err := c.getJSON(ctx, url, slug, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// getJSON performs a rate-limited GET and decodes the JSON response.
// 404 and 403 responses are reported as NotFoundError for the given key.
func (c *Client) getJSON(ctx context.Context, url, key string, result interface{}) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusForbidden {
		return &NotFoundError{Slug: key}
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// getRaw performs a rate-limited GET and returns the raw response body.
func (c *Client) getRaw(ctx context.Context, url string) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
