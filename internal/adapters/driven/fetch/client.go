// Package fetch downloads the player bundle from its remote origin.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"golang.org/x/time/rate"

	"github.com/frozenisback/sp-src/internal/core/ports/driven"
	"github.com/frozenisback/sp-src/internal/logger"
)

const (
	// DefaultEntryURL is the page scraped for the versioned bundle URL.
	DefaultEntryURL = "https://open.spotify.com/"

	// DefaultUserAgent is a browser-like User-Agent; the entry page
	// serves a different shell to unknown clients.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/136.0.0.0 Safari/537.36"

	// RequestTimeout bounds each request.
	RequestTimeout = 30 * time.Second

	// ProactiveRate is the throttle rate in requests per second. The
	// pipeline makes two requests per run; the limiter exists so watch
	// mode and retries stay polite.
	ProactiveRate = 0.5
)

// playerScriptRe extracts the versioned bundle URL from the entry page.
var playerScriptRe = regexp.MustCompile(`"(https://[^" ]+/web-player\.[0-9a-f]+\.js)"`)

// javascriptTypeRe validates the bundle response content type.
var javascriptTypeRe = regexp.MustCompile(`text/javascript\b`)

// Ensure Client implements the interface.
var _ driven.BundleSource = (*Client)(nil)

// Client is an HTTP-backed driven.BundleSource with proactive
// throttling.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	entryURL  string
	userAgent string
}

// NewClient creates a bundle client. Empty entryURL or userAgent fall
// back to the defaults.
func NewClient(entryURL, userAgent string) *Client {
	if entryURL == "" {
		entryURL = DefaultEntryURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		http:      &http.Client{Timeout: RequestTimeout},
		limiter:   rate.NewLimiter(rate.Limit(ProactiveRate), 1),
		entryURL:  entryURL,
		userAgent: userAgent,
	}
}

// PlayerURL fetches the entry page and extracts the versioned bundle
// URL from its markup.
func (c *Client) PlayerURL(ctx context.Context) (string, error) {
	body, _, err := c.get(ctx, c.entryURL)
	if err != nil {
		return "", fmt.Errorf("fetch entry page: %w", err)
	}

	match := playerScriptRe.FindStringSubmatch(body)
	if match == nil {
		return "", fmt.Errorf("player script URL not found in %s", c.entryURL)
	}

	logger.Debug("Player script URL: %s", match[1])
	return match[1], nil
}

// Fetch downloads the bundle and validates its content type.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	body, contentType, err := c.get(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch bundle: %w", err)
	}

	if !javascriptTypeRe.MatchString(contentType) {
		return "", fmt.Errorf("fetch bundle: invalid content type %q", contentType)
	}

	logger.Debug("Fetched bundle: %d bytes", len(body))
	return body, nil
}

// get performs a throttled GET and returns the body and content type.
// Non-2xx responses are errors.
func (c *Client) get(ctx context.Context, url string) (string, string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", "", fmt.Errorf("HTTP status code %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("read body: %w", err)
	}

	return string(body), resp.Header.Get("Content-Type"), nil
}
