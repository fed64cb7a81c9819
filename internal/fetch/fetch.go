// Package fetch retrieves feed-list, feed, and article bodies.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const maxBodyBytes = 5 * 1024 * 1024

// Client retrieves resources over HTTP, throttled by a shared rate
// limiter. Non-HTTP URIs are read from the local filesystem so a bundled
// feed list works without a server.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewClient builds a client with the given request timeout and request
// rate. A rate of zero or less disables throttling.
func NewClient(timeout time.Duration, perSecond float64, userAgent string) *Client {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		if int(perSecond) > 1 {
			burst = int(perSecond)
		}
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, burst),
		userAgent: userAgent,
	}
}

// Get returns the body at uri, capped at 5 MiB.
func (c *Client) Get(ctx context.Context, uri string) ([]byte, error) {
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		return os.ReadFile(strings.TrimPrefix(uri, "file://"))
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, uri)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
