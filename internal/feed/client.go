// Package feed fetches the published CSV feeds. It implements a deep module
// interface - simple methods hiding transport details and failure mapping.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrFetch indicates a network or HTTP failure retrieving a feed. Load
// failures are not retried automatically; the viewer shows a retry
// affordance instead.
var ErrFetch = errors.New("feed fetch failed")

// DefaultTimeout bounds a single feed fetch so a hung feed cannot stall the
// load pipeline indefinitely.
const DefaultTimeout = 30 * time.Second

// Client retrieves the primary and reference feeds.
type Client struct {
	http    *http.Client
	dataURL string
	refURL  string
}

// New creates a feed client for the two feed locations. A non-positive
// timeout falls back to DefaultTimeout.
func New(dataURL, refURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		dataURL: dataURL,
		refURL:  refURL,
	}
}

// FetchDataset retrieves the primary graffiti feed as raw CSV text.
func (c *Client) FetchDataset(ctx context.Context) (string, error) {
	return c.fetch(ctx, c.dataURL)
}

// FetchReference retrieves the zip→area reference feed as raw CSV text.
func (c *Client) FetchReference(ctx context.Context) (string, error) {
	return c.fetch(ctx, c.refURL)
}

func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %s returned %d", ErrFetch, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return string(body), nil
}

// CheckMedia probes a media URL so the viewer can skip dead images instead of
// rendering a broken one. Any non-2xx response counts as unavailable.
func (c *Client) CheckMedia(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: media %s returned %d", ErrFetch, url, resp.StatusCode)
	}
	return nil
}
