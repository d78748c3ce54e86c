package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client wraps HTTP operations for the recognition service and cover
// art downloads.
//
// Client provides:
//   - Configured User-Agent header
//   - An explicit request timeout (the recognition call must not hang
//     on an external-library default)
//   - Optional outbound proxy routing for all requests
//   - Raw byte POST for fingerprint samples
//
// Example usage:
//
//	client, err := http.NewClient(60*time.Second, "")
//
//	// Upload a fingerprint sample
//	body, status, err := client.Post(ctx, apiURL, sample, headers)
//
//	// Fetch cover art
//	img, err := client.Get(ctx, coverURL)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// Parameters:
//   - timeout: Applied to every request made through the client.
//   - proxyURL: Proxy endpoint ("type://user:pass@ip:port"). Empty
//     string disables proxying.
//
// Returns an error if the proxy URL cannot be parsed.
func NewClient(timeout time.Duration, proxyURL string) (*Client, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		proxy, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: "tunetag",
	}, nil
}

// Get performs a GET request and returns the response body as bytes.
//
// The request includes the configured User-Agent header.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK
//   - Reading the body fails
//
// Example:
//
//	data, err := client.Get(ctx, "https://example.com/cover.jpg")
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// Post performs a POST request with a raw byte body and returns the
// response body together with the HTTP status code.
//
// Unlike Get, a non-200 status is not turned into an error here: the
// recognition client needs to interpret distinguished statuses (451
// means blocked) itself.
//
// Parameters:
//   - ctx: Context for cancellation
//   - url: Endpoint to POST to
//   - body: Raw request body (e.g. an audio sample)
//   - headers: Additional headers set verbatim on the request
//
// Example:
//
//	body, status, err := client.Post(ctx, apiURL, sample, map[string]string{
//	    "x-rapidapi-key": key,
//	    "Content-Type":   "application/octet-stream",
//	})
func (c *Client) Post(ctx context.Context, url string, body []byte, headers map[string]string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}

	return data, resp.StatusCode, nil
}
