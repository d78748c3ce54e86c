package shazam

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"

	"github.com/ferrovax/tunetag/internal/config"
	"github.com/ferrovax/tunetag/internal/http"
	"github.com/tidwall/gjson"
)

var (
	// ErrBlocked means the remote service explicitly refused the
	// request (HTTP 451). This usually indicates exhausted credentials
	// or a regional restriction, not a transient network problem, so
	// callers surface it distinctly and stop the batch: every
	// remaining call with the same credentials would fail identically.
	ErrBlocked = errors.New("request blocked (HTTP 451): check your API key or region")

	// ErrNoMatch means the call succeeded but the response carried no
	// usable track information.
	ErrNoMatch = errors.New("the recognition service returned no track information")
)

// Client sends audio samples to the Shazam song recognition API on
// RapidAPI and returns the raw track payload.
//
// Typed failures:
//   - ErrBlocked for HTTP 451
//   - ErrNoMatch for responses without a usable track
//   - Transport and 5xx failures wrapped as ordinary errors
//
// Example:
//
//	client := shazam.NewClient(httpClient, settings)
//	track, err := client.Recognize(ctx, sample)
//	if errors.Is(err, shazam.ErrBlocked) {
//	    // abort the batch
//	}
type Client struct {
	http    *http.Client
	apiURL  string
	apiKey  string
	apiHost string
}

// NewClient creates a recognition client from the configured API
// endpoint and credentials.
func NewClient(httpClient *http.Client, settings *config.Settings) *Client {
	return &Client{
		http:    httpClient,
		apiURL:  settings.APIURL,
		apiKey:  settings.APIKey,
		apiHost: settings.APIHost,
	}
}

// Recognize uploads a leading byte sample of an audio file and returns
// the raw track object from the response.
//
// The sample should be the file's first SampleByteSize bytes: large
// enough to contain usable acoustic fingerprint data, small enough to
// bound upload cost and latency.
//
// The returned bytes are the JSON "track" object, ready for
// ExtractMetadata. A response without a track, or with a track that
// has no sections, yields ErrNoMatch.
func (c *Client) Recognize(ctx context.Context, sample []byte) ([]byte, error) {
	headers := map[string]string{
		"x-rapidapi-key":  c.apiKey,
		"x-rapidapi-host": c.apiHost,
		"Content-Type":    "application/octet-stream",
	}

	body, status, err := c.http.Post(ctx, c.apiURL, sample, headers)
	if err != nil {
		return nil, fmt.Errorf("recognition request: %w", err)
	}

	switch {
	case status == nethttp.StatusUnavailableForLegalReasons:
		return nil, ErrBlocked
	case status != nethttp.StatusOK:
		return nil, fmt.Errorf("recognition service returned HTTP %d", status)
	}

	track := gjson.GetBytes(body, "track")
	if !track.Exists() || len(track.Get("sections").Array()) == 0 {
		return nil, ErrNoMatch
	}

	return []byte(track.Raw), nil
}
