// Package http provides an HTTP client configured for the recognition
// API and cover art downloads.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Explicit request timeouts
//   - Optional outbound proxy routing
//   - Raw byte uploads for fingerprint samples
//
// # Basic Usage
//
//	client, err := http.NewClient(60*time.Second, "")
//
//	// Upload a recognition sample; the status code is returned so the
//	// caller can interpret distinguished statuses such as 451.
//	body, status, err := client.Post(ctx, apiURL, sample, headers)
//
//	// Fetch cover art bytes
//	img, err := client.Get(ctx, coverURL)
package http
