// Package fetch provides the HTTP client that turns an image URL into
// decoded pixel data.
//
// The Client in this package handles:
//   - Browser User-Agent headers (some hosts reject unknown agents)
//   - Timeout handling
//   - Decoding JPEG, PNG and GIF responses
//
// # Basic Usage
//
//	client := fetch.NewClient()
//	img, err := client.Fetch(ctx, "https://example.com/photo.jpg")
//
// Client satisfies the download.Fetcher interface; the retry engine
// treats every error it returns (network, non-2xx status, undecodable
// body) as a single failed attempt.
package fetch
