// Package http provides the HTTP client used to load collections from a URL.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Timeout handling
//   - Streaming response bodies
//
// # Basic Usage
//
//	client := http.NewClient(http.WithUserAgent("my-tool/1.0"))
//
//	body, size, err := client.Open(ctx, "https://example.com/collection.nml")
//	if err != nil {
//	    return err
//	}
//	defer body.Close()
//
// size is -1 when the server sends no Content-Length. Wrap body in an
// ioutils.ProgressReader to follow the transfer.
package http
