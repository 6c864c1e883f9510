package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const (
	DefaultThumbnailHost = "https://img.youtube.com"

	embedBaseURL = "https://www.youtube.com/embed/"
	watchBaseURL = "https://www.youtube.com/watch"

	// maxDrain bounds how much of an image body is read before closing so
	// the connection can be reused.
	maxDrain = 1 << 20
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithThumbnailHost sets the image host base URL (useful for testing).
func WithThumbnailHost(host string) ClientOption {
	return func(c *Client) {
		c.thumbnailHost = strings.TrimRight(host, "/")
	}
}

// Client probes thumbnail images on the YouTube image host.
type Client struct {
	thumbnailHost string
	httpClient    HTTPClient
}

// NewClient creates a new thumbnail client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		thumbnailHost: DefaultThumbnailHost,
		httpClient:    &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ThumbnailURL returns the image URL for videoID at the given tier on this
// client's host.
func (c *Client) ThumbnailURL(videoID string, tier Tier) string {
	return ThumbnailURL(c.thumbnailHost, videoID, tier)
}

// Probe fetches imageURL and reports whether the host serves it. Any 2xx
// status is success; other statuses return a *ProbeError.
func (c *Client) Probe(ctx context.Context, imageURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProbeError{URL: imageURL, StatusCode: resp.StatusCode}
	}

	return nil
}

// ThumbnailURL builds <host>/vi/<videoID>/<tier>.jpg.
func ThumbnailURL(host, videoID string, tier Tier) string {
	return fmt.Sprintf("%s/vi/%s/%s.jpg", strings.TrimRight(host, "/"), url.PathEscape(videoID), tier)
}

// EmbedURL returns the autoplaying player URL opened in the video overlay.
func EmbedURL(videoID string) string {
	return embedBaseURL + url.PathEscape(videoID) + "?autoplay=1&rel=0&modestbranding=1"
}

// WatchURL returns the public watch page for videoID.
func WatchURL(videoID string) string {
	return watchBaseURL + "?v=" + url.QueryEscape(videoID)
}
