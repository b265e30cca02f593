// Package fetch provides the single-shot document fetch capability used by sources.
package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
)

// DefaultUserAgent is a browser-like identifier; several sources refuse bare clients.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// DefaultTimeout bounds a single fetch, redirects included.
const DefaultTimeout = 15 * time.Second

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 8 << 20

var (
	// ErrStatus is returned for non-2xx responses.
	ErrStatus = errors.New("unexpected status")
	// ErrEmptyBody is returned when the response has no content.
	ErrEmptyBody = errors.New("empty response body")
	// ErrBodyTooLarge is returned when the body exceeds the configured cap.
	ErrBodyTooLarge = errors.New("response body too large")
)

// Fetcher retrieves the raw bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// Config configures an HTTPFetcher.
type Config struct {
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger
	// MaxBodyBytes caps the body size (default DefaultMaxBodyBytes).
	MaxBodyBytes int64
	// Client overrides the underlying HTTP client (tests).
	Client *http.Client
}

// HTTPFetcher performs one GET per call. Redirects are followed by the
// client and count as the same attempt. There are no retries.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	maxBody   int64
	logger    *slog.Logger
}

// NewHTTPFetcher creates a fetcher from cfg, filling defaults.
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPFetcher{
		client:    client,
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
		logger:    cfg.Logger,
	}
}

// Fetch downloads url and returns its body transcoded to UTF-8.
// Invalid byte sequences are replaced rather than rejected.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	f.logger.Debug("fetched", "url", url, "final_url", resp.Request.URL.String(),
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d from %s", ErrStatus, resp.StatusCode, url)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(raw)) > f.maxBody {
		return nil, fmt.Errorf("%w: more than %d bytes from %s", ErrBodyTooLarge, f.maxBody, url)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, ErrEmptyBody
	}

	return decodeUTF8(raw, resp.Header.Get("Content-Type")), nil
}

// decodeUTF8 converts body to UTF-8 using the declared or sniffed charset.
func decodeUTF8(body []byte, contentType string) []byte {
	if utf8.Valid(body) {
		return body
	}
	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err == nil {
		if decoded, err := io.ReadAll(r); err == nil && utf8.Valid(decoded) {
			return decoded
		}
	}
	return bytes.ToValidUTF8(body, []byte("�"))
}
