package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// ErrTooManyRedirects is returned when a response chain exceeds the single
// redirect permitted by the Peppol profile.
var ErrTooManyRedirects = errors.New("too many redirects")

// ErrRedirectMissingLocation is returned when a 3xx response carries no
// Location header.
var ErrRedirectMissingLocation = errors.New("redirect response missing Location header")

// FetchError wraps a transport-level failure (network, TLS, timeout,
// redirect overflow) with the URL that was being fetched. Callers decide
// whether the underlying error is recoverable.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// FetcherConfig configures a Fetcher's pooling, timeout, and header
// behavior.
type FetcherConfig struct {
	// UserAgent is sent on every request. Defaults to "smp-resolver-ng/1.0".
	UserAgent string

	// Accept is the Accept header sent on every request. Defaults to
	// "application/xml, text/xml".
	Accept string

	// Timeout bounds a single request (headers + body). Defaults to 30s.
	Timeout time.Duration

	// MaxIdleConnsPerHost caps persistent connections to a single origin.
	// Defaults to 10.
	MaxIdleConnsPerHost int

	// MaxIdleConns caps the shared pool's total persistent connections.
	// Defaults to 100.
	MaxIdleConns int
}

func (c FetcherConfig) withDefaults() FetcherConfig {
	if c.UserAgent == "" {
		c.UserAgent = "smp-resolver-ng/1.0"
	}
	if c.Accept == "" {
		c.Accept = "application/xml, text/xml"
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = 10
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 100
	}
	return c
}

// Response is the result of a successful Get.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// FinalURL is the URL the response was actually read from, after the
	// permitted redirect (if any) was followed.
	FinalURL string
	// Redirects is the number of redirects followed (0 or 1).
	Redirects int
}

// Fetcher performs GET requests with connection reuse, bounded redirect
// following, and per-request timeouts.
//
// A Fetcher owns a single http.Transport whose idle-connection pool is
// internally keyed by origin (scheme://host[:port]) by net/http itself;
// MaxIdleConnsPerHost and MaxIdleConns configure, respectively, the
// per-origin and shared bounds called for in the HTTP fetcher design.
// Idle sockets survive between requests for the Fetcher's lifetime. A
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	config    FetcherConfig
	transport *http.Transport
	client    *http.Client

	mu     sync.Mutex
	closed bool
}

// NewFetcher creates a Fetcher with the given configuration, applying
// defaults for zero-valued fields.
func NewFetcher(config FetcherConfig) *Fetcher {
	config = config.withDefaults()

	transport := &http.Transport{
		MaxIdleConns:          config.MaxIdleConns,
		MaxIdleConnsPerHost:   config.MaxIdleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		ResponseHeaderTimeout: config.Timeout,
	}

	return &Fetcher{
		config:    config,
		transport: transport,
		client: &http.Client{
			Transport: transport,
			// Redirects are followed manually so we can enforce the
			// single-redirect Peppol profile and report the final URL.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Get performs a GET request against reqURL, following at most one
// redirect. A 3xx response without a Location header, or a second 3xx
// after the permitted redirect, is an error. timeout, if non-zero,
// overrides the Fetcher's configured default for this call only (used by
// the business-card probe's short-timeout variant).
func (f *Fetcher) Get(ctx context.Context, reqURL string, timeout time.Duration) (*Response, error) {
	if timeout <= 0 {
		timeout = f.config.Timeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	currentURL := reqURL

	for redirects := 0; ; redirects++ {
		resp, err := f.doOnce(ctx, currentURL)
		if err != nil {
			return nil, &FetchError{URL: currentURL, Err: err}
		}

		if resp.StatusCode < 300 || resp.StatusCode >= 400 {
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, &FetchError{URL: currentURL, Err: fmt.Errorf("reading response body: %w", err)}
			}
			return &Response{
				StatusCode: resp.StatusCode,
				Header:     resp.Header,
				Body:       body,
				FinalURL:   currentURL,
				Redirects:  redirects,
			}, nil
		}

		// 3xx response.
		resp.Body.Close()
		if redirects >= 1 {
			return nil, &FetchError{URL: currentURL, Err: ErrTooManyRedirects}
		}

		location := resp.Header.Get("Location")
		if location == "" {
			return nil, &FetchError{URL: currentURL, Err: ErrRedirectMissingLocation}
		}

		next, err := resolveRedirect(currentURL, location)
		if err != nil {
			return nil, &FetchError{URL: currentURL, Err: fmt.Errorf("resolving redirect: %w", err)}
		}
		currentURL = next
	}
}

func (f *Fetcher) doOnce(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", f.config.Accept)
	req.Header.Set("User-Agent", f.config.UserAgent)

	return f.client.Do(req)
}

func resolveRedirect(base, location string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	locURL, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(locURL).String(), nil
}

// Close drains the Fetcher's persistent connection pool. Post-close calls
// to Get have undefined behavior.
func (f *Fetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.transport.CloseIdleConnections()
}
