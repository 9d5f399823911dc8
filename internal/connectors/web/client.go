package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/custodia-labs/sercha-ask/internal/core/domain"
	"github.com/custodia-labs/sercha-ask/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-ask/internal/normalisers"
	"github.com/custodia-labs/sercha-ask/internal/normalisers/html"
)

// maxRedirects bounds redirect chains per request.
const maxRedirects = 10

// Config holds HTTP fetching settings.
type Config struct {
	// MaxPages bounds the number of pages a crawl returns.
	MaxPages int

	// RequestsPerSecond throttles fetches. Zero uses the default.
	RequestsPerSecond float64

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultConfig returns the crawl defaults.
func DefaultConfig() Config {
	return Config{
		MaxPages:          domain.DefaultMaxPages,
		RequestsPerSecond: domain.DefaultRequestsPerSecond,
		Timeout:           domain.DefaultCrawlTimeout,
		UserAgent:         domain.DefaultUserAgent,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxPages <= 0 {
		c.MaxPages = d.MaxPages
	}
	if c.RequestsPerSecond == 0 {
		c.RequestsPerSecond = d.RequestsPerSecond
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	return c
}

// Client fetches pages and turns them into text.
// It is safe for concurrent use; all requests share one rate limiter.
type Client struct {
	cfg      Config
	http     *resty.Client
	limiter  *RateLimiter
	registry driven.ExtractorRegistry
	article  *html.Normaliser
}

// NewClient creates a client. The registry extracts non-HTML responses such as PDFs.
func NewClient(cfg Config, registry driven.ExtractorRegistry) *Client {
	cfg = cfg.withDefaults()

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects))

	return &Client{
		cfg:      cfg,
		http:     httpClient,
		limiter:  NewRateLimiter(cfg.RequestsPerSecond, 1),
		registry: registry,
		article:  html.New(html.WithArticleExtraction()),
	}
}

// Config returns the effective settings.
func (c *Client) Config() Config {
	return c.cfg
}

// response is one fetched document.
type response struct {
	// url is the final URL after redirects.
	url      *url.URL
	mimeType string
	body     []byte
}

// isHTML reports whether the response is a web page.
func (r *response) isHTML() bool {
	return r.mimeType == "text/html" || r.mimeType == "application/xhtml+xml"
}

// fetch performs a rate-limited GET.
func (c *Client) fetch(ctx context.Context, target *url.URL) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		Get(target.String())
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", target, err)
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		c.limiter.RecordRateLimitError(parseRetryAfter(resp.Header().Get("Retry-After"), time.Now()))
		return nil, fmt.Errorf("fetch %s: rate limited (status 429)", target)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch %s: status %d", target, resp.StatusCode())
	}

	final := target
	if resp.RawResponse != nil && resp.RawResponse.Request != nil {
		final = resp.RawResponse.Request.URL
	}

	body := resp.Body()
	return &response{
		url:      final,
		mimeType: normalisers.DetectContentType(resp.Header().Get("Content-Type"), final.Path, body),
		body:     body,
	}, nil
}

// extract turns a non-HTML response into text via the registry.
func (c *Client) extract(ctx context.Context, r *response, location string) (string, error) {
	extractor := c.registry.Get(r.mimeType)
	if extractor == nil {
		return "", fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedSource, location, r.mimeType)
	}
	return extractor.Extract(ctx, r.body, location)
}

// parseHTTPURL accepts absolute http(s) URLs only.
func parseHTTPURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: url %q: %v", domain.ErrInvalidInput, raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: url %q must be absolute http or https", domain.ErrInvalidInput, raw)
	}
	return canonical(u), nil
}

// canonical drops the fragment and gives an empty path "/" so equivalent
// links compare equal.
func canonical(u *url.URL) *url.URL {
	c := *u
	c.Fragment = ""
	c.RawFragment = ""
	if c.Path == "" {
		c.Path = "/"
		c.RawPath = ""
	}
	return &c
}
