// Package catalog talks to the Requirements API and normalizes its payloads
// into requirement records.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ppiankov/degreeplan/internal/cache"
	"github.com/ppiankov/degreeplan/internal/model"
	"github.com/ppiankov/degreeplan/internal/util"
	"github.com/ppiankov/degreeplan/internal/worker"
	"go.uber.org/zap"
)

// Client fetches requirement and course batches per major
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	cache      cache.Cache
	limiter    *worker.Limiter
	logger     *zap.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithCache caches response bodies by request URL
func WithCache(c cache.Cache) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithLimiter throttles requests per host
func WithLimiter(l *worker.Limiter) Option {
	return func(cl *Client) { cl.limiter = l }
}

// WithLogger sets the client logger
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(cl *Client) { cl.httpClient = h }
}

// NewClient creates a client for the API described by cfg
func NewClient(cfg model.APIConfig, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		cache:     cache.Nop{},
		logger:    zap.NewNop(),
	}
	if c.maxBytes <= 0 {
		c.maxBytes = model.DefaultConfig().API.MaxBodyBytes
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRequirements returns the normalized requirement batch of a major
func (c *Client) FetchRequirements(ctx context.Context, major model.Major) ([]model.RequirementRecord, error) {
	body, err := c.get(ctx, "requirements", major)
	if err != nil {
		return nil, err
	}

	rows, err := DecodeRequirements(body)
	if err != nil {
		return nil, err
	}

	records := Normalize(rows)
	c.logger.Debug("Fetched requirements",
		zap.String("major", string(major)),
		zap.Int("rows", len(rows)),
		zap.Int("records", len(records)))
	return records, nil
}

// FetchCourses returns the courses offered to a major
func (c *Client) FetchCourses(ctx context.Context, major model.Major) ([]model.Course, error) {
	body, err := c.get(ctx, "courses", major)
	if err != nil {
		return nil, err
	}
	return DecodeCourses(body)
}

func (c *Client) endpoint(resource string, major model.Major) string {
	query := url.Values{}
	query.Set("major", strings.ToLower(string(major)))
	return c.baseURL + "/" + resource + "?" + query.Encode()
}

func (c *Client) get(ctx context.Context, resource string, major model.Major) ([]byte, error) {
	rawURL := c.endpoint(resource, major)
	key := cache.Key(rawURL)

	if body, ok := c.cache.Get(key); ok {
		c.logger.Debug("Cache hit", zap.String("url", rawURL))
		return body, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", resource, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", resource, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if err := c.cache.Set(key, body, 0); err != nil {
		c.logger.Warn("Cache write failed", zap.String("url", rawURL), zap.Error(err))
	}
	return body, nil
}
