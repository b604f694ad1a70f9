package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/okian/fplsquad/internal/domain/model"
	"github.com/okian/fplsquad/pkg/logger"
	"github.com/okian/fplsquad/pkg/metrics"
)

// Client defaults.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "fplsquad/1.0"

	bootstrapPath = "/bootstrap-static/"
	fixturesPath  = "/fixtures/"
	maxBodyBytes  = 32 << 20
)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithClientLogger sets the logger.
func WithClientLogger(l logger.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// Client fetches snapshots over HTTP. Bootstrap and fixtures are requested
// concurrently.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	log       logger.Logger
}

// NewClient returns a client rooted at baseURL, e.g.
// "https://fantasy.premierleague.com/api".
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: DefaultUserAgent,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch implements Source.
func (c *Client) Fetch(ctx context.Context) (*model.Snapshot, error) {
	var (
		p  payloads
		wg sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.bootstrap, p.bootstrapErr = c.get(ctx, ResourceBootstrap, bootstrapPath)
	}()
	go func() {
		defer wg.Done()
		p.fixtures, p.fixturesErr = c.get(ctx, ResourceFixtures, fixturesPath)
	}()
	wg.Wait()

	return assemble(ctx, c.log, c.baseURL, p)
}

func (c *Client) get(ctx context.Context, resource, path string) ([]byte, error) {
	start := time.Now()
	body, err := c.do(ctx, path)
	metrics.RecordFetch(resource, float64(time.Since(start).Milliseconds()), err != nil)
	if err != nil {
		c.log.Warn(ctx, "upstream request failed",
			logger.String("resource", resource),
			logger.Error(err),
		)
	}
	return body, err
}

func (c *Client) do(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s failed: %d", path, resp.StatusCode)
	}
	return body, nil
}
