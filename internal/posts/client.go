package posts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rshade/postfeed/internal/logging"
)

// DefaultBaseURL is the public API the viewer reads from.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 10 * time.Second

// maxErrorBody is how much of a non-2xx body is kept for logging.
const maxErrorBody = 512

// Client talks to the posts REST API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	metrics    *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is used
// as-is, without tracing instrumentation.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithMetrics attaches request instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme must be http or https, got %q", ErrInvalidBaseURL, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidBaseURL)
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListURL builds the listing URL for the given page and limit.
func (c *Client) ListURL(page, limit int) string {
	u := *c.baseURL
	u.Path += "/posts"
	q := url.Values{}
	q.Set("_page", strconv.Itoa(page))
	q.Set("_limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()
	return u.String()
}

// PostURL builds the single-post URL for id.
func (c *Client) PostURL(id int) string {
	u := *c.baseURL
	u.Path += "/posts/" + strconv.Itoa(id)
	return u.String()
}

// ListPosts fetches one page of post summaries in server order.
func (c *Client) ListPosts(ctx context.Context, page, limit int) ([]Summary, error) {
	start := time.Now()
	var out []Summary
	err := c.getJSON(ctx, opList, c.ListURL(page, limit), &out)
	c.metrics.observe(opList, start, err)
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.Posts.Add(float64(len(out)))
	}

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "posts").
		Str("operation", "list_posts").
		Int("page", page).
		Int("limit", limit).
		Int("count", len(out)).
		Dur("elapsed", time.Since(start)).
		Msg("page fetched")
	return out, nil
}

// GetPost fetches a single post by id.
func (c *Client) GetPost(ctx context.Context, id int) (Detail, error) {
	if id <= 0 {
		return Detail{}, &FetchError{Op: opGet, URL: c.PostURL(id), Err: ErrInvalidID}
	}

	start := time.Now()
	var out Detail
	err := c.getJSON(ctx, opGet, c.PostURL(id), &out)
	c.metrics.observe(opGet, start, err)
	if err != nil {
		return Detail{}, err
	}

	logging.FromContext(ctx).Debug().
		Ctx(ctx).
		Str("component", "posts").
		Str("operation", "get_post").
		Int("post_id", id).
		Dur("elapsed", time.Since(start)).
		Msg("post fetched")
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, op, target string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &FetchError{Op: op, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Op: op, URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &FetchError{Op: op, URL: target, Status: resp.StatusCode, Err: ErrNotFound}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logging.FromContext(ctx).Debug().
			Ctx(ctx).
			Str("component", "posts").
			Str("url", target).
			Int("status", resp.StatusCode).
			Str("body", string(body)).
			Msg("unexpected response")
		return &FetchError{Op: op, URL: target, Status: resp.StatusCode, Err: ErrUnexpectedStatus}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &FetchError{Op: op, URL: target, Status: resp.StatusCode, Err: fmt.Errorf("%w: %w", ErrDecode, err)}
	}
	return nil
}
