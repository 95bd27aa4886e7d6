package crdb

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/crdb/pkg/cache"
	"github.com/matzehuels/crdb/pkg/errors"
	"github.com/matzehuels/crdb/pkg/integrations"
	"github.com/matzehuels/crdb/pkg/observability"
)

// DefaultParallel bounds concurrent requests in [Client.QueryAll].
const DefaultParallel = 4

// Client runs CRDB queries. It is safe for concurrent use.
type Client struct {
	exec      *integrations.Client
	logger    *log.Logger
	timeout   time.Duration
	ttl       time.Duration
	serverURL string
	refresh   bool
	parallel  int
}

// Option configures a [Client].
type Option func(*Client)

// WithLogger sets the logger. Queries are logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTimeout bounds each request (default 120 s).
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithTTL sets how long responses stay cached (default 30 days).
func WithTTL(d time.Duration) Option {
	return func(c *Client) { c.ttl = d }
}

// WithServerURL sets the server used by parameters that leave ServerURL
// empty.
func WithServerURL(u string) Option {
	return func(c *Client) { c.serverURL = u }
}

// WithRefresh makes every query bypass cached responses. Fresh responses
// are still written to the cache.
func WithRefresh(refresh bool) Option {
	return func(c *Client) { c.refresh = refresh }
}

// WithParallel bounds concurrent requests in [Client.QueryAll].
func WithParallel(n int) Option {
	return func(c *Client) { c.parallel = n }
}

// NewClient creates a client that stores raw responses in backend. A nil
// backend disables caching.
func NewClient(backend cache.Cache, opts ...Option) *Client {
	c := &Client{
		logger:    log.Default(),
		timeout:   integrations.DefaultTimeout,
		ttl:       cache.TTLHTTP,
		serverURL: DefaultServerURL,
		parallel:  DefaultParallel,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.exec = integrations.NewClient(backend, c.ttl, nil)
	return c
}

// URL returns the query URL for p, using the client's server when p does
// not name one.
func (c *Client) URL(p QueryParameters) (string, error) {
	if p.ServerURL == "" {
		p.ServerURL = c.serverURL
	}
	return BuildURL(p)
}

// Raw returns the unparsed server reply for p.
func (c *Client) Raw(ctx context.Context, p QueryParameters) (string, error) {
	url, err := c.URL(p)
	if err != nil {
		return "", err
	}
	body, err := c.fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Query fetches and parses p. It returns a complete table or an error,
// never a partial result.
func (c *Client) Query(ctx context.Context, p QueryParameters) (table Table, err error) {
	hooks := observability.Query()
	hooks.OnQueryStart(ctx, p.Label())
	start := time.Now()
	defer func() {
		hooks.OnQueryComplete(ctx, p.Label(), len(table), time.Since(start), err)
	}()

	url, err := c.URL(p)
	if err != nil {
		return nil, err
	}
	body, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	table, err = ParseResponse(string(body), url)
	if err != nil {
		// Keep server error messages and malformed replies out of the cache.
		if delErr := c.exec.Cache().Delete(ctx, cache.HTTPKey(url)); delErr != nil {
			c.logger.Debug("cache delete failed", "url", url, "error", delErr)
		}
		return nil, err
	}
	c.logger.Debug("parsed", "query", p.Label(), "rows", len(table))
	return table, nil
}

// QueryAll runs every query concurrently and returns the tables in input
// order. The first failure cancels the remaining queries and is returned.
func (c *Client) QueryAll(ctx context.Context, params []QueryParameters) ([]Table, error) {
	tables := make([]Table, len(params))
	g, ctx := errgroup.WithContext(ctx)
	if c.parallel > 0 {
		g.SetLimit(c.parallel)
	}
	for i, p := range params {
		i, p := i, p
		g.Go(func() error {
			t, err := c.Query(ctx, p)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

// ClearCache removes every cached response.
func (c *Client) ClearCache(ctx context.Context) (int, error) {
	return c.exec.Cache().Clear(ctx)
}

func (c *Client) fetch(ctx context.Context, url string) ([]byte, error) {
	body, hit, err := c.exec.Cached(ctx, cache.HTTPKey(url), c.refresh, func(ctx context.Context) ([]byte, error) {
		c.logger.Debug("fetching", "url", url)
		return c.exec.Fetch(ctx, url, c.timeout)
	})
	if err != nil {
		return nil, errors.AttachURL(err, url)
	}
	c.logger.Debug("response", "url", url, "cached", hit, "bytes", len(body))
	return body, nil
}
