package integrations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/crdb/pkg/cache"
	crdberrors "github.com/matzehuels/crdb/pkg/errors"
	"github.com/matzehuels/crdb/pkg/observability"
)

// Client is the network executor shared by the CRDB client, the CLI and the
// HTTP API. It performs one GET per call, bounded by a timeout, and
// optionally memoizes response bodies in a [cache.Cache].
type Client struct {
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	headers map[string]string
	maxBody int64
}

// NewClient creates a Client with the given cache backend and default headers.
// A nil backend disables caching. Headers are applied to all requests; pass
// nil if none are needed.
func NewClient(backend cache.Cache, ttl time.Duration, headers map[string]string) *Client {
	if backend == nil {
		backend = cache.NewNullCache()
	}
	return &Client{
		http:    NewHTTPClient(),
		cache:   backend,
		ttl:     ttl,
		headers: headers,
		maxBody: maxResponseBytes,
	}
}

// Cache returns the cache backend.
func (c *Client) Cache() cache.Cache { return c.cache }

// Cached returns the body stored under key or calls fetch and stores its
// result. If refresh is true the cached value is ignored but the fresh
// result is still written back. The boolean reports a cache hit.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, fetch func(context.Context) ([]byte, error)) ([]byte, bool, error) {
	if refresh {
		data, err := fetch(ctx)
		if err != nil {
			return nil, false, err
		}
		_ = c.cache.Set(ctx, key, data, c.ttl)
		return data, false, nil
	}
	return cache.GetOrCompute(ctx, c.cache, key, c.ttl, fetch)
}

// Fetch performs an HTTP GET and returns the response body. The request is
// abandoned after timeout (DefaultTimeout when timeout <= 0).
//
// Returns:
//   - TIMEOUT when the deadline passes before the body is read
//   - NOT_FOUND for HTTP 404
//   - NETWORK_ERROR for connection failures, other non-200 statuses and
//     bodies larger than 64 MiB
func (c *Client) Fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, crdberrors.Wrap(crdberrors.ErrCodeInvalidInput, err, "invalid request URL")
	}
	req.Header.Set("User-Agent", UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(rawURL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodGet, host, path, err)
		return nil, classify(err, timeout)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, classify(err, timeout)
	}
	if int64(len(body)) > c.maxBody {
		return nil, crdberrors.New(crdberrors.ErrCodeNetwork, "response exceeds %d bytes", c.maxBody)
	}
	return body, nil
}

// classify converts a transport error into a coded error. Cancellation by
// the caller stays visible to errors.Is(err, context.Canceled).
func classify(err error, timeout time.Duration) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return crdberrors.Wrap(crdberrors.ErrCodeTimeout, err, "no response within %s", timeout)
	}
	return crdberrors.Wrap(crdberrors.ErrCodeNetwork, err, "request failed")
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return crdberrors.New(crdberrors.ErrCodeNotFound, "status %d", code)
	default:
		return crdberrors.New(crdberrors.ErrCodeNetwork, "status %d", code)
	}
}

func hostPath(rawURL string) (string, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ""
	}
	return u.Host, u.Path
}

// String implements fmt.Stringer for debug logging.
func (c *Client) String() string {
	return fmt.Sprintf("integrations.Client{cache: %T, ttl: %s}", c.cache, c.ttl)
}
