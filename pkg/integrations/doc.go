// Package integrations provides the HTTP executor for the CRDB REST API.
//
// # Overview
//
// [Client] performs exactly one GET per call, bounded by a per-call
// timeout, and never retries. Transport failures become coded errors from
// [github.com/matzehuels/crdb/pkg/errors]:
//
//   - TIMEOUT: the deadline passed (default [DefaultTimeout], 120 s)
//   - NOT_FOUND: HTTP 404
//   - NETWORK_ERROR: connection failures and other non-200 statuses
//
// # Caching
//
// [Client.Cached] wraps a fetch in [cache.GetOrCompute], keyed by URL. The
// cache is injected at construction; pass nil to disable it.
//
//	c := integrations.NewClient(fileCache, cache.TTLHTTP, nil)
//	body, hit, err := c.Cached(ctx, cache.HTTPKey(url), false, func(ctx context.Context) ([]byte, error) {
//	    return c.Fetch(ctx, url, 0)
//	})
//
// # Observability
//
// Every request emits [observability.HTTPHooks] events.
//
// [cache.GetOrCompute]: github.com/matzehuels/crdb/pkg/cache.GetOrCompute
// [observability.HTTPHooks]: github.com/matzehuels/crdb/pkg/observability.HTTPHooks
package integrations
