package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const serviceName = "crdb"

// OTLPConfig configures the OTLP/gRPC metrics exporter.
type OTLPConfig struct {
	Endpoint       string
	Insecure       bool
	ServiceVersion string
}

// NewOTLPMeterProvider creates a meter provider that pushes to an OTEL
// collector. Callers must Shutdown the provider to flush pending metrics.
func NewOTLPMeterProvider(ctx context.Context, cfg OTLPConfig) (*sdkmetric.MeterProvider, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("OTLP endpoint not configured")
	}

	opts := []otlpmetricgrpc.Option{
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetricgrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}

	exp, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp)),
		sdkmetric.WithResource(res),
	), nil
}

// OTelHooks records query, cache and HTTP events as OpenTelemetry metrics.
// It implements [QueryHooks], [CacheHooks] and [HTTPHooks].
type OTelHooks struct {
	queries       metric.Int64Counter
	queryDuration metric.Float64Histogram
	queryRows     metric.Int64Histogram
	cacheEvents   metric.Int64Counter
	cacheBytes    metric.Int64Counter
	httpRequests  metric.Int64Counter
	httpDuration  metric.Float64Histogram
	httpErrors    metric.Int64Counter
}

// NewOTelHooks creates the instruments on meter.
func NewOTelHooks(meter metric.Meter) (*OTelHooks, error) {
	var (
		h   OTelHooks
		err error
	)

	if h.queries, err = meter.Int64Counter(
		"crdb_queries_total",
		metric.WithDescription("Total number of CRDB queries"),
		metric.WithUnit("{query}"),
	); err != nil {
		return nil, fmt.Errorf("creating queries counter: %w", err)
	}

	if h.queryDuration, err = meter.Float64Histogram(
		"crdb_query_duration_seconds",
		metric.WithDescription("End-to-end query duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating query duration histogram: %w", err)
	}

	if h.queryRows, err = meter.Int64Histogram(
		"crdb_query_rows",
		metric.WithDescription("Number of rows returned per query"),
		metric.WithUnit("{row}"),
	); err != nil {
		return nil, fmt.Errorf("creating query rows histogram: %w", err)
	}

	if h.cacheEvents, err = meter.Int64Counter(
		"crdb_cache_events_total",
		metric.WithDescription("Cache hits, misses and writes"),
		metric.WithUnit("{event}"),
	); err != nil {
		return nil, fmt.Errorf("creating cache counter: %w", err)
	}

	if h.cacheBytes, err = meter.Int64Counter(
		"crdb_cache_written_bytes_total",
		metric.WithDescription("Bytes written to the cache"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, fmt.Errorf("creating cache bytes counter: %w", err)
	}

	if h.httpRequests, err = meter.Int64Counter(
		"crdb_http_requests_total",
		metric.WithDescription("Outgoing HTTP requests by status code"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("creating http counter: %w", err)
	}

	if h.httpDuration, err = meter.Float64Histogram(
		"crdb_http_duration_seconds",
		metric.WithDescription("Outgoing HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("creating http duration histogram: %w", err)
	}

	if h.httpErrors, err = meter.Int64Counter(
		"crdb_http_errors_total",
		metric.WithDescription("Outgoing HTTP requests that failed without a response"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, fmt.Errorf("creating http error counter: %w", err)
	}

	return &h, nil
}

// Register installs h as the query, cache and HTTP hooks.
func (h *OTelHooks) Register() {
	SetQueryHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *OTelHooks) OnQueryStart(context.Context, string) {}

func (h *OTelHooks) OnQueryComplete(ctx context.Context, num string, rows int, duration time.Duration, err error) {
	opt := metric.WithAttributes(
		attribute.String("num", num),
		attribute.Bool("error", err != nil),
	)
	h.queries.Add(ctx, 1, opt)
	h.queryDuration.Record(ctx, duration.Seconds(), opt)
	if err == nil {
		h.queryRows.Record(ctx, int64(rows), opt)
	}
}

func (h *OTelHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.cacheEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key_type", keyType),
		attribute.String("event", "hit"),
	))
}

func (h *OTelHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.cacheEvents.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key_type", keyType),
		attribute.String("event", "miss"),
	))
}

func (h *OTelHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	attrs := metric.WithAttributes(
		attribute.String("key_type", keyType),
		attribute.String("event", "set"),
	)
	h.cacheEvents.Add(ctx, 1, attrs)
	h.cacheBytes.Add(ctx, int64(size), metric.WithAttributes(attribute.String("key_type", keyType)))
}

func (h *OTelHooks) OnRequest(context.Context, string, string, string) {}

func (h *OTelHooks) OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("host", host),
		attribute.Int("status_code", statusCode),
	)
	h.httpRequests.Add(ctx, 1, opt)
	h.httpDuration.Record(ctx, duration.Seconds(), opt)
}

func (h *OTelHooks) OnError(ctx context.Context, method, host, path string, err error) {
	h.httpErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("host", host),
	))
}

var (
	_ QueryHooks = (*OTelHooks)(nil)
	_ CacheHooks = (*OTelHooks)(nil)
	_ HTTPHooks  = (*OTelHooks)(nil)
)
