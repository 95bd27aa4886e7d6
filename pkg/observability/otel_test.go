package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: data is %T, want Sum[int64]", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestOTelHooks(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(ctx)

	h, err := NewOTelHooks(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewOTelHooks() error: %v", err)
	}

	h.OnQueryStart(ctx, "H")
	h.OnQueryComplete(ctx, "H", 42, time.Second, nil)
	h.OnQueryComplete(ctx, "Foobar", 0, time.Second, errors.New("unknown particle"))
	h.OnCacheMiss(ctx, "http")
	h.OnCacheSet(ctx, "http", 512)
	h.OnCacheHit(ctx, "http")
	h.OnResponse(ctx, "GET", "lpsc.in2p3.fr", "/crdb/rest.php", 200, 300*time.Millisecond)
	h.OnError(ctx, "GET", "lpsc.in2p3.fr", "/crdb/rest.php", context.DeadlineExceeded)

	got := collect(t, reader)

	tests := []struct {
		name string
		want int64
	}{
		{"crdb_queries_total", 2},
		{"crdb_cache_events_total", 3},
		{"crdb_cache_written_bytes_total", 512},
		{"crdb_http_requests_total", 1},
		{"crdb_http_errors_total", 1},
	}
	for _, tt := range tests {
		m, ok := got[tt.name]
		if !ok {
			t.Errorf("metric %s not recorded", tt.name)
			continue
		}
		if v := sumOf(t, m); v != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, v, tt.want)
		}
	}

	for _, name := range []string{"crdb_query_duration_seconds", "crdb_query_rows", "crdb_http_duration_seconds"} {
		if _, ok := got[name]; !ok {
			t.Errorf("histogram %s not recorded", name)
		}
	}
}

func TestOTelHooksRegister(t *testing.T) {
	defer Reset()

	provider := sdkmetric.NewMeterProvider()
	defer provider.Shutdown(context.Background())

	h, err := NewOTelHooks(provider.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	h.Register()

	if Query() != QueryHooks(h) || Cache() != CacheHooks(h) || HTTP() != HTTPHooks(h) {
		t.Error("Register() should install the hooks globally")
	}
}

func TestNewOTLPMeterProvider_NoEndpoint(t *testing.T) {
	if _, err := NewOTLPMeterProvider(context.Background(), OTLPConfig{}); err == nil {
		t.Error("expected error for empty endpoint")
	}
}
